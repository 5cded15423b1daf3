// Package config はサービスの設定を読み込む。
//
// 設定は appsettings.json（任意）と環境変数から起動時に一度だけ読み込まれ、
// 以降は不変の値として各コンポーネントに渡される。
// 環境変数は JWT_KEY 形式と Jwt__Key 形式の両方を受け付ける。
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/nao1215/todoapi/internal/auth"
)

// Config はサービス全体の設定。
type Config struct {
	// Jwt はトークンの署名と検証の設定。
	Jwt JwtConfig `mapstructure:"jwt"`
	// ConnectionStrings はストレージの接続先。
	ConnectionStrings ConnectionStrings `mapstructure:"connectionstrings"`
	// Server はHTTPサーバーの設定。
	Server ServerConfig `mapstructure:"server"`
	// Log はログ出力の設定。
	Log LogConfig `mapstructure:"log"`
}

// JwtConfig はトークンの署名と検証の設定。
type JwtConfig struct {
	// Key はHMAC署名鍵。
	Key string `mapstructure:"key"`
	// Issuer は発行者（iss）。
	Issuer string `mapstructure:"issuer"`
	// Audience はオーディエンス（aud）。
	Audience string `mapstructure:"audience"`
	// ValidateLifetime は有効期限を検証するかどうか。
	// 互換性のため既定値は false で、期限切れのトークンも受け入れられる。
	ValidateLifetime bool `mapstructure:"validatelifetime"`
	// TokenLifetime は発行するトークンの有効期間。
	TokenLifetime time.Duration `mapstructure:"tokenlifetime"`
	// ClockSkew は有効期限の検証で許容する時計のずれ。
	ClockSkew time.Duration `mapstructure:"clockskew"`
}

// ConnectionStrings はストレージの接続先。
type ConnectionStrings struct {
	// DefaultConnection はSQLiteの接続文字列（"Data Source=todos.db" 形式も可）。
	DefaultConnection string `mapstructure:"defaultconnection"`
}

// ServerConfig はHTTPサーバーの設定。
type ServerConfig struct {
	// Port はリッスンポート。
	Port string `mapstructure:"port"`
	// ShutdownTimeout はグレースフルシャットダウンの待ち時間。
	ShutdownTimeout time.Duration `mapstructure:"shutdowntimeout"`
	// AllowedOrigins はCORSで許可するオリジン。空の場合はCORSヘッダーを付与しない。
	AllowedOrigins []string `mapstructure:"allowedorigins"`
}

// LogConfig はログ出力の設定。
type LogConfig struct {
	// Level はログレベル（debug, info, warn, error）。
	Level string `mapstructure:"level"`
	// Format は出力形式（console, json）。
	Format string `mapstructure:"format"`
}

// envBindings は設定キーと対応する環境変数名。
var envBindings = map[string][]string{
	"jwt.key":                             {"JWT_KEY", "Jwt__Key"},
	"jwt.issuer":                          {"JWT_ISSUER", "Jwt__Issuer"},
	"jwt.audience":                        {"JWT_AUDIENCE", "Jwt__Audience"},
	"jwt.validatelifetime":                {"JWT_VALIDATE_LIFETIME", "Jwt__ValidateLifetime"},
	"jwt.tokenlifetime":                   {"JWT_TOKEN_LIFETIME", "Jwt__TokenLifetime"},
	"jwt.clockskew":                       {"JWT_CLOCK_SKEW", "Jwt__ClockSkew"},
	"connectionstrings.defaultconnection": {"CONNECTIONSTRINGS_DEFAULTCONNECTION", "ConnectionStrings__DefaultConnection"},
	"server.port":                         {"PORT", "SERVER_PORT"},
	"server.shutdowntimeout":              {"SERVER_SHUTDOWN_TIMEOUT"},
	"server.allowedorigins":               {"CORS_ALLOWED_ORIGINS"},
	"log.level":                           {"LOG_LEVEL"},
	"log.format":                          {"LOG_FORMAT"},
}

// Load は設定ファイルと環境変数から設定を読み込む。
// configFile が空の場合はカレントディレクトリの appsettings.json を探し、無ければ環境変数だけを使う。
// カレントディレクトリに .env があれば先に読み込む。
func Load(configFile string) (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf(".envの読み込みに失敗: %w", err)
		}
	}

	v := viper.New()
	setDefaults(v)
	for key, envs := range envBindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("環境変数のバインドに失敗: %w", err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("appsettings")
		v.SetConfigType("json")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("設定ファイルの読み込みに失敗: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("設定のデコードに失敗: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults は既定値を設定する。
func setDefaults(v *viper.Viper) {
	v.SetDefault("jwt.issuer", "todoapi")
	v.SetDefault("jwt.audience", "todoapi")
	v.SetDefault("jwt.validatelifetime", false)
	v.SetDefault("jwt.tokenlifetime", auth.DefaultTokenLifetime)
	v.SetDefault("jwt.clockskew", time.Duration(0))
	v.SetDefault("connectionstrings.defaultconnection", "Data Source=todos.db")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.shutdowntimeout", 10*time.Second)
	v.SetDefault("server.allowedorigins", []string{})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// Validate は必須の設定が揃っているかを検証する。
func (c *Config) Validate() error {
	if c.Jwt.Key == "" {
		return errors.New("Jwt:Key が設定されていません")
	}
	if c.ConnectionStrings.DefaultConnection == "" {
		return errors.New("ConnectionStrings:DefaultConnection が設定されていません")
	}
	if c.Jwt.TokenLifetime <= 0 {
		return errors.New("Jwt:TokenLifetime は正の値である必要があります")
	}
	return nil
}

// Policy はJWT設定からトークン検証ポリシーを組み立てる。
// 発行者・オーディエンス・署名鍵の検証は常に有効にする。
func (j JwtConfig) Policy() auth.Policy {
	p := auth.DefaultPolicy(j.Issuer, j.Audience)
	p.ValidateLifetime = j.ValidateLifetime
	p.ClockSkew = j.ClockSkew
	return p
}

// String は署名鍵を伏せた設定の文字列表現を返す。
func (c *Config) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	if c.Jwt.Key != "" {
		sb.WriteString("  Jwt:Key: ********\n")
	} else {
		sb.WriteString("  Jwt:Key: (empty)\n")
	}
	fmt.Fprintf(&sb, "  Jwt:Issuer: %s\n", c.Jwt.Issuer)
	fmt.Fprintf(&sb, "  Jwt:Audience: %s\n", c.Jwt.Audience)
	fmt.Fprintf(&sb, "  Jwt:ValidateLifetime: %v\n", c.Jwt.ValidateLifetime)
	fmt.Fprintf(&sb, "  Jwt:TokenLifetime: %s\n", c.Jwt.TokenLifetime)
	fmt.Fprintf(&sb, "  ConnectionStrings:DefaultConnection: %s\n", c.ConnectionStrings.DefaultConnection)
	fmt.Fprintf(&sb, "  Server:Port: %s\n", c.Server.Port)
	fmt.Fprintf(&sb, "  Log:Level: %s\n", c.Log.Level)
	return sb.String()
}
