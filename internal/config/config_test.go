package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// writeSettings は一時ディレクトリに設定ファイルを書き出してパスを返す。
func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "appsettings.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("設定ファイルの書き込みに失敗: %v", err)
	}
	return path
}

// TestLoad は設定の読み込みを検証する。
// t.Setenv を使用するため並列実行しない。
func TestLoad(t *testing.T) {
	t.Run("appsettings.jsonの階層キーを読み込めること", func(t *testing.T) {
		path := writeSettings(t, `{
			"Jwt": {
				"Key": "file-signing-key-0123456789abcdef0123",
				"Issuer": "https://todo.example.com",
				"Audience": "https://todo.example.com/api",
				"TokenLifetime": "10m"
			},
			"ConnectionStrings": {"DefaultConnection": "Data Source=file.db"}
		}`)

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load()でエラーが発生: %v", err)
		}
		if cfg.Jwt.Key != "file-signing-key-0123456789abcdef0123" {
			t.Errorf("Jwt.Key = %q", cfg.Jwt.Key)
		}
		if cfg.Jwt.Issuer != "https://todo.example.com" {
			t.Errorf("Jwt.Issuer = %q, want %q", cfg.Jwt.Issuer, "https://todo.example.com")
		}
		if cfg.Jwt.Audience != "https://todo.example.com/api" {
			t.Errorf("Jwt.Audience = %q, want %q", cfg.Jwt.Audience, "https://todo.example.com/api")
		}
		if cfg.Jwt.TokenLifetime != 10*time.Minute {
			t.Errorf("Jwt.TokenLifetime = %s, want 10m", cfg.Jwt.TokenLifetime)
		}
		if cfg.ConnectionStrings.DefaultConnection != "Data Source=file.db" {
			t.Errorf("DefaultConnection = %q", cfg.ConnectionStrings.DefaultConnection)
		}
		if cfg.Jwt.ValidateLifetime {
			t.Error("ValidateLifetimeの既定値はfalseであるべき")
		}
		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %q, want 8080", cfg.Server.Port)
		}
	})

	t.Run("環境変数が設定ファイルより優先されること", func(t *testing.T) {
		path := writeSettings(t, `{"Jwt": {"Key": "file-key", "Issuer": "file-issuer"}}`)
		t.Setenv("JWT_ISSUER", "env-issuer")
		t.Setenv("Jwt__Audience", "env-audience")
		t.Setenv("JWT_VALIDATE_LIFETIME", "true")
		t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,https://todo.example.com")

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load()でエラーが発生: %v", err)
		}
		if cfg.Jwt.Issuer != "env-issuer" {
			t.Errorf("Jwt.Issuer = %q, want %q", cfg.Jwt.Issuer, "env-issuer")
		}
		if cfg.Jwt.Audience != "env-audience" {
			t.Errorf("Jwt.Audience = %q, want %q", cfg.Jwt.Audience, "env-audience")
		}
		if !cfg.Jwt.ValidateLifetime {
			t.Error("ValidateLifetimeがtrueになっていません")
		}
		if len(cfg.Server.AllowedOrigins) != 2 || cfg.Server.AllowedOrigins[1] != "https://todo.example.com" {
			t.Errorf("Server.AllowedOrigins = %v", cfg.Server.AllowedOrigins)
		}
	})

	t.Run("署名鍵が無い場合はエラーになること", func(t *testing.T) {
		path := writeSettings(t, `{"Jwt": {"Issuer": "x"}}`)

		if _, err := Load(path); err == nil {
			t.Fatal("署名鍵が無い場合にエラーを返すべき")
		}
	})

	t.Run("指定した設定ファイルが存在しない場合はエラーになること", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
			t.Fatal("存在しない設定ファイルでエラーを返すべき")
		}
	})
}

// TestPolicy は設定から組み立てる検証ポリシーを確認する。
func TestPolicy(t *testing.T) {
	t.Parallel()

	j := JwtConfig{Issuer: "iss", Audience: "aud", ValidateLifetime: true, ClockSkew: time.Minute}
	p := j.Policy()

	if !p.ValidateIssuer || p.Issuer != "iss" {
		t.Errorf("Issuerの検証が設定されていません: %+v", p)
	}
	if !p.ValidateAudience || p.Audience != "aud" {
		t.Errorf("Audienceの検証が設定されていません: %+v", p)
	}
	if !p.ValidateLifetime || p.ClockSkew != time.Minute {
		t.Errorf("有効期限の検証が設定されていません: %+v", p)
	}
	if !p.ValidateSigningKey {
		t.Error("署名鍵の検証が有効になっていません")
	}
}

// TestConfigString は署名鍵が伏せられることを検証する。
func TestConfigString(t *testing.T) {
	t.Parallel()

	cfg := &Config{Jwt: JwtConfig{Key: "super-secret"}}
	if s := cfg.String(); strings.Contains(s, "super-secret") {
		t.Errorf("署名鍵が出力に含まれています: %s", s)
	}
}
