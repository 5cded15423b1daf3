package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nao1215/todoapi/internal/logging"
)

// グローバルフラグ
var (
	configFile string
)

const (
	logLevelKey  = "log.level"
	logFormatKey = "log.format"
	serverKey    = "client.server"
	tokenKey     = "client.token"
)

var rootCmd = &cobra.Command{
	Use:   "todoapi",
	Short: "JWTで保護されたTODO API",
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if _, err := logging.Init(viper.GetString(logLevelKey), viper.GetString(logFormatKey)); err != nil {
			return err
		}
		return nil
	},
}

// Execute はルートコマンドを実行する。
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("実行に失敗しました")
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"設定ファイル（既定はカレントディレクトリの appsettings.json）")

	rootCmd.PersistentFlags().String("log-level", "info", "ログレベル (debug, info, warn, error)")
	_ = viper.BindPFlag(logLevelKey, rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindEnv(logLevelKey, "LOG_LEVEL")

	rootCmd.PersistentFlags().String("log-format", "console", "ログ形式 (console, json)")
	_ = viper.BindPFlag(logFormatKey, rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindEnv(logFormatKey, "LOG_FORMAT")

	rootCmd.PersistentFlags().String("server", "http://localhost:8080", "login/items が呼び出すTODO APIのベースURL")
	_ = viper.BindPFlag(serverKey, rootCmd.PersistentFlags().Lookup("server"))
	_ = viper.BindEnv(serverKey, "TODOAPI_SERVER")

	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
}

// printJSON は v をインデント付きのJSONとして出力する。
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("JSONの出力に失敗: %w", err)
	}
	return nil
}
