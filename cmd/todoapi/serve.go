package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/nao1215/todoapi/internal/auth"
	"github.com/nao1215/todoapi/internal/config"
	"github.com/nao1215/todoapi/internal/item"
	"github.com/nao1215/todoapi/internal/logging"
	"github.com/nao1215/todoapi/internal/todoapi"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "HTTPサーバーを起動する",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = servePort
		}
		if !rootCmd.PersistentFlags().Changed("log-level") && !rootCmd.PersistentFlags().Changed("log-format") {
			if _, err := logging.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
				return err
			}
		}
		log.Debug().Msgf("設定を読み込みました: %s", cfg)

		if !cfg.Jwt.ValidateLifetime {
			log.Warn().Msg("Jwt:ValidateLifetime が無効です。期限切れのトークンも受け入れられます")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		store, err := item.OpenSQLite(ctx, cfg.ConnectionStrings.DefaultConnection)
		if err != nil {
			return err
		}
		defer store.Close()

		key := []byte(cfg.Jwt.Key)
		issuer, err := auth.NewIssuer(key, cfg.Jwt.Issuer, cfg.Jwt.Audience, auth.NewStaticVerifier(),
			auth.WithLifetime(cfg.Jwt.TokenLifetime))
		if err != nil {
			return err
		}
		validator, err := auth.NewValidator(key, cfg.Jwt.Policy())
		if err != nil {
			return err
		}

		server, err := todoapi.NewServer(cfg.Server.Port, store, issuer, validator,
			todoapi.WithAllowedOrigins(cfg.Server.AllowedOrigins),
			todoapi.WithShutdownTimeout(cfg.Server.ShutdownTimeout),
		)
		if err != nil {
			return err
		}

		return server.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "リッスンポート（Server:Port を上書き）")
	rootCmd.AddCommand(serveCmd)
}
