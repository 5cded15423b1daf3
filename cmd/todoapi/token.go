package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/todoapi/internal/auth"
	"github.com/nao1215/todoapi/internal/config"
)

var (
	tokenUsername string
	tokenPassword string
)

// tokenCmd はサーバーを介さずにトークンを扱うコマンド。
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "設定ファイルの署名鍵でトークンを発行・検証する",
}

var tokenIssueCmd = &cobra.Command{
	Use:   "issue",
	Short: "資格情報を検証してトークンを発行する",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}
		issuer, err := auth.NewIssuer([]byte(cfg.Jwt.Key), cfg.Jwt.Issuer, cfg.Jwt.Audience,
			auth.NewStaticVerifier(), auth.WithLifetime(cfg.Jwt.TokenLifetime))
		if err != nil {
			return err
		}

		token, err := issuer.Issue(cmd.Context(), auth.Credentials{Username: tokenUsername, Password: tokenPassword})
		if err != nil {
			return fmt.Errorf("トークンの発行に失敗: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

var tokenVerifyCmd = &cobra.Command{
	Use:   "verify <token>",
	Short: "トークンを検証してアイデンティティを表示する",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}
		validator, err := auth.NewValidator([]byte(cfg.Jwt.Key), cfg.Jwt.Policy())
		if err != nil {
			return err
		}

		id, err := validator.Validate(args[0])
		if err != nil {
			return fmt.Errorf("トークンが無効です: %w", err)
		}
		return printJSON(cmd.OutOrStdout(), id)
	},
}

func init() {
	tokenIssueCmd.Flags().StringVarP(&tokenUsername, "username", "u", "", "ユーザー名")
	tokenIssueCmd.Flags().StringVarP(&tokenPassword, "password", "P", "", "パスワード")
	_ = tokenIssueCmd.MarkFlagRequired("username")
	_ = tokenIssueCmd.MarkFlagRequired("password")

	tokenCmd.AddCommand(tokenIssueCmd, tokenVerifyCmd)
	rootCmd.AddCommand(tokenCmd)
}
