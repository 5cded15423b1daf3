package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nao1215/todoapi/pkg/httpclient"
)

var (
	loginUsername string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "サーバーにログインしてトークンを表示する",
	RunE: func(cmd *cobra.Command, _ []string) error {
		client := httpclient.New(viper.GetString(serverKey))
		token, err := client.Login(cmd.Context(), loginUsername, loginPassword)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "ユーザー名")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "P", "", "パスワード")
	_ = loginCmd.MarkFlagRequired("username")
	_ = loginCmd.MarkFlagRequired("password")
	rootCmd.AddCommand(loginCmd)
}
