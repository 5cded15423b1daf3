package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/xid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nao1215/todoapi/internal/item"
	"github.com/nao1215/todoapi/pkg/httpclient"
)

var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "サーバーのTODOアイテムを操作する",
}

var itemsListCmd = &cobra.Command{
	Use:   "list",
	Short: "アイテムの一覧を表示する",
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, ctx, err := newItemsClient(cmd.Context())
		if err != nil {
			return err
		}

		var items []item.Item
		if err := client.GetJSON(ctx, "/items", &items); err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), items)
	},
}

var itemsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "アイテムを表示する",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("IDは整数で指定してください: %q", args[0])
		}
		client, ctx, err := newItemsClient(cmd.Context())
		if err != nil {
			return err
		}

		var it item.Item
		if err := client.GetJSON(ctx, fmt.Sprintf("/items/%d", id), &it); err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), it)
	},
}

// newItemsClient はトークンと相関IDを設定したクライアントとコンテキストを返す。
func newItemsClient(ctx context.Context) (*httpclient.Client, context.Context, error) {
	token := viper.GetString(tokenKey)
	if token == "" {
		return nil, nil, errors.New("トークンが指定されていません（--token または TODOAPI_TOKEN）")
	}
	ctx = httpclient.WithBearerToken(ctx, token)
	ctx = httpclient.WithCorrelationID(ctx, xid.New().String())
	return httpclient.New(viper.GetString(serverKey)), ctx, nil
}

func init() {
	itemsCmd.PersistentFlags().String("token", "", "ベアラートークン（環境変数 TODOAPI_TOKEN でも指定可）")
	_ = viper.BindPFlag(tokenKey, itemsCmd.PersistentFlags().Lookup("token"))
	_ = viper.BindEnv(tokenKey, "TODOAPI_TOKEN")

	itemsCmd.AddCommand(itemsListCmd, itemsGetCmd)
	rootCmd.AddCommand(itemsCmd)
}
