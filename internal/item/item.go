// Package item はTODOアイテムの永続化を提供する。
//
// 認証の中核からは Store インターフェースとしてのみ参照される外部の協調者であり、
// 実装はSQLite（modernc.org/sqlite）を使用する。
package item

import (
	"context"
	"errors"
)

// ストア操作で返されるエラー。
var (
	// ErrNotFound は指定したIDのアイテムが存在しないことを表す。
	ErrNotFound = errors.New("アイテムが見つかりません")
	// ErrDuplicate は同じIDのアイテムが既に存在することを表す。
	ErrDuplicate = errors.New("同じIDのアイテムが既に存在します")
)

// Item はTODOアイテム。
type Item struct {
	// ID はアイテムの識別子。作成時に呼び出し側が指定する。
	ID int `json:"id" validate:"gt=0"`
	// Title はアイテムのタイトル。
	Title string `json:"title" validate:"required,min=2,max=200"`
	// IsCompleted は完了済みかどうか。
	IsCompleted bool `json:"isCompleted"`
}

// Store はアイテムをIDで引けるストア。
type Store interface {
	// List はすべてのアイテムをID順に返す。
	List(ctx context.Context) ([]Item, error)
	// Get は id のアイテムを返す。存在しない場合は ErrNotFound を返す。
	Get(ctx context.Context, id int) (Item, error)
	// Insert はアイテムを追加する。IDが重複する場合は ErrDuplicate を返す。
	Insert(ctx context.Context, it Item) error
	// Update はアイテムのタイトルと完了状態を更新する。存在しない場合は ErrNotFound を返す。
	Update(ctx context.Context, it Item) error
	// Delete は id のアイテムを削除する。存在しない場合は ErrNotFound を返す。
	Delete(ctx context.Context, id int) error
}
