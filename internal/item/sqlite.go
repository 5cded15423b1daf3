package item

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"

	// SQLiteドライバを登録する。
	_ "modernc.org/sqlite"

	"github.com/nao1215/todoapi/pkg/migration"
)

//go:embed migrations/*.sql
var migrations embed.FS

// SQLiteStore はSQLiteを使用する Store の実装。
type SQLiteStore struct {
	// db はSQLiteデータベース接続。
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite は dsn のSQLiteデータベースを開き、マイグレーションを適用した SQLiteStore を返す。
// dsn には "Data Source=todos.db" 形式の接続文字列も指定できる。
func OpenSQLite(ctx context.Context, dsn string) (*SQLiteStore, error) {
	dsn = DSNFromConnectionString(dsn)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("データベース接続に失敗: %w", err)
	}
	if strings.Contains(dsn, ":memory:") {
		// インメモリDBは接続ごとに別のDBになるため1接続に制限する
		db.SetMaxOpenConns(1)
	}

	s, err := NewSQLiteStore(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLiteStore は開いている db にマイグレーションを適用した SQLiteStore を返す。
func NewSQLiteStore(ctx context.Context, db *sql.DB) (*SQLiteStore, error) {
	if err := migration.Run(ctx, db, migrations, "migrations"); err != nil {
		return nil, fmt.Errorf("スキーマ初期化に失敗: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// DSNFromConnectionString は "Data Source=xxx" 形式の接続文字列をSQLiteのDSNに変換する。
// それ以外の形式はそのまま返す。
func DSNFromConnectionString(s string) string {
	for _, part := range strings.Split(s, ";") {
		key, value, found := strings.Cut(part, "=")
		if found && strings.EqualFold(strings.TrimSpace(key), "Data Source") {
			return strings.TrimSpace(value)
		}
	}
	return s
}

// Close はデータベース接続を閉じる。
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping はデータベースへの接続を確認する。
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// List はすべてのアイテムをID順に返す。
func (s *SQLiteStore) List(ctx context.Context) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, title, is_completed FROM items ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("アイテム一覧の取得に失敗: %w", err)
	}
	defer func() { _ = rows.Close() }()

	items := make([]Item, 0)
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.Title, &it.IsCompleted); err != nil {
			return nil, fmt.Errorf("アイテムの読み込みに失敗: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Get は id のアイテムを返す。
func (s *SQLiteStore) Get(ctx context.Context, id int) (Item, error) {
	var it Item
	err := s.db.QueryRowContext(ctx,
		"SELECT id, title, is_completed FROM items WHERE id = ?", id,
	).Scan(&it.ID, &it.Title, &it.IsCompleted)
	if errors.Is(err, sql.ErrNoRows) {
		return Item{}, ErrNotFound
	}
	if err != nil {
		return Item{}, fmt.Errorf("アイテムの取得に失敗: %w", err)
	}
	return it, nil
}

// Insert はアイテムを追加する。
func (s *SQLiteStore) Insert(ctx context.Context, it Item) error {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO items (id, title, is_completed) VALUES (?, ?, ?) ON CONFLICT(id) DO NOTHING",
		it.ID, it.Title, it.IsCompleted,
	)
	if err != nil {
		return fmt.Errorf("アイテムの追加に失敗: %w", err)
	}
	return expectOneRow(res, ErrDuplicate)
}

// Update はアイテムのタイトルと完了状態を更新する。
func (s *SQLiteStore) Update(ctx context.Context, it Item) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE items SET title = ?, is_completed = ?, updated_at = datetime('now') WHERE id = ?",
		it.Title, it.IsCompleted, it.ID,
	)
	if err != nil {
		return fmt.Errorf("アイテムの更新に失敗: %w", err)
	}
	return expectOneRow(res, ErrNotFound)
}

// Delete は id のアイテムを削除する。
func (s *SQLiteStore) Delete(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM items WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("アイテムの削除に失敗: %w", err)
	}
	return expectOneRow(res, ErrNotFound)
}

// expectOneRow は影響を受けた行が無い場合に errNone を返す。
func expectOneRow(res sql.Result, errNone error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("影響行数の取得に失敗: %w", err)
	}
	if n == 0 {
		return errNone
	}
	return nil
}
