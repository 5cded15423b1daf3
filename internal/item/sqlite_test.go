package item

import (
	"errors"
	"testing"
)

// newTestStore はインメモリSQLiteの SQLiteStore を生成する。
func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(t.Context(), ":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite()でエラーが発生: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// TestDSNFromConnectionString は接続文字列の変換を検証する。
func TestDSNFromConnectionString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "Data Source=todos.db", want: "todos.db"},
		{in: "data source = /data/todos.db;Cache=Shared", want: "/data/todos.db"},
		{in: "file:todos.db?_pragma=busy_timeout(5000)", want: "file:todos.db?_pragma=busy_timeout(5000)"},
		{in: ":memory:", want: ":memory:"},
	}
	for _, tt := range tests {
		if got := DSNFromConnectionString(tt.in); got != tt.want {
			t.Errorf("DSNFromConnectionString(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// TestSQLiteStore はSQLiteストアのCRUDを検証する。
func TestSQLiteStore(t *testing.T) {
	t.Parallel()

	t.Run("アイテムが存在しない場合は空のスライスを返す", func(t *testing.T) {
		t.Parallel()
		s := newTestStore(t)

		items, err := s.List(t.Context())
		if err != nil {
			t.Fatalf("List()でエラーが発生: %v", err)
		}
		if items == nil || len(items) != 0 {
			t.Errorf("List() = %v, want empty slice", items)
		}
	})

	t.Run("追加したアイテムをID順に取得できる", func(t *testing.T) {
		t.Parallel()
		s := newTestStore(t)

		for _, it := range []Item{
			{ID: 2, Title: "Drink Water", IsCompleted: true},
			{ID: 1, Title: "Go to the gym"},
		} {
			if err := s.Insert(t.Context(), it); err != nil {
				t.Fatalf("Insert()でエラーが発生: %v", err)
			}
		}

		items, err := s.List(t.Context())
		if err != nil {
			t.Fatalf("List()でエラーが発生: %v", err)
		}
		if len(items) != 2 || items[0].ID != 1 || items[1].ID != 2 {
			t.Fatalf("List() = %+v, want ids [1 2]", items)
		}
		if !items[1].IsCompleted {
			t.Error("IsCompletedが保存されていません")
		}

		got, err := s.Get(t.Context(), 1)
		if err != nil {
			t.Fatalf("Get()でエラーが発生: %v", err)
		}
		if got.Title != "Go to the gym" {
			t.Errorf("Title = %q, want %q", got.Title, "Go to the gym")
		}
	})

	t.Run("同じIDの追加はErrDuplicateを返す", func(t *testing.T) {
		t.Parallel()
		s := newTestStore(t)

		if err := s.Insert(t.Context(), Item{ID: 1, Title: "first"}); err != nil {
			t.Fatalf("Insert()でエラーが発生: %v", err)
		}
		if err := s.Insert(t.Context(), Item{ID: 1, Title: "second"}); !errors.Is(err, ErrDuplicate) {
			t.Errorf("error = %v, want ErrDuplicate", err)
		}
	})

	t.Run("存在しないIDの操作はErrNotFoundを返す", func(t *testing.T) {
		t.Parallel()
		s := newTestStore(t)

		if _, err := s.Get(t.Context(), 99); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get() error = %v, want ErrNotFound", err)
		}
		if err := s.Update(t.Context(), Item{ID: 99, Title: "none"}); !errors.Is(err, ErrNotFound) {
			t.Errorf("Update() error = %v, want ErrNotFound", err)
		}
		if err := s.Delete(t.Context(), 99); !errors.Is(err, ErrNotFound) {
			t.Errorf("Delete() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("更新と削除が反映される", func(t *testing.T) {
		t.Parallel()
		s := newTestStore(t)

		if err := s.Insert(t.Context(), Item{ID: 3, Title: "Watch TV"}); err != nil {
			t.Fatalf("Insert()でエラーが発生: %v", err)
		}
		if err := s.Update(t.Context(), Item{ID: 3, Title: "Read a book", IsCompleted: true}); err != nil {
			t.Fatalf("Update()でエラーが発生: %v", err)
		}

		got, err := s.Get(t.Context(), 3)
		if err != nil {
			t.Fatalf("Get()でエラーが発生: %v", err)
		}
		if got.Title != "Read a book" || !got.IsCompleted {
			t.Errorf("Get() = %+v, want {3 Read a book true}", got)
		}

		if err := s.Delete(t.Context(), 3); err != nil {
			t.Fatalf("Delete()でエラーが発生: %v", err)
		}
		if _, err := s.Get(t.Context(), 3); !errors.Is(err, ErrNotFound) {
			t.Errorf("削除後のGet() error = %v, want ErrNotFound", err)
		}
	})
}
