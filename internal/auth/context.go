package auth

import "context"

// contextKey はコンテキストキーの型。
type contextKey struct{}

// WithIdentity はコンテキストに検証済みアイデンティティを設定する。
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext はコンテキストから検証済みアイデンティティを取得する。
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}
