package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims はトークンに埋め込まれるクレーム集合。
// 登録済みクレーム（iss, sub, aud, exp, iat, jti）に加えてユーザーIDとメールアドレスを持つ。
type Claims struct {
	jwt.RegisteredClaims
	// UserID は主体の安定した識別子。
	UserID string `json:"id"`
	// Email は主体の識別子をメール形式のクレームとして複製したもの。
	Email string `json:"email"`
}

// Identity は検証に成功したトークンから得られるアイデンティティ。
// 1リクエストの間だけコンテキストに保持され、リクエスト間で共有されない。
type Identity struct {
	// UserID は主体の安定した識別子。
	UserID string
	// Subject はsubクレーム（ログイン時のユーザー名）。
	Subject string
	// Email はemailクレーム。
	Email string
	// TokenID はjtiクレーム。失効管理用だが現状は未使用。
	TokenID string
	// Issuer はissクレーム。
	Issuer string
	// Audience はaudクレーム。
	Audience []string
	// ExpiresAt はexpクレーム。未設定の場合はゼロ値。
	ExpiresAt time.Time
}

// identityFrom はクレームを Identity に射影する。
func identityFrom(c *Claims) Identity {
	id := Identity{
		UserID:   c.UserID,
		Subject:  c.Subject,
		Email:    c.Email,
		TokenID:  c.ID,
		Issuer:   c.Issuer,
		Audience: []string(c.Audience),
	}
	if c.ExpiresAt != nil {
		id.ExpiresAt = c.ExpiresAt.Time
	}
	return id
}
