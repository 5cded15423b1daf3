package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTokenLifetime は発行するトークンの既定の有効期間。
const DefaultTokenLifetime = 5 * time.Minute

// Credentials はログインリクエストで受け取る資格情報。
// ログイン処理の間だけ存在し、永続化されない。
type Credentials struct {
	// Username はユーザー名（メールアドレス）。
	Username string `json:"username"`
	// Password はパスワード。
	Password string `json:"password"`
}

// CredentialVerifier は資格情報を検証し、主体のユーザーIDを返す。
// 一致しない場合は ErrAuthenticationFailure を返す。
type CredentialVerifier interface {
	Verify(ctx context.Context, c Credentials) (string, error)
}

// StaticVerifier は固定の資格情報1組だけを受け入れるプレースホルダー実装。
// ユーザーストアもパスワードハッシュも持たないため、本番の認証基盤としては使用できない。
type StaticVerifier struct {
	// Username は受け入れるユーザー名。
	Username string
	// Password は受け入れるパスワード。
	Password string
	// UserID は認証成功時に返すユーザーID。
	UserID string
}

// NewStaticVerifier は既定の管理者アカウントを受け入れる StaticVerifier を返す。
func NewStaticVerifier() StaticVerifier {
	return StaticVerifier{
		Username: "admin@mohamadlawand.com",
		Password: "Password123",
		UserID:   "1",
	}
}

// Verify は資格情報が固定値と一致するかを定数時間で比較する。
func (v StaticVerifier) Verify(_ context.Context, c Credentials) (string, error) {
	userOK := subtle.ConstantTimeCompare([]byte(c.Username), []byte(v.Username))
	passOK := subtle.ConstantTimeCompare([]byte(c.Password), []byte(v.Password))
	if userOK&passOK != 1 {
		return "", ErrAuthenticationFailure
	}
	return v.UserID, nil
}

// Issuer は資格情報を検証し、HS512で署名したJWTを発行する。
type Issuer struct {
	// key はHMAC署名鍵。
	key []byte
	// issuer はissクレームに設定する値。
	issuer string
	// audience はaudクレームに設定する値。
	audience string
	// lifetime はトークンの有効期間。
	lifetime time.Duration
	// verifier は資格情報の検証器。
	verifier CredentialVerifier
	// now は現在時刻を返す関数。
	now func() time.Time
	// newID はjtiを生成する関数。
	newID func() string
}

// IssuerOption は Issuer の設定を変更する。
type IssuerOption func(*Issuer)

// WithLifetime はトークンの有効期間を設定する。0以下の値は無視する。
func WithLifetime(d time.Duration) IssuerOption {
	return func(i *Issuer) {
		if d > 0 {
			i.lifetime = d
		}
	}
}

// WithIssuerClock は発行時刻の取得元を差し替える。
func WithIssuerClock(now func() time.Time) IssuerOption {
	return func(i *Issuer) { i.now = now }
}

// NewIssuer は新しい Issuer を生成する。
// 鍵が MinSigningKeyLength 未満の場合はエラーを返す。
func NewIssuer(key []byte, issuer, audience string, verifier CredentialVerifier, opts ...IssuerOption) (*Issuer, error) {
	if len(key) == 0 {
		return nil, fmt.Errorf("署名鍵が設定されていません: %w", ErrWeakSigningKey)
	}
	if len(key) < MinSigningKeyLength {
		return nil, fmt.Errorf("署名鍵は%dバイト以上必要です: %w", MinSigningKeyLength, ErrWeakSigningKey)
	}
	if verifier == nil {
		return nil, fmt.Errorf("資格情報の検証器が設定されていません")
	}

	i := &Issuer{
		key:      key,
		issuer:   issuer,
		audience: audience,
		lifetime: DefaultTokenLifetime,
		verifier: verifier,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

// Issue は資格情報を検証し、署名済みのコンパクト形式トークンを返す。
// 資格情報が空または一致しない場合は ErrAuthenticationFailure を返す。
func (i *Issuer) Issue(ctx context.Context, c Credentials) (string, error) {
	if c.Username == "" || c.Password == "" {
		return "", ErrAuthenticationFailure
	}

	userID, err := i.verifier.Verify(ctx, c)
	if err != nil {
		return "", err
	}

	now := i.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			Subject:   c.Username,
			ExpiresAt: jwt.NewNumericDate(now.Add(i.lifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        i.newID(),
		},
		UserID: userID,
		Email:  c.Username,
	}
	if i.audience != "" {
		claims.Audience = jwt.ClaimStrings{i.audience}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString(i.key)
	if err != nil {
		return "", fmt.Errorf("JWTトークンの署名に失敗: %w", err)
	}
	return signed, nil
}
