package auth

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinSigningKeyLength は ValidateSigningKey が有効な場合に要求する署名鍵の最小バイト数。
const MinSigningKeyLength = 32

// Policy はトークン検証時に有効にするチェックの集合。
// 署名の検証はポリシーに関係なく常に行われる。
type Policy struct {
	// ValidateIssuer はissクレームを検証するかどうか。
	ValidateIssuer bool
	// Issuer は期待するissの値。
	Issuer string
	// ValidateAudience はaudクレームを検証するかどうか。
	ValidateAudience bool
	// Audience は期待するaudの値。
	Audience string
	// ValidateLifetime はexpクレームを検証するかどうか。
	// 無効にすると期限切れのトークンが無期限に使用できる。
	ValidateLifetime bool
	// ClockSkew は有効期限の検証で許容する時計のずれ。
	ClockSkew time.Duration
	// ValidateSigningKey は署名鍵の長さを検証するかどうか。
	ValidateSigningKey bool
}

// DefaultPolicy はすべてのチェックを有効にしたポリシーを返す。
func DefaultPolicy(issuer, audience string) Policy {
	return Policy{
		ValidateIssuer:     true,
		Issuer:             issuer,
		ValidateAudience:   true,
		Audience:           audience,
		ValidateLifetime:   true,
		ValidateSigningKey: true,
	}
}

// Validator は受信したトークンを Policy に従って検証する。
type Validator struct {
	// key はHMAC署名鍵。
	key []byte
	// policy は検証ポリシー。
	policy Policy
	// parser はJWTパーサー。クレームの検証は Validator 自身が行う。
	parser *jwt.Parser
	// now は現在時刻を返す関数。
	now func() time.Time
}

// ValidatorOption は Validator の設定を変更する。
type ValidatorOption func(*Validator)

// WithValidatorClock は有効期限の判定に使う現在時刻の取得元を差し替える。
func WithValidatorClock(now func() time.Time) ValidatorOption {
	return func(v *Validator) { v.now = now }
}

// NewValidator は新しい Validator を生成する。
// policy.ValidateSigningKey が有効で鍵が MinSigningKeyLength 未満の場合はエラーを返す。
func NewValidator(key []byte, policy Policy, opts ...ValidatorOption) (*Validator, error) {
	if len(key) == 0 {
		return nil, fmt.Errorf("署名鍵が設定されていません: %w", ErrWeakSigningKey)
	}
	if policy.ValidateSigningKey && len(key) < MinSigningKeyLength {
		return nil, fmt.Errorf("署名鍵は%dバイト以上必要です: %w", MinSigningKeyLength, ErrWeakSigningKey)
	}

	v := &Validator{
		key:    key,
		policy: policy,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{
				jwt.SigningMethodHS256.Alg(),
				jwt.SigningMethodHS384.Alg(),
				jwt.SigningMethodHS512.Alg(),
			}),
			jwt.WithoutClaimsValidation(),
		),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Policy は検証ポリシーを返す。
func (v *Validator) Policy() Policy {
	return v.policy
}

// Validate はトークンを検証し、成功した場合は Identity を返す。
// 構造、署名、発行者、オーディエンス、有効期限の順に検証し、最初の失敗で打ち切る。
func (v *Validator) Validate(tokenString string) (Identity, error) {
	claims := &Claims{}
	_, err := v.parser.ParseWithClaims(tokenString, claims, v.keyFunc)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return Identity{}, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		return Identity{}, fmt.Errorf("%w: %w", ErrSignatureInvalid, err)
	}

	if v.policy.ValidateIssuer && claims.Issuer != v.policy.Issuer {
		return Identity{}, ErrIssuerMismatch
	}
	if v.policy.ValidateAudience && !slices.Contains(claims.Audience, v.policy.Audience) {
		return Identity{}, ErrAudienceMismatch
	}
	if v.policy.ValidateLifetime {
		if claims.ExpiresAt == nil || !v.now().Before(claims.ExpiresAt.Add(v.policy.ClockSkew)) {
			return Identity{}, ErrExpired
		}
	}

	return identityFrom(claims), nil
}

// keyFunc はHMAC系のアルゴリズムに対してのみ署名鍵を返す。
func (v *Validator) keyFunc(t *jwt.Token) (any, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("想定外の署名アルゴリズム: %v", t.Header["alg"])
	}
	return v.key, nil
}
