package auth

import "errors"

// 認証・トークン検証で返されるエラー。HTTP層で errors.Is によりステータスコードへ変換される。
var (
	// ErrAuthenticationFailure はログイン時の資格情報が一致しないことを表す（401）。
	// どのフィールドが誤っていたかは区別しない。
	ErrAuthenticationFailure = errors.New("認証に失敗しました")
	// ErrUnauthenticated は保護されたルートで有効なトークンが提示されなかったことを表す（401）。
	ErrUnauthenticated = errors.New("認証が必要です")
	// ErrForbidden は認証済みだが権限が不足していることを表す（403）。
	// 現状ロールは存在しないため返されることはない。
	ErrForbidden = errors.New("権限がありません")

	// ErrMalformed はトークンの構造が不正であることを表す。
	ErrMalformed = errors.New("トークンの形式が不正です")
	// ErrSignatureInvalid は署名が一致しない、または署名アルゴリズムが許可されていないことを表す。
	ErrSignatureInvalid = errors.New("トークンの署名が不正です")
	// ErrIssuerMismatch は発行者（iss）が期待値と一致しないことを表す。
	ErrIssuerMismatch = errors.New("トークンの発行者が一致しません")
	// ErrAudienceMismatch はオーディエンス（aud）が期待値を含まないことを表す。
	ErrAudienceMismatch = errors.New("トークンのオーディエンスが一致しません")
	// ErrExpired はトークンの有効期限が切れていることを表す。
	ErrExpired = errors.New("トークンの有効期限が切れています")

	// ErrWeakSigningKey は署名鍵が短すぎることを表す。
	ErrWeakSigningKey = errors.New("署名鍵が短すぎます")
)
