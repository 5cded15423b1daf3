// Package auth はベアラートークンによる認証の中核を提供する。
//
// ログイン時の資格情報検証とHMAC署名付きJWTの発行（Issuer）、
// 受信したトークンの署名・発行者・オーディエンス・有効期限の検証（Validator）、
// 検証済みアイデンティティのリクエストコンテキストへの伝播を含む。
//
// 鍵とポリシーは起動時に一度だけ設定され、以降は不変のため
// 複数のゴルーチンから同期なしで利用できる。
package auth
