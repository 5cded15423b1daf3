// Package middleware はGinベースのHTTP APIで使用する共通ミドルウェアを提供する。
//
// ルートごとの認可ゲート（ベアラートークンの検証と検証済みアイデンティティの伝播）、
// 相関IDつきのリクエストログ、パニックリカバリ、ブラウザ向けのCORSを含む。
package middleware
