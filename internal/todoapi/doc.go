// Package todoapi はTODOアイテムを管理するHTTPサービスを提供する。
//
// ログインエンドポイントでJWTを発行し、アイテムのCRUDエンドポイントは
// ベアラートークンによる認可ゲートとリクエストガードを通過した場合にのみ実行される。
// 各ルートの認可要否とガードはルートテーブルで宣言する。
package todoapi
