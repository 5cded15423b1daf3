// Package httpclient はTODO APIを呼び出すHTTPクライアントを提供する。
//
// コンテキストに設定したベアラートークンと相関IDをリクエストヘッダーに伝播し、
// 2xx以外の応答は StatusError として返す。
package httpclient
