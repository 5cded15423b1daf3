// TODO APIサービスのエントリポイント。
// serve でHTTPサーバーを起動し、token/login/items で開発用の操作を行う。
package main

func main() {
	Execute()
}
