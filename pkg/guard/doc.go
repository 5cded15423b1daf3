// Package guard はハンドラの前に実行する検証の連鎖を提供する。
//
// 各 Guard はリクエストと「残りのパイプライン」を表す Next を受け取り、
// Next を呼ばずに戻ることで処理を打ち切る。Guard 同士は互いを知らず、
// 意味を持つのは Chain に渡した順序だけである。
//
// 用意している検証:
//   - ValidateBody: JSONボディのデコードと構造体タグによる宣言的な検証
//   - IntParam: パスパラメータが整数として解釈できるかの検証
package guard
