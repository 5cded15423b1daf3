package guard

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Next はパイプラインの残りを実行する。
type Next func(c *gin.Context)

// Guard はハンドラの前に実行する検証。
// 検証に通った場合は next を呼び出し、失敗した場合はレスポンスを書き込んで next を呼ばずに戻る。
type Guard func(c *gin.Context, next Next)

// Chain は guards を順に実行し、すべて通過した場合に handler を実行するハンドラを返す。
func Chain(handler gin.HandlerFunc, guards ...Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		var run func(i int) Next
		run = func(i int) Next {
			if i == len(guards) {
				return Next(handler)
			}
			return func(c *gin.Context) {
				guards[i](c, run(i+1))
			}
		}
		run(0)(c)
	}
}

// Check は述語を Guard に変換する。
// 述語がエラーを返した場合は400とエラーメッセージを返して打ち切る。
func Check(pred func(c *gin.Context) error) Guard {
	return func(c *gin.Context, next Next) {
		if err := pred(c); err != nil {
			Reject(c, err.Error())
			return
		}
		next(c)
	}
}

// Reject は400と理由を返して以降の処理を中断する。
func Reject(c *gin.Context, reason string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": reason})
}
