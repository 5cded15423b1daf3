package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// CorrelationIDHeader はリクエストの相関IDを運ぶHTTPヘッダーキー。
const CorrelationIDHeader = "X-Correlation-ID"

// Logger はリクエストごとのロガーをコンテキストに設定し、処理結果をログに出力するGinミドルウェアを返す。
// 相関IDはリクエストヘッダーの値を引き継ぎ、無ければ新しく生成する。
func Logger() gin.HandlerFunc {
	return LoggerWith(log.Logger)
}

// LoggerWith は base を元にリクエストロガーを構築する Logger。
func LoggerWith(base zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		id := c.GetHeader(CorrelationIDHeader)
		if id == "" {
			id = xid.New().String()
		}
		c.Header(CorrelationIDHeader, id)

		l := base.With().
			Str("correlation_id", id).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("remote", c.ClientIP()).
			Logger()
		c.Request = c.Request.WithContext(l.WithContext(c.Request.Context()))

		c.Next()

		// ヘルスチェックの成功は記録しない
		if c.Request.URL.Path == "/health" && c.Writer.Status() < 400 {
			return
		}

		l.Info().
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request.handled")
	}
}
