package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

// newCORSRouter はCORSミドルウェアを適用したテスト用ルーターを返す。
func newCORSRouter(origins []string, called *bool) *gin.Engine {
	router := gin.New()
	router.Use(CORS(origins))
	handler := func(c *gin.Context) {
		*called = true
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	router.GET("/items", handler)
	router.OPTIONS("/items", handler)
	return router
}

// TestCORS はCORSミドルウェアを検証する。
func TestCORS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		origins     []string
		method      string
		origin      string
		wantStatus  int
		wantAllow   string
		wantHandler bool
	}{
		{
			name:        "許可されたオリジンにCORSヘッダーが設定されること",
			origins:     []string{"http://localhost:3000", "https://todo.example.com"},
			method:      http.MethodGet,
			origin:      "https://todo.example.com",
			wantStatus:  http.StatusOK,
			wantAllow:   "https://todo.example.com",
			wantHandler: true,
		},
		{
			name:        "許可されていないオリジンにはCORSヘッダーが設定されないこと",
			origins:     []string{"http://localhost:3000"},
			method:      http.MethodGet,
			origin:      "https://evil.example.com",
			wantStatus:  http.StatusOK,
			wantAllow:   "",
			wantHandler: true,
		},
		{
			name:        "ワイルドカードで任意のオリジンが許可されること",
			origins:     []string{"*"},
			method:      http.MethodGet,
			origin:      "https://any.example.com",
			wantStatus:  http.StatusOK,
			wantAllow:   "https://any.example.com",
			wantHandler: true,
		},
		{
			name:        "許可されたオリジンのプリフライトは204でハンドラに進まないこと",
			origins:     []string{"http://localhost:3000"},
			method:      http.MethodOptions,
			origin:      "http://localhost:3000",
			wantStatus:  http.StatusNoContent,
			wantAllow:   "http://localhost:3000",
			wantHandler: false,
		},
		{
			name:        "許可されていないオリジンのプリフライトはハンドラに進むこと",
			origins:     []string{"http://localhost:3000"},
			method:      http.MethodOptions,
			origin:      "https://evil.example.com",
			wantStatus:  http.StatusOK,
			wantAllow:   "",
			wantHandler: true,
		},
		{
			name:        "Originヘッダーが無い場合はCORSヘッダーが設定されないこと",
			origins:     []string{"*"},
			method:      http.MethodGet,
			origin:      "",
			wantStatus:  http.StatusOK,
			wantAllow:   "",
			wantHandler: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			called := false
			router := newCORSRouter(tt.origins, &called)

			req := httptest.NewRequest(tt.method, "/items", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("ステータスコード = %d, want %d", w.Code, tt.wantStatus)
			}
			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.wantAllow {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.wantAllow)
			}
			if called != tt.wantHandler {
				t.Errorf("ハンドラ呼び出し = %v, want %v", called, tt.wantHandler)
			}
		})
	}

	t.Run("認証とトレースのヘッダーが公開されること", func(t *testing.T) {
		t.Parallel()

		called := false
		router := newCORSRouter([]string{"*"}, &called)

		req := httptest.NewRequest(http.MethodGet, "/items", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		want := "Location, X-User-ID, X-Correlation-ID"
		if got := w.Header().Get("Access-Control-Expose-Headers"); got != want {
			t.Errorf("Access-Control-Expose-Headers = %q, want %q", got, want)
		}
		want = "Authorization, Content-Type, X-Correlation-ID"
		if got := w.Header().Get("Access-Control-Allow-Headers"); got != want {
			t.Errorf("Access-Control-Allow-Headers = %q, want %q", got, want)
		}
	})
}
