package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/nao1215/todoapi/internal/auth"
)

// TokenValidator は提示されたトークンを検証し、アイデンティティを返す。
type TokenValidator interface {
	Validate(tokenString string) (auth.Identity, error)
}

const (
	// identityKey はGinコンテキストに検証済みアイデンティティを格納するキー。
	identityKey = "identity"
	// headerKeyUserID は認証済みユーザーIDを返すHTTPヘッダーキー。
	headerKeyUserID = "X-User-ID"
)

// Authorize はルート単位の認可ゲートを返す。
// requiresAuth が false のルートはそのまま後続のハンドラに進む。
// true のルートではAuthorizationヘッダーのベアラートークンを検証し、
// 失敗した場合は後続のハンドラを呼び出さずに401（権限不足の場合は403）を返す。
// 成功した場合はアイデンティティをGinコンテキストとリクエストコンテキストに設定する。
func Authorize(v TokenValidator, requiresAuth bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requiresAuth {
			c.Next()
			return
		}

		tokenString, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortWithAuthError(c, auth.ErrUnauthenticated)
			return
		}

		id, err := v.Validate(tokenString)
		if err != nil {
			log.Ctx(c.Request.Context()).Debug().Err(err).Msg("auth.rejected")
			abortWithAuthError(c, err)
			return
		}

		c.Set(identityKey, id)
		c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), id))
		c.Header(headerKeyUserID, id.UserID)
		c.Next()
	}
}

// StatusFor は認証・認可エラーをHTTPステータスコードに変換する。
func StatusFor(err error) int {
	if errors.Is(err, auth.ErrForbidden) {
		return http.StatusForbidden
	}
	return http.StatusUnauthorized
}

// abortWithAuthError はエラーの詳細を含めずにレスポンスを返して処理を中断する。
func abortWithAuthError(c *gin.Context, err error) {
	msg := "トークンが無効です"
	switch {
	case errors.Is(err, auth.ErrUnauthenticated):
		msg = "Authorizationヘッダーが必要です"
	case errors.Is(err, auth.ErrForbidden):
		msg = "権限がありません"
	}
	c.AbortWithStatusJSON(StatusFor(err), gin.H{"error": msg})
}

// bearerToken はAuthorizationヘッダーからベアラートークンを取り出す。
// スキーム名の大文字小文字は区別しない。
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// GetIdentity はGinコンテキストから検証済みアイデンティティを取得する。
// Authorizeミドルウェアが事前に適用されている必要がある。
func GetIdentity(c *gin.Context) (auth.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return auth.Identity{}, false
	}
	id, ok := v.(auth.Identity)
	return id, ok
}

// GetUserID はGinコンテキストからユーザーIDを取得する。
func GetUserID(c *gin.Context) string {
	id, ok := GetIdentity(c)
	if !ok {
		return ""
	}
	return id.UserID
}
