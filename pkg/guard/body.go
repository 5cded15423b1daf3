package guard

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// bodyKey はGinコンテキストにデコード済みのリクエストボディを格納するキー。
const bodyKey = "guard.body"

// NewValidator はJSONのフィールド名でエラーを報告するバリデータを返す。
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	return v
}

// ValidateBody はJSONボディを T にデコードし、構造体タグ（validate）で検証する Guard を返す。
// 最初に違反したルールを示すメッセージとともに400を返す。
// 検証に通ったボディは Body で取得できる。
func ValidateBody[T any](v *validator.Validate) Guard {
	return func(c *gin.Context, next Next) {
		var body T
		if err := c.ShouldBindJSON(&body); err != nil {
			Reject(c, "リクエストボディが不正です")
			return
		}
		if err := v.Struct(&body); err != nil {
			Reject(c, describe(err))
			return
		}
		c.Set(bodyKey, &body)
		next(c)
	}
}

// Body は ValidateBody がデコードしたボディを返す。
func Body[T any](c *gin.Context) (*T, bool) {
	v, ok := c.Get(bodyKey)
	if !ok {
		return nil, false
	}
	body, ok := v.(*T)
	return body, ok
}

// describe は検証エラーのうち最初に違反したルールをメッセージにする。
func describe(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return "リクエストボディが不正です"
	}
	fe := errs[0]
	if fe.Param() != "" {
		return fmt.Sprintf("%s は %s=%s の検証に失敗しました", fe.Field(), fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("%s は %s の検証に失敗しました", fe.Field(), fe.Tag())
}
