package guard

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

// IntParam はパスパラメータ name が整数として解釈できることを検証する Guard を返す。
func IntParam(name string) Guard {
	return Check(func(c *gin.Context) error {
		if _, err := strconv.Atoi(c.Param(name)); err != nil {
			return fmt.Errorf("パラメータ %s が不正です", name)
		}
		return nil
	})
}

// ParamInt はパスパラメータ name を整数として返す。
// IntParam で検証済みのルートでのみ使用する。解釈できない場合は0を返す。
func ParamInt(c *gin.Context, name string) int {
	n, _ := strconv.Atoi(c.Param(name))
	return n
}
