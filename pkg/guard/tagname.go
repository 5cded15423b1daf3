package guard

import (
	"reflect"
	"strings"
)

// jsonFieldName は構造体フィールドのjsonタグ名を返す。"-" のフィールドは検証対象外とする。
func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}
