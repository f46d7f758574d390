package query

import (
	"strconv"
)

// stringFromAny 助手函数，interface{}转string；score偶尔会以数字形式出现，
// 这里一并转成字符串
func stringFromAny(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}

// truncateRunes 按字符数截断，避免把多字节字符切成半个
func truncateRunes(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
