package parser

import (
	"strings"
	"unicode"
)

// Normalize 规范化列名：转小写，只保留 ASCII 字母和数字
//
// 对任意输入都有定义（空串返回空串），且幂等：Normalize(Normalize(s)) == Normalize(s)。
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		r = unicode.ToLower(r)
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
