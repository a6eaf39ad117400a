package parser

import "strings"

// ContainsAny 检查字符串是否包含任意一个关键词
func ContainsAny(text string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// ContainsAll 检查字符串是否包含全部关键词
func ContainsAll(text string, keywords ...string) bool {
	for _, kw := range keywords {
		if !strings.Contains(text, kw) {
			return false
		}
	}
	return true
}

// EqualsAny 检查字符串是否等于任意一个候选
func EqualsAny(text string, candidates ...string) bool {
	for _, c := range candidates {
		if text == c {
			return true
		}
	}
	return false
}
