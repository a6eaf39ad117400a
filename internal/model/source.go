package model

import (
	"path/filepath"
	"strings"
)

// 逻辑数据源角色
const (
	RoleOperational = "operational"
	RoleFinancial   = "financial"
)

// Source 数据源选择：上传内容（Data）优先于路径（Path）；两者皆空表示未提供
type Source struct {
	Path string // 文件路径或文件名（找不到时再尝试 data/ 目录）
	Name string // 上传文件名
	Data []byte // 上传内容
}

// PathSource 路径数据源
func PathSource(path string) Source {
	return Source{Path: path}
}

// BytesSource 上传数据源
func BytesSource(name string, data []byte) Source {
	return Source{Name: name, Data: data}
}

// IsAbsent 是否未提供
func (s Source) IsAbsent() bool {
	return len(s.Data) == 0 && strings.TrimSpace(s.Path) == ""
}

// IsUpload 是否为上传内容
func (s Source) IsUpload() bool {
	return len(s.Data) > 0
}

// Label 展示用标识
func (s Source) Label() string {
	if s.IsUpload() {
		if s.Name != "" {
			return s.Name
		}
		return "upload"
	}
	if s.Path == "" {
		return ""
	}
	return filepath.Base(s.Path)
}

// SourceSet 一次加载请求的数据源选择（运营 + 财务）
type SourceSet struct {
	Operational Source
	Financial   Source
}

// ByRole 按角色返回数据源
func (s SourceSet) ByRole() map[string]Source {
	return map[string]Source{
		RoleOperational: s.Operational,
		RoleFinancial:   s.Financial,
	}
}
