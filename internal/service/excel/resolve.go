package excel

import (
	"os"
	"path/filepath"
	"strings"

	"tfckpi/internal/model"
)

// 数据源定位方式
const (
	ResolvedByUpload  = "upload"
	ResolvedByPath    = "path"
	ResolvedByDataDir = "data_dir"
)

// Resolved 定位到的候选数据源
type Resolved struct {
	By   string
	Path string // 文件路径（上传内容为空）
	Name string // 展示名
	Data []byte // 上传内容
}

// Resolver 数据源定位器：返回 false 表示该方式不适用
type Resolver func(src model.Source) (Resolved, bool)

// ResolveUpload 上传内容
func ResolveUpload(src model.Source) (Resolved, bool) {
	if !src.IsUpload() {
		return Resolved{}, false
	}
	return Resolved{By: ResolvedByUpload, Name: src.Label(), Data: src.Data}, true
}

// ResolvePath 按给定路径查找
func ResolvePath(src model.Source) (Resolved, bool) {
	p := strings.TrimSpace(src.Path)
	if p == "" || !isFile(p) {
		return Resolved{}, false
	}
	return Resolved{By: ResolvedByPath, Path: p, Name: filepath.Base(p)}, true
}

// ResolveUnder 在目录下查找（data/ 兜底）
func ResolveUnder(dir string) Resolver {
	return func(src model.Source) (Resolved, bool) {
		p := strings.TrimSpace(src.Path)
		if p == "" || dir == "" {
			return Resolved{}, false
		}
		candidate := filepath.Join(dir, p)
		if !isFile(candidate) {
			return Resolved{}, false
		}
		return Resolved{By: ResolvedByDataDir, Path: candidate, Name: filepath.Base(candidate)}, true
	}
}

// DefaultResolvers 定位顺序：上传内容 > 给定路径 > dataDir 下同名文件
func DefaultResolvers(dataDir string) []Resolver {
	return []Resolver{ResolveUpload, ResolvePath, ResolveUnder(dataDir)}
}

func isFile(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}
