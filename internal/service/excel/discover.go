package excel

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ListCandidates 列出各目录下可作为数据源的工作簿（*.xlsx、*.csv），去重并排序
//
// 返回的路径与传入目录拼接（"." 下的文件只返回文件名）。不存在的目录忽略。
func ListCandidates(dirs ...string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() || !isCandidateName(e.Name()) {
				continue
			}
			p := filepath.Join(dir, e.Name())
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

func isCandidateName(name string) bool {
	// Excel 打开文件时生成的锁文件
	if strings.HasPrefix(name, "~$") || strings.HasPrefix(name, ".") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".xlsx" || ext == ".csv"
}
