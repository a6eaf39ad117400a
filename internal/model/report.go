package model

import "time"

// SheetStatus sheet 加载状态
type SheetStatus string

const (
	SheetMapped     SheetStatus = "mapped"     // 产出统一口径帧
	SheetEmpty      SheetStatus = "empty"      // 无数据行
	SheetNoFields   SheetStatus = "no_fields"  // 没有任何列被识别
	SheetUnreadable SheetStatus = "unreadable" // 读取失败
)

// ColumnMapping 单列识别结果
type ColumnMapping struct {
	ColumnIndex int    `json:"columnIndex"`
	ColumnName  string `json:"columnName"`
	Field       Field  `json:"field,omitempty"` // 空表示未识别
	Duplicate   bool   `json:"duplicate"`       // 字段已被前面的列占用，本列被丢弃
}

// SheetResult 单个 sheet 的加载结果
type SheetResult struct {
	SheetName string          `json:"sheetName"`
	Status    SheetStatus     `json:"status"`
	Rows      int             `json:"rows"`
	Fields    []Field         `json:"fields"`
	Columns   []ColumnMapping `json:"columns,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// LoadReport 单个工作簿的加载报告
type LoadReport struct {
	ID         string        `json:"id"`
	Source     string        `json:"source"`     // 逻辑角色
	Label      string        `json:"label"`      // 文件标识
	ResolvedBy string        `json:"resolvedBy"` // upload / path / data_dir
	Available  bool          `json:"available"`
	Error      string        `json:"error,omitempty"`
	Sheets     []SheetResult `json:"sheets"`
	Duration   time.Duration `json:"duration"`
}

// MappedSheets 产出帧的 sheet 数量
func (r *LoadReport) MappedSheets() int {
	n := 0
	for _, s := range r.Sheets {
		if s.Status == SheetMapped {
			n++
		}
	}
	return n
}

// TotalRows 产出帧的总行数
func (r *LoadReport) TotalRows() int {
	n := 0
	for _, s := range r.Sheets {
		if s.Status == SheetMapped {
			n += s.Rows
		}
	}
	return n
}
