package parser

import "tfckpi/internal/model"

// RawColumn 原始列：表头 + 单元格（行顺序与原表一致）
type RawColumn struct {
	Header string
	Cells  []model.Cell
}

// RawTable 解析后的原始表格（一个 Sheet）
type RawTable struct {
	Name    string
	Columns []RawColumn
	Rows    int
}

// Headers 表头列表
func (t *RawTable) Headers() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Header
	}
	return out
}

// NewRawTable 由表头和按行排列的单元格构建原始表格；短行补缺失值
func NewRawTable(name string, headers []string, rows [][]model.Cell) *RawTable {
	t := &RawTable{
		Name:    name,
		Columns: make([]RawColumn, len(headers)),
		Rows:    len(rows),
	}
	for j, h := range headers {
		cells := make([]model.Cell, len(rows))
		for i, row := range rows {
			if j < len(row) {
				cells[i] = row[j]
			}
		}
		t.Columns[j] = RawColumn{Header: h, Cells: cells}
	}
	return t
}
