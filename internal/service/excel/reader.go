package excel

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"tfckpi/internal/model"
	"tfckpi/internal/parser"
)

// SheetRead 单个 sheet 的读取结果；Err 不为空时 Table 为 nil
type SheetRead struct {
	Name  string
	Table *parser.RawTable
	Err   error
}

// ReadWorkbook 按枚举顺序读取全部 sheet；单个 sheet 失败只记录在该 sheet 上
func ReadWorkbook(wb *excelize.File) []SheetRead {
	date1904 := false
	if props, err := wb.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	sheets := wb.GetSheetList()
	out := make([]SheetRead, 0, len(sheets))
	for _, name := range sheets {
		table, err := readSheet(wb, name, date1904)
		out = append(out, SheetRead{Name: name, Table: table, Err: err})
	}
	return out
}

// ReadSheet 读取单个 sheet：第一行为表头，其余为数据行
func ReadSheet(wb *excelize.File, sheet string) (*parser.RawTable, error) {
	return readSheet(wb, sheet, false)
}

func readSheet(wb *excelize.File, sheet string, date1904 bool) (table *parser.RawTable, err error) {
	defer func() {
		if r := recover(); r != nil {
			table, err = nil, fmt.Errorf("read sheet %s: %v", sheet, r)
		}
	}()

	formatted, err := wb.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	raw, err := wb.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %s raw values: %w", sheet, err)
	}

	if len(formatted) == 0 {
		// GetRows 遇到损坏的 XML 会静默返回零行
		if _, derr := wb.GetSheetDimension(sheet); derr != nil {
			return nil, fmt.Errorf("read sheet %s: %w", sheet, derr)
		}
		return parser.NewRawTable(sheet, nil, nil), nil
	}

	headers := formatted[0]
	width := len(headers)
	rows := make([][]model.Cell, 0, len(formatted)-1)
	for i := 1; i < len(formatted); i++ {
		var rawRow []string
		if i < len(raw) {
			rawRow = raw[i]
		}
		row := make([]model.Cell, width)
		for j := 0; j < width; j++ {
			row[j] = typedCell(cellType(wb, sheet, j+1, i+1), cellAt(formatted[i], j), cellAt(rawRow, j), date1904)
		}
		rows = append(rows, row)
	}
	return parser.NewRawTable(sheet, headers, rows), nil
}

func cellType(wb *excelize.File, sheet string, col, row int) excelize.CellType {
	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return excelize.CellTypeUnset
	}
	kind, err := wb.GetCellType(sheet, axis)
	if err != nil {
		return excelize.CellTypeUnset
	}
	return kind
}

func cellAt(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// typedCell 按单元格存储类型推断值
//
// 字符串单元格保持文本，即使内容形如数字（"007"）。
// 数值单元格的显示值像日期时按日期处理（Excel 日期以序列号存储）。
func typedCell(kind excelize.CellType, formatted, raw string, date1904 bool) model.Cell {
	if strings.TrimSpace(raw) == "" && strings.TrimSpace(formatted) == "" {
		return model.Missing()
	}
	if raw == "" {
		raw = formatted
	}

	switch kind {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString,
		excelize.CellTypeFormula, excelize.CellTypeError:
		return model.Text(formatted)
	case excelize.CellTypeBool:
		v := strings.TrimSpace(raw)
		return model.Bool(v == "1" || strings.EqualFold(v, "true"))
	case excelize.CellTypeDate:
		if t, err := time.Parse(time.RFC3339, strings.TrimSpace(raw)); err == nil {
			return model.Date(t.Truncate(time.Second))
		}
		return model.Text(formatted)
	}

	num, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsInf(num, 0) || math.IsNaN(num) {
		return model.Text(formatted)
	}
	if looksLikeBool(formatted) {
		return model.Bool(strings.EqualFold(strings.TrimSpace(formatted), "true"))
	}
	if looksLikeDate(formatted) {
		if t, derr := excelize.ExcelDateToTime(num, date1904); derr == nil {
			return model.Date(t.Truncate(time.Second))
		}
	}
	return model.Number(num)
}

func looksLikeBool(s string) bool {
	s = strings.TrimSpace(s)
	return strings.EqualFold(s, "true") || strings.EqualFold(s, "false")
}

func looksLikeDate(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return false
	}
	return strings.ContainsAny(strings.TrimPrefix(s, "-"), "-/:")
}
