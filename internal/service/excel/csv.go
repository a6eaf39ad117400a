package excel

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"tfckpi/internal/model"
	"tfckpi/internal/parser"
)

// zip 文件头（xlsx 本质是 zip）
var zipMagic = []byte("PK\x03\x04")

// IsCSV 按扩展名或内容判断是否为 CSV
func IsCSV(name string, data []byte) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return true
	case ".xlsx", ".xlsm", ".xls":
		return false
	}
	if len(data) > 0 {
		return !bytes.HasPrefix(data, zipMagic)
	}
	return false
}

// ReadCSV 读取 CSV 为单 sheet 表格，sheet 名取文件名（去扩展名）
func ReadCSV(name string, r io.Reader) (*parser.RawTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv %s: %w", name, err)
	}

	sheet := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	if sheet == "" || sheet == "." {
		sheet = "csv"
	}
	if len(records) == 0 {
		return parser.NewRawTable(sheet, nil, nil), nil
	}

	headers := records[0]
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\ufeff")
	}
	rows := make([][]model.Cell, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make([]model.Cell, len(rec))
		for j, v := range rec {
			row[j] = model.ParseCell(v)
		}
		rows = append(rows, row)
	}
	return parser.NewRawTable(sheet, headers, rows), nil
}
