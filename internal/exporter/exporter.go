package exporter

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"tfckpi/internal/model"
)

// Sheet 待导出的一张表
type Sheet struct {
	Name  string
	Frame *model.Frame
}

// Options 导出选项
type Options struct {
	IncludeTags bool // 是否导出 __sheet/__source/__file 来源列
	Progress    func(ProgressEvent)
}

// Export 将帧导出为工作簿：每个 Sheet 一张表，首行为字段名
//
// 调用方负责 Close 返回的文件。
func Export(sheets []Sheet, opts Options) (*excelize.File, error) {
	f := excelize.NewFile()
	defaultSheet := f.GetSheetName(0)

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DDEBF7"}},
	})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("创建表头样式失败: %w", err)
	}
	dateStyle, err := f.NewStyle(&excelize.Style{NumFmt: 14})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("创建日期样式失败: %w", err)
	}

	progress := newProgress(opts.Progress, len(sheets))
	progress.start()
	used := make(map[string]struct{})
	for i, s := range sheets {
		name := uniqueSheetName(s.Name, used)
		if i == 0 && defaultSheet != "" {
			if err := f.SetSheetName(defaultSheet, name); err != nil {
				_ = f.Close()
				return nil, fmt.Errorf("重命名工作表失败: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("创建工作表 %s 失败: %w", name, err)
		}

		if err := writeFrame(f, name, s.Frame, opts.IncludeTags, header, dateStyle); err != nil {
			_ = f.Close()
			return nil, err
		}
		progress.sheetWritten(name, s.Frame.Len())
	}

	f.SetActiveSheet(0)
	progress.finish()
	return f, nil
}

func writeFrame(f *excelize.File, sheet string, frame *model.Frame, includeTags bool, headerStyle, dateStyle int) error {
	columns := make([]model.Field, 0, len(frame.Columns()))
	for _, c := range frame.Columns() {
		if c.IsTag() && !includeTags {
			continue
		}
		columns = append(columns, c)
	}
	if len(columns) == 0 {
		return nil
	}

	head := make([]interface{}, len(columns))
	for i, c := range columns {
		head[i] = string(c)
	}
	if err := f.SetSheetRow(sheet, "A1", &head); err != nil {
		return fmt.Errorf("写入表头失败: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(columns), 1)
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("设置表头样式失败: %w", err)
	}

	for r := 0; r < frame.Len(); r++ {
		row := make([]interface{}, len(columns))
		for j, c := range columns {
			row[j] = cellValue(frame.At(c, r))
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("写入第 %d 行失败: %w", r+2, err)
		}
		for j, c := range columns {
			if frame.At(c, r).Kind() != model.CellDate {
				continue
			}
			ref, _ := excelize.CoordinatesToCellName(j+1, r+2)
			if err := f.SetCellStyle(sheet, ref, ref, dateStyle); err != nil {
				return fmt.Errorf("设置日期样式失败: %w", err)
			}
		}
	}
	return nil
}

func cellValue(c model.Cell) interface{} {
	switch c.Kind() {
	case model.CellNumber:
		v, _ := c.Float()
		return v
	case model.CellDate:
		t, _ := c.Time()
		return t
	case model.CellBool:
		return c.String() == "true"
	case model.CellText:
		return c.String()
	default:
		return nil
	}
}

// uniqueSheetName Excel 表名限 31 字符且不能重复
func uniqueSheetName(name string, used map[string]struct{}) string {
	if name == "" {
		name = "Sheet"
	}
	name = truncateRunes(sanitizeSheetName(name), 31)
	candidate := name
	for i := 2; ; i++ {
		if _, ok := used[candidate]; !ok {
			break
		}
		suffix := fmt.Sprintf("_%d", i)
		candidate = truncateRunes(name, 31-len(suffix)) + suffix
	}
	used[candidate] = struct{}{}
	return candidate
}

func sanitizeSheetName(name string) string {
	out := []rune(name)
	for i, r := range out {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			out[i] = '_'
		}
	}
	return string(out)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// FileName 导出文件名
func FileName(prefix string, now time.Time) string {
	return fmt.Sprintf("%s_%s.xlsx", prefix, now.Format("20060102_150405"))
}
