package excel

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"tfckpi/internal/model"
	"tfckpi/internal/parser"
)

// ErrSourceAbsent 未提供数据源
var ErrSourceAbsent = errors.New("source not provided")

// Loader 工作簿加载器：定位数据源，逐 sheet 映射为统一口径帧
//
// Load 永不返回错误：无法打开时返回空 Workbook（数据源不可用）。
type Loader struct {
	resolvers []Resolver
	mapper    *parser.SheetMapper
}

// NewLoader 创建加载器；dataDir 为路径查找失败后的兜底目录
func NewLoader(dataDir string) *Loader {
	return NewLoaderWith(DefaultResolvers(dataDir), parser.NewSheetMapper(nil))
}

// NewLoaderWith 使用自定义定位链和映射器创建加载器
func NewLoaderWith(resolvers []Resolver, mapper *parser.SheetMapper) *Loader {
	if mapper == nil {
		mapper = parser.NewSheetMapper(nil)
	}
	return &Loader{resolvers: resolvers, mapper: mapper}
}

// Load 加载数据源，返回 sheet -> 统一口径帧
func (l *Loader) Load(src model.Source) *model.Workbook {
	wb, _ := l.LoadWithReport(src)
	return wb
}

// LoadWithReport 加载数据源并返回加载报告
func (l *Loader) LoadWithReport(src model.Source) (*model.Workbook, *model.LoadReport) {
	start := time.Now()
	report := &model.LoadReport{
		ID:     uuid.New().String(),
		Label:  src.Label(),
		Sheets: []model.SheetResult{},
	}
	wb := model.NewWorkbook(src.Label())

	if src.IsAbsent() {
		report.Error = ErrSourceAbsent.Error()
		report.Duration = time.Since(start)
		return wb, report
	}

	var errs []string
	for _, resolve := range l.resolvers {
		res, ok := resolve(src)
		if !ok {
			continue
		}
		sheets, err := readResolved(res)
		if err != nil {
			errs = append(errs, err.Error())
			continue
		}

		wb = model.NewWorkbook(res.Name)
		report.Label = res.Name
		report.ResolvedBy = res.By
		report.Available = true
		for _, s := range sheets {
			report.Sheets = append(report.Sheets, l.mapInto(wb, s))
		}
		errs = nil
		break
	}

	if !report.Available {
		if len(errs) == 0 {
			errs = append(errs, fmt.Sprintf("%s: not found", src.Label()))
		}
		report.Error = strings.Join(errs, "; ")
	}
	report.Duration = time.Since(start)
	return wb, report
}

func (l *Loader) mapInto(wb *model.Workbook, s SheetRead) model.SheetResult {
	result := model.SheetResult{SheetName: s.Name, Fields: []model.Field{}}
	if s.Err != nil {
		result.Status = model.SheetUnreadable
		result.Error = s.Err.Error()
		return result
	}

	result.Rows = s.Table.Rows
	if s.Table.Rows == 0 {
		result.Status = model.SheetEmpty
		return result
	}

	frame, mappings := l.mapper.MapSheetWithMappings(s.Table)
	result.Columns = mappings
	if frame == nil {
		result.Status = model.SheetNoFields
		return result
	}

	for _, f := range frame.Columns() {
		if !f.IsTag() {
			result.Fields = append(result.Fields, f)
		}
	}
	result.Status = model.SheetMapped
	wb.Put(s.Name, frame)
	return result
}

// readResolved 打开并读取全部 sheet；工作簿句柄在返回前关闭
func readResolved(res Resolved) ([]SheetRead, error) {
	name := res.Name
	if res.Path != "" {
		name = res.Path
	}

	if IsCSV(name, res.Data) {
		var data []byte
		if res.Data != nil {
			data = res.Data
		} else {
			b, err := os.ReadFile(res.Path)
			if err != nil {
				return nil, fmt.Errorf("open %s: %w", name, err)
			}
			data = b
		}
		table, err := ReadCSV(res.Name, bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return []SheetRead{{Name: table.Name, Table: table}}, nil
	}

	var (
		f   *excelize.File
		err error
	)
	if res.Data != nil {
		f, err = excelize.OpenReader(bytes.NewReader(res.Data))
	} else {
		f, err = excelize.OpenFile(res.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer func() { _ = f.Close() }()

	return ReadWorkbook(f), nil
}
