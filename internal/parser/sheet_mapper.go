package parser

import (
	"strings"

	"tfckpi/internal/model"
)

// SheetMapper 将原始 Sheet 映射为统一口径帧
type SheetMapper struct {
	classifier *Classifier
}

// NewSheetMapper 创建映射器；classifier 为 nil 时使用内置识别器
func NewSheetMapper(classifier *Classifier) *SheetMapper {
	if classifier == nil {
		classifier = defaultClassifier
	}
	return &SheetMapper{classifier: classifier}
}

// MapSheet 映射单个 Sheet；0 行或无可识别列时返回 nil
func (m *SheetMapper) MapSheet(t *RawTable) *model.Frame {
	frame, _ := m.MapSheetWithMappings(t)
	return frame
}

// MapSheetWithMappings 映射单个 Sheet，并返回每个被识别列的映射明细
//
// 同一字段只绑定第一个识别到的列，后续列记为 Duplicate 并丢弃。
func (m *SheetMapper) MapSheetWithMappings(t *RawTable) (*model.Frame, []model.ColumnMapping) {
	if t == nil || t.Rows == 0 {
		return nil, nil
	}

	b := model.NewFrameBuilder(t.Rows)
	var mappings []model.ColumnMapping
	for idx, col := range t.Columns {
		if strings.TrimSpace(col.Header) == "" {
			continue
		}
		field, ok := m.classifier.Classify(col.Header)
		if !ok {
			continue
		}
		added := b.Add(field, col.Cells)
		mappings = append(mappings, model.ColumnMapping{
			ColumnIndex: idx,
			ColumnName:  col.Header,
			Field:       field,
			Duplicate:   !added,
		})
	}
	if b.Len() == 0 {
		return nil, mappings
	}

	frame := b.Build().WithConstant(model.ColSheet, model.Text(t.Name))
	return frame, mappings
}
