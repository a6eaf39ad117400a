package scorecard

import (
	"tfckpi/internal/model"
)

// DefaultWeekWindow 默认展示最近的周数
const DefaultWeekWindow = 12

// Selection 维度筛选：字段 -> 选中的值；空列表表示不过滤
type Selection map[model.Field][]model.Cell

// Apply 依次按各维度过滤；帧中不存在的维度跳过
func (s Selection) Apply(f *model.Frame) *model.Frame {
	for _, field := range model.DimensionFields {
		values := s[field]
		if len(values) == 0 {
			continue
		}
		f = f.FilterIn(field, values...)
	}
	return f
}

// DefaultSelection 默认筛选：轮次全选，周取各帧合并后的最近 12 周
func DefaultSelection(frames ...*model.Frame) Selection {
	sel := Selection{}
	if weeks := DefaultWeeks(frames...); len(weeks) > 0 {
		sel[model.FieldWeek] = weeks
	}
	return sel
}

// DefaultWeeks 各帧 week 列去重排序后的最后 12 个值（不足 12 个时全部返回）
func DefaultWeeks(frames ...*model.Frame) []model.Cell {
	weeks := Distinct(model.FieldWeek, frames...)
	if len(weeks) > DefaultWeekWindow {
		weeks = weeks[len(weeks)-DefaultWeekWindow:]
	}
	return weeks
}

// Distinct 多个帧同一列的去重取值（排序）
func Distinct(field model.Field, frames ...*model.Frame) []model.Cell {
	var parts []*model.Frame
	for _, f := range frames {
		if f.Has(field) {
			parts = append(parts, f.Select(field))
		}
	}
	if len(parts) == 0 {
		return nil
	}
	return model.Concat(parts...).Distinct(field)
}
