package reconcile

import (
	"tfckpi/internal/model"
)

// PickSheet 单 sheet 模式：显式指定的 sheet > 第一个包含全部 wanted 字段的 sheet > 第一个 sheet
//
// 显式指定的 sheet 不存在时返回空帧。结果带 __file 标记。
func PickSheet(wb *model.Workbook, choice string, wanted ...model.Field) *model.Frame {
	if wb.Empty() {
		return model.NewFrame()
	}

	if choice != "" {
		f, ok := wb.Get(choice)
		if !ok {
			return model.NewFrame()
		}
		return fileTag(f, wb)
	}

	names := wb.SheetNames()
	for _, name := range names {
		f, _ := wb.Get(name)
		if f.HasAll(wanted...) {
			return fileTag(f, wb)
		}
	}
	f, _ := wb.Get(names[0])
	return fileTag(f, wb)
}

func fileTag(f *model.Frame, wb *model.Workbook) *model.Frame {
	label := wb.Label
	if label == "" {
		label = wb.Source
	}
	if label == "" {
		return f
	}
	return f.WithConstant(model.ColFile, model.Text(label))
}
