package reconcile

import (
	"tfckpi/internal/model"
)

// Union 合并工作簿中包含任一 wanted 字段的 sheet 帧（按行拼接，列取并集）
//
// 帧按工作簿顺序、sheet 枚举顺序拼接；每帧带 __source（工作簿角色）与 __file（文件标识）标记。
// 没有可用帧时返回空帧。
func Union(wanted model.FieldSet, workbooks ...*model.Workbook) *model.Frame {
	if len(wanted) == 0 {
		return model.NewFrame()
	}

	var frames []*model.Frame
	for _, wb := range workbooks {
		for _, f := range wb.Frames() {
			if !f.HasAny(wanted) {
				continue
			}
			frames = append(frames, tag(f, wb))
		}
	}
	if len(frames) == 0 {
		return model.NewFrame()
	}
	return model.Concat(frames...)
}

// Reconcile 为每个领域生成领域帧：sources 与 wanted 以领域名（通常是数据源角色）为键
//
// 运营与财务领域各自独立合并，不做行级关联；两者通过共享维度在聚合层对齐。
func Reconcile(sources map[string]*model.Workbook, wanted map[string]model.FieldSet) map[string]*model.Frame {
	out := make(map[string]*model.Frame, len(wanted))
	for domain, fields := range wanted {
		out[domain] = Union(fields, sources[domain])
	}
	return out
}

// Frames 页面的两个领域帧（已按页面定义转为数值）
type Frames struct {
	Operational *model.Frame
	Financial   *model.Frame
}

// ByRole 按角色取领域帧
func (f Frames) ByRole(role string) (*model.Frame, bool) {
	switch role {
	case model.RoleOperational:
		return f.Operational, true
	case model.RoleFinancial:
		return f.Financial, true
	}
	return nil, false
}

// ReconcilePage 按页面定义合并运营与财务工作簿，并对页面数值字段做数值转换
func ReconcilePage(page PageSpec, operational, financial *model.Workbook) Frames {
	domains := Reconcile(map[string]*model.Workbook{
		model.RoleOperational: withRole(operational, model.RoleOperational),
		model.RoleFinancial:   withRole(financial, model.RoleFinancial),
	}, page.Wanted())

	return Frames{
		Operational: domains[model.RoleOperational].CoerceNumeric(page.Operational.Numeric...),
		Financial:   domains[model.RoleFinancial].CoerceNumeric(page.Financial.Numeric...),
	}
}

func withRole(wb *model.Workbook, role string) *model.Workbook {
	if wb != nil && wb.Source == role {
		return wb
	}
	return wb.WithSource(role)
}

func tag(f *model.Frame, wb *model.Workbook) *model.Frame {
	if wb.Source != "" {
		f = f.WithConstant(model.ColSource, model.Text(wb.Source))
	}
	if wb.Label != "" {
		f = f.WithConstant(model.ColFile, model.Text(wb.Label))
	}
	return f
}
