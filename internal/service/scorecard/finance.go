package scorecard

import (
	"sort"

	"tfckpi/internal/model"
)

// Summary 财务汇总；缺列的指标为 nil
type Summary struct {
	Revenue         *float64 `json:"revenue"`
	COGS            *float64 `json:"cogs"`
	IndirectCost    *float64 `json:"indirectCost"`
	OperatingProfit *float64 `json:"operatingProfit"`
	ROIPct          *float64 `json:"roiPct"`
	ProfitDerived   bool     `json:"profitDerived"` // 营业利润由 revenue - cogs - indirect_cost 推算
}

// Summarize 财务帧汇总
func Summarize(f *model.Frame) Summary {
	var s Summary
	sum := func(field model.Field) *float64 {
		if !f.Has(field) {
			return nil
		}
		v := f.Sum(field)
		return &v
	}
	s.Revenue = sum(model.FieldRevenue)
	s.COGS = sum(model.FieldCOGS)
	s.IndirectCost = sum(model.FieldIndirectCost)
	s.OperatingProfit = sum(model.FieldOperatingProfit)
	if v, ok := f.Mean(model.FieldROIPct); ok {
		s.ROIPct = &v
	}

	if s.OperatingProfit == nil && s.Revenue != nil {
		v := *s.Revenue - deref(s.COGS) - deref(s.IndirectCost)
		s.OperatingProfit = &v
		s.ProfitDerived = true
	}
	return s
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// TopContributors 按维度汇总指标，降序取前 n 个（n <= 0 表示全部）
func TopContributors(f *model.Frame, by, metric model.Field, n int) []model.Group {
	groups := f.GroupBy([]model.Field{by}, metric, model.AggSum)
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Value > groups[j].Value })
	if n > 0 && len(groups) > n {
		groups = groups[:n]
	}
	return groups
}

// Trend 按周汇总指标（周升序）
func Trend(f *model.Frame, metric model.Field, agg model.AggFunc) []model.Group {
	return f.GroupBy([]model.Field{model.FieldWeek}, metric, agg)
}
