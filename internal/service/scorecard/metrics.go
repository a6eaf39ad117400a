package scorecard

import (
	"tfckpi/internal/model"
	"tfckpi/internal/reconcile"
)

// Metric 页面 KPI 卡片
type Metric struct {
	Label string        `json:"label"`
	Role  string        `json:"role"`
	Field model.Field   `json:"field"`
	Agg   model.AggFunc `json:"agg"`
	Value *float64      `json:"value"` // 列不存在或无有效值时为 null
}

type metricDef struct {
	label string
	role  string
	field model.Field
	agg   model.AggFunc
}

func ops(label string, f model.Field, agg model.AggFunc) metricDef {
	return metricDef{label: label, role: model.RoleOperational, field: f, agg: agg}
}

func fin(label string, f model.Field, agg model.AggFunc) metricDef {
	return metricDef{label: label, role: model.RoleFinancial, field: f, agg: agg}
}

var pageMetrics = map[reconcile.Page][]metricDef{
	reconcile.PagePurchase: {
		ops("Delivery Reliability %", model.FieldDeliveryReliabilityPct, model.AggMean),
		ops("Rejection %", model.FieldRejectionPct, model.AggMean),
		ops("Component Obsolete %", model.FieldComponentObsoletePct, model.AggMean),
		ops("RM Cost %", model.FieldRawMaterialCostPct, model.AggMean),
		fin("Operating Profit", model.FieldOperatingProfit, model.AggSum),
		fin("ROI %", model.FieldROIPct, model.AggMean),
	},
	reconcile.PageSales: {
		ops("Service Level %", model.FieldServiceLevelPct, model.AggMean),
		ops("Shelf Life (days)", model.FieldShelfLifeDays, model.AggMean),
		ops("Forecast Error %", model.FieldForecastErrorPct, model.AggMean),
		ops("Obsolescence Value", model.FieldObsolescenceValue, model.AggSum),
		fin("Operating Profit", model.FieldOperatingProfit, model.AggSum),
		fin("ROI %", model.FieldROIPct, model.AggMean),
	},
	reconcile.PageSCM: {
		ops("Product Availability %", model.FieldProductAvailabilityPct, model.AggMean),
		ops("Component Availability %", model.FieldComponentAvailabilityPct, model.AggMean),
		fin("Revenue", model.FieldRevenue, model.AggSum),
	},
	reconcile.PageOperations: {
		ops("Inbound Util %", model.FieldInboundCubeUtilPct, model.AggMean),
		ops("Outbound Util %", model.FieldOutboundCubeUtilPct, model.AggMean),
		ops("Mixing Util %", model.FieldMixingUtilPct, model.AggMean),
		ops("Bottling Util %", model.FieldBottlingUtilPct, model.AggMean),
		ops("Plan Adherence %", model.FieldPlanAdherencePct, model.AggMean),
		fin("COGS", model.FieldCOGS, model.AggSum),
	},
	reconcile.PageFinance: {
		fin("Revenue", model.FieldRevenue, model.AggSum),
		fin("COGS", model.FieldCOGS, model.AggSum),
		fin("Indirect", model.FieldIndirectCost, model.AggSum),
		fin("Operating Profit", model.FieldOperatingProfit, model.AggSum),
		fin("ROI %", model.FieldROIPct, model.AggMean),
	},
}

// Metrics 计算页面 KPI 卡片；缺列的卡片值为 null
//
// Finance 页的 Operating Profit 在缺列时按 revenue - cogs - indirect_cost 推算。
func Metrics(page reconcile.Page, frames reconcile.Frames) []Metric {
	defs := pageMetrics[page]
	out := make([]Metric, 0, len(defs))
	for _, d := range defs {
		m := Metric{Label: d.label, Role: d.role, Field: d.field, Agg: d.agg}
		frame, _ := frames.ByRole(d.role)
		if frame.Has(d.field) {
			if v, ok := frame.Aggregate(d.field, d.agg); ok {
				m.Value = &v
			}
		} else if page == reconcile.PageFinance && d.field == model.FieldOperatingProfit {
			if s := Summarize(frame); s.OperatingProfit != nil {
				m.Value = s.OperatingProfit
			}
		}
		out = append(out, m)
	}
	return out
}
