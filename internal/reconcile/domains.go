package reconcile

import (
	"strings"

	"tfckpi/internal/model"
)

// Page 报表页面
type Page string

const (
	PagePurchase   Page = "purchase"
	PageSales      Page = "sales"
	PageSCM        Page = "scm"
	PageOperations Page = "operations"
	PageFinance    Page = "finance"
)

// Domain 页面在某个数据源上需要的字段
type Domain struct {
	Role    string         // operational / financial
	Wanted  model.FieldSet // 含任一字段的 sheet 参与合并
	Numeric []model.Field  // 展示前转为数值的字段
}

// Empty 页面不使用该数据源
func (d Domain) Empty() bool {
	return len(d.Wanted) == 0
}

// Pairing 页面默认的记分卡组合
type Pairing struct {
	By       model.Field
	OpsField model.Field
	OpsAgg   model.AggFunc
	FinField model.Field
	FinAgg   model.AggFunc
}

// PageSpec 页面定义
type PageSpec struct {
	Page        Page
	Title       string
	Operational Domain
	Financial   Domain
	Filters     []model.Field // 页面提供的维度筛选（round/week 之外）
	Scorecard   *Pairing
}

// Domain 按角色取页面领域
func (p PageSpec) Domain(role string) (Domain, bool) {
	switch role {
	case model.RoleOperational:
		return p.Operational, true
	case model.RoleFinancial:
		return p.Financial, true
	}
	return Domain{}, false
}

// Wanted 供 Reconcile 使用的角色 -> 字段集合
func (p PageSpec) Wanted() map[string]model.FieldSet {
	return map[string]model.FieldSet{
		model.RoleOperational: p.Operational.Wanted,
		model.RoleFinancial:   p.Financial.Wanted,
	}
}

var pages = []PageSpec{
	{
		Page:  PagePurchase,
		Title: "Purchase: supplier performance, ROI and financial impact",
		Operational: Domain{
			Role: model.RoleOperational,
			Wanted: model.NewFieldSet(
				model.FieldSupplier, model.FieldComponent,
				model.FieldDeliveryReliabilityPct, model.FieldRejectionPct,
				model.FieldComponentObsoletePct, model.FieldRawMaterialCostPct,
				model.FieldRound, model.FieldWeek,
			),
			Numeric: []model.Field{
				model.FieldDeliveryReliabilityPct, model.FieldRejectionPct,
				model.FieldComponentObsoletePct, model.FieldRawMaterialCostPct,
			},
		},
		Financial: Domain{
			Role: model.RoleFinancial,
			Wanted: model.NewFieldSet(
				model.FieldSupplier, model.FieldRevenue, model.FieldCOGS,
				model.FieldIndirectCost, model.FieldOperatingProfit, model.FieldROIPct,
				model.FieldRound, model.FieldWeek,
			),
			Numeric: []model.Field{
				model.FieldRevenue, model.FieldCOGS, model.FieldIndirectCost,
				model.FieldOperatingProfit, model.FieldROIPct,
			},
		},
		Filters: []model.Field{model.FieldSupplier},
		Scorecard: &Pairing{
			By:       model.FieldSupplier,
			OpsField: model.FieldDeliveryReliabilityPct, OpsAgg: model.AggMean,
			FinField: model.FieldOperatingProfit, FinAgg: model.AggSum,
		},
	},
	{
		Page:  PageSales,
		Title: "Sales: service level, freshness and customer profitability",
		Operational: Domain{
			Role: model.RoleOperational,
			Wanted: model.NewFieldSet(
				model.FieldCustomer, model.FieldProduct,
				model.FieldServiceLevelPct, model.FieldShelfLifeDays,
				model.FieldForecastErrorPct, model.FieldObsolescenceValue,
				model.FieldRound, model.FieldWeek,
			),
			Numeric: []model.Field{
				model.FieldServiceLevelPct, model.FieldShelfLifeDays,
				model.FieldForecastErrorPct, model.FieldObsolescenceValue,
			},
		},
		Financial: Domain{
			Role: model.RoleFinancial,
			Wanted: model.NewFieldSet(
				model.FieldCustomer, model.FieldRevenue, model.FieldOperatingProfit,
				model.FieldROIPct, model.FieldRound, model.FieldWeek,
			),
			Numeric: []model.Field{model.FieldRevenue, model.FieldOperatingProfit, model.FieldROIPct},
		},
		Filters: []model.Field{model.FieldCustomer, model.FieldProduct},
		Scorecard: &Pairing{
			By:       model.FieldCustomer,
			OpsField: model.FieldServiceLevelPct, OpsAgg: model.AggMean,
			FinField: model.FieldOperatingProfit, FinAgg: model.AggSum,
		},
	},
	{
		Page:  PageSCM,
		Title: "Supply chain: availability versus revenue",
		Operational: Domain{
			Role: model.RoleOperational,
			Wanted: model.NewFieldSet(
				model.FieldComponentAvailabilityPct, model.FieldProductAvailabilityPct,
				model.FieldComponent, model.FieldProduct, model.FieldRound, model.FieldWeek,
			),
			Numeric: []model.Field{model.FieldProductAvailabilityPct, model.FieldComponentAvailabilityPct},
		},
		Financial: Domain{
			Role: model.RoleFinancial,
			Wanted: model.NewFieldSet(
				model.FieldRevenue, model.FieldROIPct, model.FieldProduct,
				model.FieldRound, model.FieldWeek,
			),
			Numeric: []model.Field{model.FieldRevenue, model.FieldROIPct},
		},
		Filters: []model.Field{model.FieldComponent, model.FieldProduct},
		Scorecard: &Pairing{
			By:       model.FieldProduct,
			OpsField: model.FieldProductAvailabilityPct, OpsAgg: model.AggMean,
			FinField: model.FieldRevenue, FinAgg: model.AggSum,
		},
	},
	{
		Page:  PageOperations,
		Title: "Operations: utilisation, plan adherence and cost",
		Operational: Domain{
			Role: model.RoleOperational,
			Wanted: model.NewFieldSet(
				model.FieldInboundCubeUtilPct, model.FieldOutboundCubeUtilPct,
				model.FieldMixingUtilPct, model.FieldBottlingUtilPct,
				model.FieldPlanAdherencePct, model.FieldRound, model.FieldWeek,
				model.FieldPlant, model.FieldWarehouse,
			),
			Numeric: []model.Field{
				model.FieldInboundCubeUtilPct, model.FieldOutboundCubeUtilPct,
				model.FieldMixingUtilPct, model.FieldBottlingUtilPct, model.FieldPlanAdherencePct,
			},
		},
		Financial: Domain{
			Role: model.RoleFinancial,
			Wanted: model.NewFieldSet(
				model.FieldCOGS, model.FieldOperatingProfit, model.FieldROIPct,
				model.FieldRound, model.FieldWeek,
			),
			Numeric: []model.Field{model.FieldCOGS, model.FieldOperatingProfit, model.FieldROIPct},
		},
		Filters: []model.Field{model.FieldPlant, model.FieldWarehouse},
		Scorecard: &Pairing{
			By:       model.FieldWeek,
			OpsField: model.FieldPlanAdherencePct, OpsAgg: model.AggMean,
			FinField: model.FieldCOGS, FinAgg: model.AggSum,
		},
	},
	{
		Page:        PageFinance,
		Title:       "Finance: revenue, cost and profitability",
		Operational: Domain{Role: model.RoleOperational},
		Financial: Domain{
			Role: model.RoleFinancial,
			Wanted: model.NewFieldSet(
				model.FieldRevenue, model.FieldCOGS, model.FieldIndirectCost,
				model.FieldOperatingProfit, model.FieldROIPct, model.FieldRound, model.FieldWeek,
				model.FieldCustomer, model.FieldProduct, model.FieldSupplier,
				model.FieldComponent, model.FieldPlant, model.FieldWarehouse,
			),
			Numeric: []model.Field{
				model.FieldRevenue, model.FieldCOGS, model.FieldIndirectCost,
				model.FieldOperatingProfit, model.FieldROIPct,
			},
		},
		Filters: []model.Field{
			model.FieldCustomer, model.FieldProduct, model.FieldSupplier,
			model.FieldComponent, model.FieldPlant, model.FieldWarehouse,
		},
	},
}

// Pages 全部页面（展示顺序）
func Pages() []PageSpec {
	return append([]PageSpec(nil), pages...)
}

// LookupPage 按名称查找页面（不区分大小写）
func LookupPage(name string) (PageSpec, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, p := range pages {
		if string(p.Page) == name {
			return p, true
		}
	}
	return PageSpec{}, false
}
