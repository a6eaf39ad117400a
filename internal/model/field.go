package model

import "sort"

// Field 统一口径字段名（KPI 或维度）
type Field string

// 维度字段
const (
	FieldRound     Field = "round"
	FieldWeek      Field = "week"
	FieldDate      Field = "date"
	FieldCustomer  Field = "customer"
	FieldProduct   Field = "product"
	FieldComponent Field = "component"
	FieldSupplier  Field = "supplier"
	FieldPlant     Field = "plant"
	FieldWarehouse Field = "warehouse"
)

// 数量/金额字段
const (
	FieldOrderQty        Field = "order_qty"
	FieldDeliveredQty    Field = "delivered_qty"
	FieldBackorderQty    Field = "backorder_qty"
	FieldRevenue         Field = "revenue"
	FieldPrice           Field = "price"
	FieldDiscount        Field = "discount"
	FieldCOGS            Field = "cogs"
	FieldIndirectCost    Field = "indirect_cost"
	FieldOperatingProfit Field = "operating_profit"
	FieldCapitalEmployed Field = "capital_employed"
	FieldROIPct          Field = "roi_pct"
)

// 运营 KPI 字段
const (
	FieldServiceLevelPct          Field = "service_level_pct"
	FieldShelfLifeDays            Field = "shelf_life_days"
	FieldForecast                 Field = "forecast"
	FieldForecastErrorPct         Field = "forecast_error_pct"
	FieldObsolescenceQty          Field = "obsolescence_qty"
	FieldObsolescenceValue        Field = "obsolescence_value"
	FieldComponentAvailabilityPct Field = "component_availability_pct"
	FieldProductAvailabilityPct   Field = "product_availability_pct"
	FieldDeliveryReliabilityPct   Field = "delivery_reliability_pct"
	FieldRejectionPct             Field = "rejection_pct"
	FieldComponentObsoletePct     Field = "component_obsolete_pct"
	FieldRawMaterialCostPct       Field = "raw_material_cost_pct"
	FieldInboundCubeUtilPct       Field = "inbound_cube_util_pct"
	FieldOutboundCubeUtilPct      Field = "outbound_cube_util_pct"
	FieldMixingUtilPct            Field = "mixing_util_pct"
	FieldBottlingUtilPct          Field = "bottling_util_pct"
	FieldPlanAdherencePct         Field = "plan_adherence_pct"
)

// 来源标记列（不属于统一口径字段）
const (
	ColSheet  Field = "__sheet"
	ColSource Field = "__source"
	ColFile   Field = "__file"
)

// CanonicalFields 全部统一口径字段（封闭集合，按声明顺序）
var CanonicalFields = []Field{
	FieldRound, FieldWeek, FieldDate,
	FieldCustomer, FieldProduct, FieldComponent, FieldSupplier, FieldPlant, FieldWarehouse,
	FieldOrderQty, FieldDeliveredQty, FieldBackorderQty,
	FieldRevenue, FieldPrice, FieldDiscount, FieldCOGS, FieldIndirectCost,
	FieldOperatingProfit, FieldCapitalEmployed, FieldROIPct,
	FieldServiceLevelPct, FieldShelfLifeDays, FieldForecast, FieldForecastErrorPct,
	FieldObsolescenceQty, FieldObsolescenceValue,
	FieldComponentAvailabilityPct, FieldProductAvailabilityPct,
	FieldDeliveryReliabilityPct, FieldRejectionPct, FieldComponentObsoletePct,
	FieldRawMaterialCostPct,
	FieldInboundCubeUtilPct, FieldOutboundCubeUtilPct, FieldMixingUtilPct, FieldBottlingUtilPct,
	FieldPlanAdherencePct,
}

// DimensionFields 可用于过滤/分组的维度字段
var DimensionFields = []Field{
	FieldRound, FieldWeek, FieldCustomer, FieldProduct,
	FieldComponent, FieldSupplier, FieldPlant, FieldWarehouse,
}

var canonicalSet = func() map[Field]struct{} {
	m := make(map[Field]struct{}, len(CanonicalFields))
	for _, f := range CanonicalFields {
		m[f] = struct{}{}
	}
	return m
}()

// IsCanonical 是否为统一口径字段
func (f Field) IsCanonical() bool {
	_, ok := canonicalSet[f]
	return ok
}

// IsDimension 是否为维度字段
func (f Field) IsDimension() bool {
	for _, d := range DimensionFields {
		if d == f {
			return true
		}
	}
	return false
}

// IsTag 是否为来源标记列
func (f Field) IsTag() bool {
	return f == ColSheet || f == ColSource || f == ColFile
}

func (f Field) String() string {
	return string(f)
}

// ParseField 将外部输入转换为字段（仅接受统一口径字段）
func ParseField(s string) (Field, bool) {
	f := Field(s)
	return f, f.IsCanonical()
}

// FieldSet 字段集合
type FieldSet map[Field]struct{}

// NewFieldSet 创建字段集合
func NewFieldSet(fields ...Field) FieldSet {
	s := make(FieldSet, len(fields))
	for _, f := range fields {
		s[f] = struct{}{}
	}
	return s
}

// Contains 是否包含字段
func (s FieldSet) Contains(f Field) bool {
	_, ok := s[f]
	return ok
}

// Sorted 按统一口径声明顺序返回（非统一口径字段排在最后，按字典序）
func (s FieldSet) Sorted() []Field {
	out := make([]Field, 0, len(s))
	for _, f := range CanonicalFields {
		if s.Contains(f) {
			out = append(out, f)
		}
	}
	var extra []Field
	for f := range s {
		if !f.IsCanonical() {
			extra = append(extra, f)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(out, extra...)
}
