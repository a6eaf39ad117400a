package parser

import "tfckpi/internal/model"

// DefaultAliases 统一口径字段 -> 已知原始列名写法
//
// 同一规范化写法不得出现在两个不同字段下，BuildRegistry 会拒绝冲突。
var DefaultAliases = map[model.Field][]string{
	model.FieldRound:     {"round", "period", "cycle"},
	model.FieldWeek:      {"week", "wk"},
	model.FieldDate:      {"date", "day", "timestamp"},
	model.FieldCustomer:  {"customer", "client", "channel", "account"},
	model.FieldProduct:   {"product", "sku", "item", "fg", "finished good", "finished_goods", "fg_sku"},
	model.FieldComponent: {"component", "rawmaterial", "raw_material", "rm", "ingredient", "material"},
	model.FieldSupplier:  {"supplier", "vendor"},
	model.FieldPlant:     {"plant", "factory", "site", "production_site", "mixing", "bottling"},
	model.FieldWarehouse: {"warehouse", "dc", "inbound_warehouse", "outbound_warehouse"},

	model.FieldOrderQty:     {"orderqty", "order_qty", "ordered_qty", "orders", "demand_qty", "demand"},
	model.FieldDeliveredQty: {"deliveredqty", "delivered_qty", "ship_qty", "shipped_qty", "deliveries"},
	model.FieldBackorderQty: {"backorderqty", "backorder_qty", "bo_qty", "backorders"},

	model.FieldRevenue:         {"realizedrevenue", "revenue", "sales_value", "sales"},
	model.FieldPrice:           {"price", "unit_price", "selling_price"},
	model.FieldDiscount:        {"discount", "disc_pct", "discount_pct"},
	model.FieldCOGS:            {"cogs", "cost_of_goods_sold", "cost of goods sold", "product_cost"},
	model.FieldIndirectCost:    {"indirectcost", "indirect_cost", "overhead", "opex"},
	model.FieldOperatingProfit: {"operatingprofit", "operating_profit", "net_profit", "profit", "ebit"},
	model.FieldCapitalEmployed: {"capitalemployed", "capital_employed", "cap_employed"},
	model.FieldROIPct:          {"roi_pct", "roi%", "roi", "return_on_investment"},

	model.FieldServiceLevelPct:  {"servicelevelpct", "service_level_pct", "service_level", "fill_rate", "fillrate"},
	model.FieldShelfLifeDays:    {"shelflifeachieveddays", "shelf_life_days", "shelf_life", "shelflife"},
	model.FieldForecast:         {"forecast", "fcst"},
	model.FieldForecastErrorPct: {"forecasterrorpct", "forecast_error_pct", "mape", "forecast_error"},

	model.FieldObsolescenceQty:   {"obsolescenceqty", "obsolete_qty", "obsolescence_qty"},
	model.FieldObsolescenceValue: {"obsolescencevalue", "obsolete_value", "obsolescence_value"},

	model.FieldComponentAvailabilityPct: {"componentavailabilitypct", "component_availability_pct"},
	model.FieldProductAvailabilityPct:   {"productavailabilitypct", "product_availability_pct", "availability"},
	model.FieldDeliveryReliabilityPct:   {"deliveryreliabilitypct", "delivery_reliability_pct", "on_time_delivery_pct"},
	model.FieldRejectionPct:             {"rejectionpct", "rejection_pct", "reject_rate_pct", "quality_reject_pct"},
	model.FieldComponentObsoletePct:     {"componentobsoletepct", "component_obsolete_pct"},
	model.FieldRawMaterialCostPct:       {"rawmaterialcostpct", "raw_material_cost_pct", "rm_cost_pct"},

	model.FieldInboundCubeUtilPct:  {"inboundcubeutilpct", "inbound_cube_util_pct", "inbound_util_pct"},
	model.FieldOutboundCubeUtilPct: {"outboundcubeutilpct", "outbound_cube_util_pct", "outbound_util_pct"},
	model.FieldMixingUtilPct:       {"mixingutilpct", "mixing_util_pct"},
	model.FieldBottlingUtilPct:     {"bottlingutilpct", "bottling_util_pct"},
	model.FieldPlanAdherencePct:    {"productionplanadherencepct", "plan_adherence_pct", "schedule_adherence_pct"},
}
