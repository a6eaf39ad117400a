package parser

import (
	"strings"

	"tfckpi/internal/model"
)

// MatchExact 精确别名命中时 Classification.Rule 的取值
const MatchExact = "exact"

// Rule 启发式规则：对规范化后的 token 做子串判断
type Rule struct {
	Name  string
	Field model.Field
	Match func(token string) bool
}

// Classification 列名识别结果
type Classification struct {
	Header string
	Token  string
	Field  model.Field // 空表示未识别
	Rule   string      // exact 或命中的启发式规则名
}

// OK 是否识别成功
func (c Classification) OK() bool {
	return c.Field != ""
}

// Classifier 列名识别器：先精确别名，再按固定顺序尝试启发式规则，首个命中生效
type Classifier struct {
	registry *Registry
	rules    []Rule
}

// NewClassifier 使用内置规则创建识别器；registry 为 nil 时使用内置别名表
func NewClassifier(registry *Registry) *Classifier {
	return NewClassifierWithRules(registry, DefaultRules())
}

// NewClassifierWithRules 使用自定义规则创建识别器
func NewClassifierWithRules(registry *Registry, rules []Rule) *Classifier {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Classifier{
		registry: registry,
		rules:    append([]Rule(nil), rules...),
	}
}

var defaultClassifier = NewClassifier(nil)

// Classify 使用内置别名表和规则识别列名
func Classify(header string) (model.Field, bool) {
	return defaultClassifier.Classify(header)
}

// Classify 识别原始列名
func (c *Classifier) Classify(header string) (model.Field, bool) {
	res := c.Explain(header)
	return res.Field, res.OK()
}

// Explain 识别原始列名并返回命中来源
func (c *Classifier) Explain(header string) Classification {
	res := Classification{Header: header, Token: Normalize(header)}
	if res.Token == "" {
		return res
	}

	if f, ok := c.registry.Lookup(res.Token); ok {
		res.Field = f
		res.Rule = MatchExact
		return res
	}

	for _, rule := range c.rules {
		if rule.Match(res.Token) {
			res.Field = rule.Field
			res.Rule = rule.Name
			return res
		}
	}
	return res
}

// Rules 当前规则（按求值顺序）
func (c *Classifier) Rules() []Rule {
	return append([]Rule(nil), c.rules...)
}

// measureWords 出现这些词的 token 视为指标列，不作为产品维度兜底
var measureWords = []string{
	"pct", "qty", "cost", "value", "availability", "revenue",
	"price", "util", "margin", "amount", "sales", "profit",
}

// DefaultRules 内置启发式规则
//
// 顺序即语义：带 pct 后缀的专用规则最先，其次数量/金额，再其次维度，最后是宽泛的 roi 兜底。
// 一个 token 可能满足多条规则（如同时包含 roi 和 pct），以先命中者为准。
func DefaultRules() []Rule {
	pct := func(name string, field model.Field, match func(string) bool) Rule {
		return Rule{
			Name:  name,
			Field: field,
			Match: func(n string) bool { return strings.HasSuffix(n, "pct") && match(n) },
		}
	}

	return []Rule{
		// 百分比指标
		pct("pct_service_level", model.FieldServiceLevelPct, func(n string) bool {
			return ContainsAny(n, "service", "fill")
		}),
		pct("pct_product_availability", model.FieldProductAvailabilityPct, func(n string) bool {
			return ContainsAll(n, "availability", "product")
		}),
		pct("pct_component_availability", model.FieldComponentAvailabilityPct, func(n string) bool {
			return ContainsAll(n, "availability", "component")
		}),
		pct("pct_delivery_reliability", model.FieldDeliveryReliabilityPct, func(n string) bool {
			return ContainsAny(n, "ontime", "reliab")
		}),
		pct("pct_rejection", model.FieldRejectionPct, func(n string) bool {
			return strings.Contains(n, "reject")
		}),
		pct("pct_component_obsolete", model.FieldComponentObsoletePct, func(n string) bool {
			return ContainsAll(n, "obsolete", "component")
		}),
		pct("pct_inbound_util", model.FieldInboundCubeUtilPct, func(n string) bool {
			return ContainsAll(n, "util", "inbound")
		}),
		pct("pct_outbound_util", model.FieldOutboundCubeUtilPct, func(n string) bool {
			return ContainsAll(n, "util", "outbound")
		}),
		pct("pct_mixing_util", model.FieldMixingUtilPct, func(n string) bool {
			return ContainsAll(n, "util", "mix")
		}),
		pct("pct_bottling_util", model.FieldBottlingUtilPct, func(n string) bool {
			return ContainsAll(n, "util", "bottling")
		}),
		pct("pct_plan_adherence", model.FieldPlanAdherencePct, func(n string) bool {
			return ContainsAny(n, "adherence", "schedule")
		}),
		pct("pct_roi", model.FieldROIPct, func(n string) bool {
			return strings.Contains(n, "roi")
		}),
		pct("pct_raw_material_cost", model.FieldRawMaterialCostPct, func(n string) bool {
			return ContainsAll(n, "raw", "cost")
		}),

		// 数量
		{Name: "order_qty", Field: model.FieldOrderQty, Match: func(n string) bool {
			return ContainsAll(n, "order", "qty")
		}},
		{Name: "delivered_qty", Field: model.FieldDeliveredQty, Match: func(n string) bool {
			return ContainsAny(n, "deliver", "ship") && strings.Contains(n, "qty")
		}},
		{Name: "backorder_qty", Field: model.FieldBackorderQty, Match: func(n string) bool {
			return ContainsAll(n, "backorder", "qty")
		}},
		{Name: "obsolescence_qty", Field: model.FieldObsolescenceQty, Match: func(n string) bool {
			return ContainsAll(n, "obsolesc", "qty")
		}},
		{Name: "obsolescence_value", Field: model.FieldObsolescenceValue, Match: func(n string) bool {
			return ContainsAll(n, "obsolesc", "val")
		}},

		// 财务
		{Name: "revenue", Field: model.FieldRevenue, Match: func(n string) bool {
			return strings.Contains(n, "revenue") || n == "sales"
		}},
		{Name: "cogs", Field: model.FieldCOGS, Match: func(n string) bool {
			return ContainsAny(n, "cogs", "costofgoods")
		}},
		{Name: "indirect_cost", Field: model.FieldIndirectCost, Match: func(n string) bool {
			return ContainsAny(n, "overhead", "indirect") || n == "opex"
		}},
		{Name: "operating_profit", Field: model.FieldOperatingProfit, Match: func(n string) bool {
			return ContainsAny(n, "profit", "ebit")
		}},

		// 维度
		{Name: "product_code", Field: model.FieldProduct, Match: func(n string) bool {
			return EqualsAny(n, "sku", "fgsku", "fg", "item")
		}},
		{Name: "customer", Field: model.FieldCustomer, Match: func(n string) bool {
			return ContainsAny(n, "customer", "client", "channel")
		}},
		{Name: "supplier", Field: model.FieldSupplier, Match: func(n string) bool {
			return ContainsAny(n, "supplier", "vendor")
		}},
		{Name: "component", Field: model.FieldComponent, Match: func(n string) bool {
			return ContainsAny(n, "component", "material", "raw")
		}},
		{Name: "plant", Field: model.FieldPlant, Match: func(n string) bool {
			return ContainsAny(n, "plant", "factory", "site")
		}},
		{Name: "warehouse", Field: model.FieldWarehouse, Match: func(n string) bool {
			return strings.Contains(n, "warehouse") || EqualsAny(n, "dc", "inboundwarehouse", "outboundwarehouse")
		}},
		{Name: "week", Field: model.FieldWeek, Match: func(n string) bool {
			return strings.HasPrefix(n, "week") || n == "wk"
		}},
		{Name: "round", Field: model.FieldRound, Match: func(n string) bool {
			return EqualsAny(n, "round", "period", "cycle") || strings.HasPrefix(n, "round")
		}},
		{Name: "date", Field: model.FieldDate, Match: func(n string) bool {
			return ContainsAny(n, "date", "timestamp") || n == "day"
		}},
		{Name: "product_name", Field: model.FieldProduct, Match: func(n string) bool {
			if ContainsAny(n, measureWords...) {
				return false
			}
			return (strings.Contains(n, "product") && !strings.Contains(n, "production")) || strings.Contains(n, "sku")
		}},

		// 其它指标
		{Name: "forecast_error", Field: model.FieldForecastErrorPct, Match: func(n string) bool {
			return ContainsAll(n, "forecast", "error")
		}},
		{Name: "forecast", Field: model.FieldForecast, Match: func(n string) bool {
			return n == "forecast" || strings.Contains(n, "fcst")
		}},
		{Name: "shelf_life", Field: model.FieldShelfLifeDays, Match: func(n string) bool {
			return strings.Contains(n, "shelf")
		}},
		{Name: "price", Field: model.FieldPrice, Match: func(n string) bool {
			return n == "price" || strings.Contains(n, "unitprice")
		}},
		{Name: "discount", Field: model.FieldDiscount, Match: func(n string) bool {
			return strings.Contains(n, "discount")
		}},
		{Name: "capital_employed", Field: model.FieldCapitalEmployed, Match: func(n string) bool {
			return ContainsAll(n, "capital", "employed")
		}},
		{Name: "roi", Field: model.FieldROIPct, Match: func(n string) bool {
			return strings.Contains(n, "roi")
		}},
	}
}
