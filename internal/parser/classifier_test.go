package parser

import (
	"testing"

	"tfckpi/internal/model"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	cases := []struct {
		header string
		want   model.Field
	}{
		// 精确别名
		{"Round", model.FieldRound},
		{"OnTimeDeliveryPct", model.FieldDeliveryReliabilityPct},
		{"Reject Rate Pct", model.FieldRejectionPct},
		{"Service Level (%)", model.FieldServiceLevelPct},
		{"Cost of Goods Sold", model.FieldCOGS},
		{"ROI", model.FieldROIPct},
		{"Availability", model.FieldProductAvailabilityPct},

		// pct 后缀规则
		{"Fill Rate Pct", model.FieldServiceLevelPct},
		{"Supplier ROI Pct", model.FieldROIPct},
		{"Inbound Cube Utilisation Pct", model.FieldInboundCubeUtilPct},
		{"Component Availability Week Pct", model.FieldComponentAvailabilityPct},

		// 数量/金额
		{"Shipped Units Qty", model.FieldDeliveredQty},
		{"Obsolescence Value EUR", model.FieldObsolescenceValue},
		{"Gross Revenue", model.FieldRevenue},
		{"EBIT margin", model.FieldOperatingProfit},

		// 维度兜底
		{"Customer Name", model.FieldCustomer},
		{"Vendor Code", model.FieldSupplier},
		{"Week No.", model.FieldWeek},
		{"Round 3", model.FieldRound},
		{"Order Date", model.FieldDate},
		{"Product Name", model.FieldProduct},
		{"SKU Description", model.FieldProduct},

		// 其它
		{"Forecast Error %", model.FieldForecastErrorPct},
		{"Shelf life achieved", model.FieldShelfLifeDays},
		{"Return ROI", model.FieldROIPct},
	}
	for _, tc := range cases {
		got, ok := Classify(tc.header)
		if !ok || got != tc.want {
			t.Fatalf("Classify(%q): got=%q ok=%v want=%q", tc.header, got, ok, tc.want)
		}
	}
}

func TestClassify_Unclassified(t *testing.T) {
	t.Parallel()

	for _, h := range []string{"Notes", "", "   ", "%", "Production Volume", "Product Cost Index"} {
		if got, ok := Classify(h); ok {
			t.Fatalf("Classify(%q): expected unclassified, got=%q", h, got)
		}
	}
}

func TestClassify_ExactBeatsHeuristic(t *testing.T) {
	t.Parallel()

	// 启发式会先命中 customer 规则
	reg, err := BuildRegistry(map[model.Field][]string{
		model.FieldSupplier: {"Customer Vendor"},
	})
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}
	c := NewClassifier(reg)
	res := c.Explain("customer-vendor")
	if res.Field != model.FieldSupplier || res.Rule != MatchExact {
		t.Fatalf("explain: got=%+v", res)
	}
	if res := c.Explain("Customer Vendor Name"); res.Field != model.FieldCustomer || res.Rule != "customer" {
		t.Fatalf("heuristic fallback: got=%+v", res)
	}

	res = NewClassifier(nil).Explain("Supplier ROI Pct")
	if res.Rule != "pct_roi" {
		t.Fatalf("roi pct should resolve through pct rule, got rule=%q", res.Rule)
	}
}

func TestClassify_Deterministic(t *testing.T) {
	t.Parallel()

	headers := []string{"Supplier ROI Pct", "Backorder Qty Total", "Raw Material Cost", "Product Name", "Notes"}
	first := make([]model.Field, len(headers))
	for i, h := range headers {
		first[i], _ = Classify(h)
	}
	for n := 0; n < 50; n++ {
		c := NewClassifier(nil)
		for i, h := range headers {
			if got, _ := c.Classify(h); got != first[i] {
				t.Fatalf("run %d: Classify(%q) got=%q want=%q", n, h, got, first[i])
			}
		}
	}
}

func TestClassifier_CustomRules(t *testing.T) {
	t.Parallel()

	c := NewClassifierWithRules(nil, []Rule{
		{Name: "margin", Field: model.FieldOperatingProfit, Match: func(n string) bool { return n == "margin" }},
	})
	if got, ok := c.Classify("Margin"); !ok || got != model.FieldOperatingProfit {
		t.Fatalf("custom rule: got=%q ok=%v", got, ok)
	}
	if _, ok := c.Classify("Customer Name"); ok {
		t.Fatalf("built-in rules should not apply")
	}
	if got, _ := c.Classify("Supplier"); got != model.FieldSupplier {
		t.Fatalf("exact table still applies, got=%q", got)
	}
}
