package exporter

import (
	"testing"
	"time"

	"tfckpi/internal/model"
)

func TestExport_WritesFramesAndTags(t *testing.T) {
	t.Parallel()

	b := model.NewFrameBuilder(2)
	b.Add(model.FieldSupplier, []model.Cell{model.Text("S1"), model.Text("S2")})
	b.Add(model.FieldOperatingProfit, []model.Cell{model.Number(10.5), model.Missing()})
	b.Add(model.FieldDate, []model.Cell{model.Date(time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)), model.Missing()})
	frame := b.Build().WithConstant(model.ColSheet, model.Text("Fin"))

	var events []ProgressEvent
	f, err := Export([]Sheet{
		{Name: "purchase/financial", Frame: frame},
		{Name: "purchase/financial", Frame: model.NewFrame()},
	}, Options{Progress: func(e ProgressEvent) { events = append(events, e) }})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "purchase_financial" || sheets[1] != "purchase_financial_2" {
		t.Fatalf("sheets: got=%v", sheets)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		t.Fatalf("get rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows: got=%d want=3", len(rows))
	}
	if len(rows[0]) != 3 || rows[0][0] != "supplier" || rows[0][1] != "operating_profit" {
		t.Fatalf("header: got=%v", rows[0])
	}
	if rows[1][1] != "10.5" {
		t.Fatalf("value: got=%q", rows[1][1])
	}
	if len(events) != 4 || events[0].Stage != StagePrepare || events[3].Stage != StageDone || events[3].Percent != 100 {
		t.Fatalf("progress: got=%+v", events)
	}
	first, second := events[1], events[2]
	if first.Stage != StageSheet || first.Sheet != "purchase_financial" || first.Rows != 2 || first.Percent != 50 || first.Done != 1 || first.Total != 2 {
		t.Fatalf("first sheet event: %+v", first)
	}
	if second.Sheet != "purchase_financial_2" || second.Rows != 0 || second.Percent != 100 {
		t.Fatalf("second sheet event: %+v", second)
	}
	if first.Label() != "已写入 purchase_financial" {
		t.Fatalf("label: got=%q", first.Label())
	}
}

func TestExport_NoSheetsStillCompletes(t *testing.T) {
	t.Parallel()

	var events []ProgressEvent
	f, err := Export(nil, Options{Progress: func(e ProgressEvent) { events = append(events, e) }})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })

	if len(events) != 2 || events[0].Percent != 0 || events[1].Stage != StageDone || events[1].Percent != 100 {
		t.Fatalf("progress: got=%+v", events)
	}
}

func TestUniqueSheetName(t *testing.T) {
	t.Parallel()

	used := map[string]struct{}{}
	long := "operations_financial_domain_frame_export"
	a := uniqueSheetName(long, used)
	b := uniqueSheetName(long, used)
	if len([]rune(a)) > 31 || len([]rune(b)) > 31 || a == b {
		t.Fatalf("names: %q %q", a, b)
	}
}
