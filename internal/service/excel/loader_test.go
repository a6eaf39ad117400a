package excel_test

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"tfckpi/internal/model"
	"tfckpi/internal/service/excel"
)

type sheetFixture struct {
	name string
	rows [][]interface{}
}

func buildWorkbook(t *testing.T, sheets ...sheetFixture) *excelize.File {
	t.Helper()

	wb := excelize.NewFile()
	defaultSheet := wb.GetSheetName(wb.GetActiveSheetIndex())
	for _, s := range sheets {
		if _, err := wb.NewSheet(s.name); err != nil {
			t.Fatalf("NewSheet %s failed: %v", s.name, err)
		}
		for i, row := range s.rows {
			cell, _ := excelize.CoordinatesToCellName(1, i+1)
			r := row
			if err := wb.SetSheetRow(s.name, cell, &r); err != nil {
				t.Fatalf("SetSheetRow %s failed: %v", s.name, err)
			}
		}
	}
	if defaultSheet != "" {
		_ = wb.DeleteSheet(defaultSheet)
	}
	return wb
}

func saveWorkbook(t *testing.T, wb *excelize.File, path string) {
	t.Helper()
	if err := wb.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	_ = wb.Close()
}

func workbookBytes(t *testing.T, wb *excelize.File) []byte {
	t.Helper()
	buf, err := wb.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	_ = wb.Close()
	return buf.Bytes()
}

func scenarioA(t *testing.T) *excelize.File {
	return buildWorkbook(t, sheetFixture{
		name: "Supplier KPIs",
		rows: [][]interface{}{
			{"Round", "Week", "Supplier", "OnTimeDeliveryPct", "RejectRatePct"},
			{1, 1, "S1", 95.5, 2},
			{1, 2, "S2", 90, 3},
			{2, 3, "S1", 97, 1},
		},
	})
}

func TestLoad_ScenarioA(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ops.xlsx")
	saveWorkbook(t, scenarioA(t), path)

	wb, report := excel.NewLoader("").LoadWithReport(model.PathSource(path))
	if wb.Len() != 1 {
		t.Fatalf("sheets: got=%v", wb.SheetNames())
	}
	frame, ok := wb.Get("Supplier KPIs")
	if !ok {
		t.Fatalf("missing sheet entry")
	}
	if frame.Len() != 3 {
		t.Fatalf("rows: got=%d want=3", frame.Len())
	}
	for _, f := range []model.Field{
		model.FieldRound, model.FieldWeek, model.FieldSupplier,
		model.FieldDeliveryReliabilityPct, model.FieldRejectionPct, model.ColSheet,
	} {
		if !frame.Has(f) {
			t.Fatalf("missing column %s, got %v", f, frame.Columns())
		}
	}
	if len(frame.Columns()) != 6 {
		t.Fatalf("columns: got=%v", frame.Columns())
	}
	if v, ok := frame.At(model.FieldDeliveryReliabilityPct, 0).Float(); !ok || v != 95.5 {
		t.Fatalf("numeric cell: got=%v ok=%v", v, ok)
	}
	if frame.At(model.FieldSupplier, 1).String() != "S2" {
		t.Fatalf("text cell: got=%s", frame.At(model.FieldSupplier, 1))
	}

	if !report.Available || report.ResolvedBy != excel.ResolvedByPath || report.MappedSheets() != 1 || report.TotalRows() != 3 {
		t.Fatalf("report: %+v", report)
	}
	if report.ID == "" {
		t.Fatalf("report id should be set")
	}
}

func TestLoad_UploadOverridesPath(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "fin.xlsx")
	saveWorkbook(t, buildWorkbook(t, sheetFixture{
		name: "OnDisk",
		rows: [][]interface{}{{"Supplier", "Revenue"}, {"S1", 1}},
	}), path)

	upload := workbookBytes(t, buildWorkbook(t, sheetFixture{
		name: "Uploaded",
		rows: [][]interface{}{{"Supplier", "OperatingProfit"}, {"S1", 5}, {"S2", 6}},
	}))

	src := model.Source{Path: path, Name: "finance_upload.xlsx", Data: upload}
	wb, report := excel.NewLoader("").LoadWithReport(src)
	if _, ok := wb.Get("Uploaded"); !ok || wb.Len() != 1 {
		t.Fatalf("upload should win, got sheets=%v", wb.SheetNames())
	}
	if wb.Label != "finance_upload.xlsx" || report.ResolvedBy != excel.ResolvedByUpload {
		t.Fatalf("label=%q resolvedBy=%q", wb.Label, report.ResolvedBy)
	}
}

func TestLoad_DataDirFallback(t *testing.T) {
	t.Parallel()

	dataDir := t.TempDir()
	saveWorkbook(t, scenarioA(t), filepath.Join(dataDir, "fallback_only_ops.xlsx"))

	wb, report := excel.NewLoader(dataDir).LoadWithReport(model.PathSource("fallback_only_ops.xlsx"))
	if wb.Empty() {
		t.Fatalf("expected data dir fallback to load, report=%+v", report)
	}
	if report.ResolvedBy != excel.ResolvedByDataDir {
		t.Fatalf("resolvedBy: got=%q", report.ResolvedBy)
	}
}

func TestLoad_CorruptPathFallsThrough(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	dataDir := filepath.Join(root, "data")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	corrupt := filepath.Join(root, "ops.xlsx")
	if err := os.WriteFile(corrupt, []byte("not a workbook"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	fallback := filepath.Join(dataDir, corrupt)
	if err := os.MkdirAll(filepath.Dir(fallback), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	saveWorkbook(t, scenarioA(t), fallback)

	wb, report := excel.NewLoader(dataDir).LoadWithReport(model.PathSource(corrupt))
	if wb.Empty() || report.ResolvedBy != excel.ResolvedByDataDir {
		t.Fatalf("expected fallback after open failure, report=%+v", report)
	}
}

func TestLoad_UnavailableIsEmpty(t *testing.T) {
	t.Parallel()

	loader := excel.NewLoader(t.TempDir())

	wb, report := loader.LoadWithReport(model.PathSource(filepath.Join(t.TempDir(), "nope.xlsx")))
	if !wb.Empty() || report.Available || report.Error == "" {
		t.Fatalf("missing file: sheets=%v report=%+v", wb.SheetNames(), report)
	}

	wb, report = loader.LoadWithReport(model.Source{})
	if !wb.Empty() || report.Available {
		t.Fatalf("absent source: sheets=%v report=%+v", wb.SheetNames(), report)
	}

	wb = loader.Load(model.BytesSource("broken.xlsx", []byte("PK\x03\x04garbage")))
	if !wb.Empty() {
		t.Fatalf("corrupt upload should be unavailable")
	}
}

func TestLoad_SkipsEmptyAndUnmappedSheets(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "mixed.xlsx")
	saveWorkbook(t, buildWorkbook(t,
		sheetFixture{name: "Blank"},
		sheetFixture{name: "HeaderOnly", rows: [][]interface{}{{"Revenue", "Week"}}},
		sheetFixture{name: "Notes", rows: [][]interface{}{{"Notes", "Comment"}, {"a", "b"}}},
		sheetFixture{name: "Finance", rows: [][]interface{}{
			{"Week", "Customer", "Revenue", "Sales", "COGS"},
			{1, "C1", 100, 999, 40},
			{2, "C2", 200, 888, 90},
		}},
	), path)

	wb, report := excel.NewLoader("").LoadWithReport(model.PathSource(path))
	names := wb.SheetNames()
	if len(names) != 1 || names[0] != "Finance" {
		t.Fatalf("sheets: got=%v", names)
	}
	frame, _ := wb.Get("Finance")
	if frame.Sum(model.FieldRevenue) != 300 {
		t.Fatalf("revenue must come from the first matching column, got %v", frame.Sum(model.FieldRevenue))
	}

	status := map[string]model.SheetStatus{}
	for _, s := range report.Sheets {
		status[s.SheetName] = s.Status
	}
	want := map[string]model.SheetStatus{
		"Blank":      model.SheetEmpty,
		"HeaderOnly": model.SheetEmpty,
		"Notes":      model.SheetNoFields,
		"Finance":    model.SheetMapped,
	}
	for name, st := range want {
		if status[name] != st {
			t.Fatalf("sheet %s status: got=%q want=%q", name, status[name], st)
		}
	}
}

func TestLoad_DateCells(t *testing.T) {
	t.Parallel()

	wb := buildWorkbook(t, sheetFixture{
		name: "Daily",
		rows: [][]interface{}{{"Date", "Revenue"}},
	})
	if err := wb.SetCellValue("Daily", "A2", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("set date: %v", err)
	}
	if err := wb.SetCellValue("Daily", "B2", 12.5); err != nil {
		t.Fatalf("set value: %v", err)
	}
	path := filepath.Join(t.TempDir(), "daily.xlsx")
	saveWorkbook(t, wb, path)

	frame, ok := excel.NewLoader("").Load(model.PathSource(path)).Get("Daily")
	if !ok {
		t.Fatalf("missing sheet")
	}
	ts, ok := frame.At(model.FieldDate, 0).Time()
	if !ok || ts.Year() != 2024 || ts.Month() != time.March || ts.Day() != 15 {
		t.Fatalf("date cell: got=%v kind=%s", ts, frame.At(model.FieldDate, 0).Kind())
	}
}

func TestLoad_StringCellsStayText(t *testing.T) {
	t.Parallel()

	wb := buildWorkbook(t, sheetFixture{
		name: "Finance",
		rows: [][]interface{}{{"Customer", "Revenue"}, {"C1", 5}},
	})
	for axis, v := range map[string]string{"A3": "007", "B3": "Infinity", "A4": "C2", "B4": "NaN"} {
		if err := wb.SetCellStr("Finance", axis, v); err != nil {
			t.Fatalf("set %s: %v", axis, err)
		}
	}
	path := filepath.Join(t.TempDir(), "strings.xlsx")
	saveWorkbook(t, wb, path)

	frame, ok := excel.NewLoader("").Load(model.PathSource(path)).Get("Finance")
	if !ok || frame.Len() != 3 {
		t.Fatalf("frame: ok=%v", ok)
	}
	customer := frame.At(model.FieldCustomer, 1)
	if customer.Kind() != model.CellText || customer.String() != "007" {
		t.Fatalf("customer: got=%s %q", customer.Kind(), customer)
	}
	if k := frame.At(model.FieldRevenue, 1).Kind(); k != model.CellText {
		t.Fatalf("Infinity string should stay text, got=%s", k)
	}
	sum := frame.CoerceNumeric(model.FieldRevenue).Sum(model.FieldRevenue)
	if sum != 5 {
		t.Fatalf("revenue sum: got=%v want=5", sum)
	}
}

func TestLoad_CorruptSheetIsUnreadable(t *testing.T) {
	t.Parallel()

	wb := excelize.NewFile()
	if err := wb.SetSheetName("Sheet1", "Good"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	rows := [][]interface{}{{"Week", "Customer", "Revenue"}, {1, "C1", 100}, {2, "C2", 50}}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		r := row
		if err := wb.SetSheetRow("Good", cell, &r); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}
	if _, err := wb.NewSheet("Bad"); err != nil {
		t.Fatalf("NewSheet: %v", err)
	}
	data := replaceZipEntry(t, workbookBytes(t, wb), "xl/worksheets/sheet2.xml",
		[]byte(`<worksheet><sheetData><row r="1"><c r="A1">broken</sheetData>`))

	out, report := excel.NewLoader("").LoadWithReport(model.BytesSource("corrupt.xlsx", data))
	frame, ok := out.Get("Good")
	if !ok || frame.Sum(model.FieldRevenue) != 150 {
		t.Fatalf("sibling sheet should still map, sheets=%v", out.SheetNames())
	}
	if _, ok := out.Get("Bad"); ok {
		t.Fatalf("corrupt sheet should not produce a frame")
	}

	var bad *model.SheetResult
	for i := range report.Sheets {
		if report.Sheets[i].SheetName == "Bad" {
			bad = &report.Sheets[i]
		}
	}
	if bad == nil || bad.Status != model.SheetUnreadable || bad.Error == "" {
		t.Fatalf("corrupt sheet report: %+v", bad)
	}
	if report.MappedSheets() != 1 {
		t.Fatalf("mapped sheets: got=%d", report.MappedSheets())
	}
}

func replaceZipEntry(t *testing.T, data []byte, name string, content []byte) []byte {
	t.Helper()

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	replaced := false
	for _, f := range zr.File {
		w, err := zw.Create(f.Name)
		if err != nil {
			t.Fatalf("create %s: %v", f.Name, err)
		}
		if f.Name == name {
			replaced = true
			if _, err := w.Write(content); err != nil {
				t.Fatalf("write %s: %v", f.Name, err)
			}
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		if _, err := io.Copy(w, rc); err != nil {
			t.Fatalf("copy %s: %v", f.Name, err)
		}
		_ = rc.Close()
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	if !replaced {
		t.Fatalf("zip entry %s not found", name)
	}
	return buf.Bytes()
}

func TestLoad_CSV(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "fact_table.csv")
	content := "Round,Week,Customer,Service Level (%),Notes\n1,1,C1,97.5,x\n1,2,C2,n/a,y\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	wb := excel.NewLoader("").Load(model.PathSource(path))
	frame, ok := wb.Get("fact_table")
	if !ok {
		t.Fatalf("sheets: got=%v", wb.SheetNames())
	}
	if frame.Len() != 2 || !frame.Has(model.FieldServiceLevelPct) || frame.Has("notes") {
		t.Fatalf("frame: rows=%d cols=%v", frame.Len(), frame.Columns())
	}
	coerced := frame.CoerceNumeric(model.FieldServiceLevelPct)
	if v, ok := coerced.Mean(model.FieldServiceLevelPct); !ok || v != 97.5 {
		t.Fatalf("mean: got=%v ok=%v", v, ok)
	}

	upload := excel.NewLoader("").Load(model.BytesSource("export.csv", []byte(content)))
	if _, ok := upload.Get("export"); !ok {
		t.Fatalf("csv upload: got=%v", upload.SheetNames())
	}
}

func TestListCandidates(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	data := filepath.Join(root, "data")
	if err := os.MkdirAll(data, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for _, p := range []string{
		filepath.Join(root, "b.xlsx"),
		filepath.Join(root, "a.csv"),
		filepath.Join(root, "~$b.xlsx"),
		filepath.Join(root, "readme.txt"),
		filepath.Join(data, "c.xlsx"),
	} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	got := excel.ListCandidates(root, data, root, filepath.Join(root, "missing"))
	want := []string{
		filepath.Join(root, "a.csv"),
		filepath.Join(root, "b.xlsx"),
		filepath.Join(data, "c.xlsx"),
	}
	if len(got) != len(want) {
		t.Fatalf("candidates: got=%v want=%v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("candidates: got=%v want=%v", got, want)
		}
	}
}
