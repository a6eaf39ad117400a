package store

import (
	"path/filepath"
	"testing"
	"time"

	"tfckpi/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "audit", "tfckpi.db"))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleReport(id string) *model.LoadReport {
	return &model.LoadReport{
		ID:         id,
		Source:     model.RoleOperational,
		Label:      "TFC_-2_6.xlsx",
		ResolvedBy: "path",
		Available:  true,
		Duration:   42 * time.Millisecond,
		Sheets: []model.SheetResult{
			{
				SheetName: "Customer",
				Status:    model.SheetMapped,
				Rows:      3,
				Fields:    []model.Field{model.FieldCustomer, model.FieldServiceLevelPct},
				Columns: []model.ColumnMapping{
					{ColumnIndex: 0, ColumnName: "Customer", Field: model.FieldCustomer},
					{ColumnIndex: 1, ColumnName: "Service Level %", Field: model.FieldServiceLevelPct},
					{ColumnIndex: 2, ColumnName: "Client", Field: model.FieldCustomer, Duplicate: true},
				},
			},
			{SheetName: "Notes", Status: model.SheetNoFields, Rows: 4},
		},
	}
}

func TestRecordLoadRoundTrip(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	id, err := s.RecordLoad(model.RoleOperational, sampleReport("r-1"))
	if err != nil {
		t.Fatalf("RecordLoad() error: %v", err)
	}

	got, err := s.GetLoad(id)
	if err != nil {
		t.Fatalf("GetLoad() error: %v", err)
	}
	if got.ReportID != "r-1" || !got.Available || got.ResolvedBy != "path" {
		t.Fatalf("unexpected log: %+v", got)
	}
	if got.TotalSheets != 2 || got.MappedSheets != 1 || got.TotalRows != 3 {
		t.Fatalf("unexpected counters: sheets=%d mapped=%d rows=%d", got.TotalSheets, got.MappedSheets, got.TotalRows)
	}
	if got.DurationMS != 42 {
		t.Fatalf("expected duration 42ms, got %d", got.DurationMS)
	}
	if len(got.Sheets) != 2 {
		t.Fatalf("expected 2 sheet rows, got %d", len(got.Sheets))
	}
	first := got.Sheets[0]
	if first.SheetName != "Customer" || first.Status != string(model.SheetMapped) {
		t.Fatalf("unexpected sheet meta: %+v", first)
	}
	if len(first.Fields) != 2 || first.Fields[1] != model.FieldServiceLevelPct {
		t.Fatalf("unexpected fields: %v", first.Fields)
	}
	if len(first.Columns) != 3 || !first.Columns[2].Duplicate {
		t.Fatalf("expected duplicate column preserved, got %+v", first.Columns)
	}
	if notes := got.Sheets[1]; len(notes.Fields) != 0 || len(notes.Columns) != 0 {
		t.Fatalf("expected empty fields/columns for unmapped sheet, got %+v", notes)
	}
}

func TestRecordLoadIsIdempotentPerReport(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	first, err := s.RecordLoad(model.RoleOperational, sampleReport("same"))
	if err != nil {
		t.Fatalf("RecordLoad() error: %v", err)
	}
	second, err := s.RecordLoad(model.RoleOperational, sampleReport("same"))
	if err != nil {
		t.Fatalf("RecordLoad() error: %v", err)
	}
	if first != second {
		t.Fatalf("expected same id for repeated report, got %d and %d", first, second)
	}

	logs, err := s.RecentLoads(10)
	if err != nil {
		t.Fatalf("RecentLoads() error: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("expected 1 log, got %d", len(logs))
	}
}

func TestRecentLoadsNewestFirst(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	for _, id := range []string{"a", "b", "c"} {
		if _, err := s.RecordLoad(model.RoleFinancial, sampleReport(id)); err != nil {
			t.Fatalf("RecordLoad(%s) error: %v", id, err)
		}
	}
	unavailable := &model.LoadReport{ID: "d", Source: model.RoleFinancial}
	if _, err := s.RecordLoad(model.RoleFinancial, unavailable); err != nil {
		t.Fatalf("RecordLoad(d) error: %v", err)
	}

	logs, err := s.RecentLoads(2)
	if err != nil {
		t.Fatalf("RecentLoads() error: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 logs, got %d", len(logs))
	}
	if logs[0].ReportID != "d" || logs[1].ReportID != "c" {
		t.Fatalf("unexpected order: %s, %s", logs[0].ReportID, logs[1].ReportID)
	}
	if logs[0].Available || logs[0].Role != model.RoleFinancial {
		t.Fatalf("unexpected unavailable log: %+v", logs[0])
	}
}

func TestRecordLoadNilReport(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	id, err := s.RecordLoad(model.RoleOperational, nil)
	if err != nil || id != 0 {
		t.Fatalf("expected no-op for nil report, got id=%d err=%v", id, err)
	}
}
