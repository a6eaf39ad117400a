package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"tfckpi/internal/exporter"
	"tfckpi/internal/model"
	"tfckpi/internal/reconcile"
	"tfckpi/internal/service/excel"
	"tfckpi/internal/store"
)

var (
	opsPath   = flag.String("ops", "", "运营工作簿路径")
	finPath   = flag.String("fin", "", "财务工作簿路径")
	dataDir   = flag.String("data", "data", "兜底数据目录")
	exportDir = flag.String("export", "", "导出各页面领域帧到该目录（为空不导出）")
	dbPath    = flag.String("db", "", "记录加载审计的 SQLite 文件（为空不记录）")
	list      = flag.Bool("list", false, "仅列出可选工作簿")
)

func main() {
	flag.Parse()

	if *list {
		for _, p := range excel.ListCandidates(".", *dataDir) {
			fmt.Println(p)
		}
		return
	}
	if *opsPath == "" && *finPath == "" {
		fmt.Fprintln(os.Stderr, "usage: kpiscan -ops <workbook> [-fin <workbook>] [-export dir] [-db file]")
		os.Exit(2)
	}

	var st *store.Store
	if *dbPath != "" {
		s, err := store.New(*dbPath)
		if err != nil {
			log.Fatalf("init store: %v", err)
		}
		defer func() { _ = s.Close() }()
		st = s
	}

	loader := excel.NewLoader(*dataDir)
	set := model.SourceSet{Operational: source(*opsPath), Financial: source(*finPath)}

	workbooks := make(map[string]*model.Workbook, 2)
	for _, role := range []string{model.RoleOperational, model.RoleFinancial} {
		src := set.ByRole()[role]
		if src.IsAbsent() {
			continue
		}
		wb, report := loader.LoadWithReport(src)
		workbooks[role] = wb
		printReport(role, report)
		if st != nil {
			if _, err := st.RecordLoad(role, report); err != nil {
				log.Printf("record load (%s): %v", role, err)
			}
		}
	}

	sheets := printPages(workbooks[model.RoleOperational], workbooks[model.RoleFinancial])

	if *exportDir != "" {
		if err := export(sheets, *exportDir); err != nil {
			log.Fatalf("export: %v", err)
		}
	}
}

func source(p string) model.Source {
	if strings.TrimSpace(p) == "" {
		return model.Source{}
	}
	return model.PathSource(p)
}

func printReport(role string, r *model.LoadReport) {
	fmt.Printf("== %s: %s\n", role, r.Label)
	if !r.Available {
		fmt.Printf("   unavailable: %s\n\n", r.Error)
		return
	}
	fmt.Printf("   resolved by %s in %s, %d/%d sheets mapped, %d rows\n",
		r.ResolvedBy, r.Duration.Round(time.Millisecond), r.MappedSheets(), len(r.Sheets), r.TotalRows())

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "   SHEET\tSTATUS\tROWS\tFIELDS\tDROPPED")
	for _, s := range r.Sheets {
		fields := make([]string, len(s.Fields))
		for i, f := range s.Fields {
			fields[i] = string(f)
		}
		var dropped []string
		for _, c := range s.Columns {
			switch {
			case c.Duplicate:
				dropped = append(dropped, fmt.Sprintf("%s(dup %s)", c.ColumnName, c.Field))
			case c.Field == "":
				dropped = append(dropped, c.ColumnName)
			}
		}
		status := string(s.Status)
		if s.Error != "" {
			status += ": " + s.Error
		}
		fmt.Fprintf(w, "   %s\t%s\t%d\t%s\t%s\n", s.SheetName, status, s.Rows,
			strings.Join(fields, ","), strings.Join(dropped, ","))
	}
	_ = w.Flush()
	fmt.Println()
}

func printPages(ops, fin *model.Workbook) []exporter.Sheet {
	var sheets []exporter.Sheet

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PAGE\tOPS ROWS\tOPS COLS\tFIN ROWS\tFIN COLS")
	for _, page := range reconcile.Pages() {
		frames := reconcile.ReconcilePage(page, ops, fin)
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\n", page.Page,
			frames.Operational.Len(), len(frames.Operational.Columns()),
			frames.Financial.Len(), len(frames.Financial.Columns()))

		for _, role := range []string{model.RoleOperational, model.RoleFinancial} {
			f, _ := frames.ByRole(role)
			if f.Empty() {
				continue
			}
			sheets = append(sheets, exporter.Sheet{Name: fmt.Sprintf("%s-%s", page.Page, role), Frame: f})
		}
	}
	_ = w.Flush()
	return sheets
}

func export(sheets []exporter.Sheet, dir string) error {
	if len(sheets) == 0 {
		fmt.Println("nothing to export")
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	f, err := exporter.Export(sheets, exporter.Options{
		IncludeTags: true,
		Progress: func(p exporter.ProgressEvent) {
			fmt.Printf("\r[%3d%%] %s", p.Percent, p.Label())
		},
	})
	if err != nil {
		return err
	}
	defer f.Close()
	fmt.Println()

	out := filepath.Join(dir, exporter.FileName("tfckpi_domains", time.Now()))
	if err := f.SaveAs(out); err != nil {
		return fmt.Errorf("save %s: %w", out, err)
	}
	fmt.Println("exported", out)
	return nil
}
