package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tfckpi/internal/model"
)

// LoadLog 加载审计记录
type LoadLog struct {
	ID           int64       `json:"id"`
	ReportID     string      `json:"reportId"`
	Role         string      `json:"role"`
	Label        string      `json:"label"`
	ResolvedBy   string      `json:"resolvedBy"`
	Available    bool        `json:"available"`
	TotalSheets  int         `json:"totalSheets"`
	MappedSheets int         `json:"mappedSheets"`
	TotalRows    int         `json:"totalRows"`
	DurationMS   int64       `json:"durationMs"`
	ErrorMessage string      `json:"errorMessage,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
	Sheets       []SheetMeta `json:"sheets,omitempty"`
}

// RecordLoad 写入一次加载报告（含 sheet 明细）；同一报告重复写入时忽略
func (s *Store) RecordLoad(role string, report *model.LoadReport) (int64, error) {
	if report == nil {
		return 0, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var existing int64
	err = tx.QueryRow(`SELECT id FROM load_logs WHERE report_id = ?`, report.ID).Scan(&existing)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to query load log: %w", err)
	}

	res, err := tx.Exec(`
		INSERT INTO load_logs (
			report_id, role, label, resolved_by, available,
			total_sheets, mapped_sheets, total_rows, duration_ms, error_message
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		report.ID, role, report.Label, report.ResolvedBy, boolToInt(report.Available),
		len(report.Sheets), report.MappedSheets(), report.TotalRows(),
		report.Duration.Milliseconds(), report.Error,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create load log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get load log id: %w", err)
	}

	for _, sheet := range report.Sheets {
		if err := insertSheetMeta(tx, id, sheet); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit load log: %w", err)
	}
	return id, nil
}

// RecentLoads 最近的加载记录（新的在前）
func (s *Store) RecentLoads(limit int) ([]LoadLog, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT id, report_id, role, label, resolved_by, available,
		       total_sheets, mapped_sheets, total_rows, duration_ms, error_message, created_at
		FROM load_logs
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query load logs: %w", err)
	}
	defer rows.Close()

	out := make([]LoadLog, 0)
	for rows.Next() {
		var l LoadLog
		var available int
		if err := rows.Scan(
			&l.ID, &l.ReportID, &l.Role, &l.Label, &l.ResolvedBy, &available,
			&l.TotalSheets, &l.MappedSheets, &l.TotalRows, &l.DurationMS, &l.ErrorMessage, &l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan load log: %w", err)
		}
		l.Available = available != 0
		out = append(out, l)
	}
	return out, rows.Err()
}

// GetLoad 获取单条加载记录及 sheet 明细
func (s *Store) GetLoad(id int64) (*LoadLog, error) {
	var l LoadLog
	var available int
	err := s.db.QueryRow(`
		SELECT id, report_id, role, label, resolved_by, available,
		       total_sheets, mapped_sheets, total_rows, duration_ms, error_message, created_at
		FROM load_logs WHERE id = ?
	`, id).Scan(
		&l.ID, &l.ReportID, &l.Role, &l.Label, &l.ResolvedBy, &available,
		&l.TotalSheets, &l.MappedSheets, &l.TotalRows, &l.DurationMS, &l.ErrorMessage, &l.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get load log %d: %w", id, err)
	}
	l.Available = available != 0

	sheets, err := s.SheetsForLoad(id)
	if err != nil {
		return nil, err
	}
	l.Sheets = sheets
	return &l, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
