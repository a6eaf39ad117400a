package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"tfckpi/internal/model"
)

// SheetMeta sheet 加载明细（用于追溯哪些列被识别、哪些被丢弃）
type SheetMeta struct {
	ID           int64                 `json:"id"`
	LoadLogID    int64                 `json:"loadLogId"`
	SheetName    string                `json:"sheetName"`
	Status       string                `json:"status"`
	TotalRows    int                   `json:"totalRows"`
	Fields       []model.Field         `json:"fields"`
	Columns      []model.ColumnMapping `json:"columns"`
	ErrorMessage string                `json:"errorMessage,omitempty"`
}

func insertSheetMeta(tx *sql.Tx, loadLogID int64, sheet model.SheetResult) error {
	_, err := tx.Exec(`
		INSERT INTO sheets_meta (
			load_log_id, sheet_name, status, total_rows,
			fields_json, column_mapping_json, error_message
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		loadLogID, sheet.SheetName, string(sheet.Status), sheet.Rows,
		toJSON(sheet.Fields), toJSON(sheet.Columns), sheet.Error,
	)
	if err != nil {
		return fmt.Errorf("failed to insert sheets_meta: %w", err)
	}
	return nil
}

// SheetsForLoad 某次加载的 sheet 明细
func (s *Store) SheetsForLoad(loadLogID int64) ([]SheetMeta, error) {
	rows, err := s.db.Query(`
		SELECT id, load_log_id, sheet_name, status, total_rows,
		       fields_json, column_mapping_json, error_message
		FROM sheets_meta
		WHERE load_log_id = ?
		ORDER BY id
	`, loadLogID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sheets_meta: %w", err)
	}
	defer rows.Close()

	out := make([]SheetMeta, 0)
	for rows.Next() {
		var m SheetMeta
		var fieldsJSON, columnsJSON string
		if err := rows.Scan(
			&m.ID, &m.LoadLogID, &m.SheetName, &m.Status, &m.TotalRows,
			&fieldsJSON, &columnsJSON, &m.ErrorMessage,
		); err != nil {
			return nil, fmt.Errorf("failed to scan sheets_meta: %w", err)
		}
		m.Fields = []model.Field{}
		m.Columns = []model.ColumnMapping{}
		_ = json.Unmarshal([]byte(fieldsJSON), &m.Fields)
		_ = json.Unmarshal([]byte(columnsJSON), &m.Columns)
		out = append(out, m)
	}
	return out, rows.Err()
}

// toJSON 序列化为 JSON（失败时返回空数组）
func toJSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil || string(b) == "null" {
		return "[]"
	}
	return string(b)
}
