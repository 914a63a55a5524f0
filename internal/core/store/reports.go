package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/domainworth/domainworth/internal/core"
)

// SaveReport appends a finished report to the history.
func (s *Store) SaveReport(ctx context.Context, report *core.Report) error {
	if s == nil || s.DB == nil {
		return errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	if report == nil || strings.TrimSpace(report.Name) == "" {
		return errors.New("report name is required")
	}

	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	generic := 0
	if report.Appraisal.Generic {
		generic = 1
	}

	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO reports (name, score, grade, generic, report_json, generated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, strings.TrimSpace(report.Name), report.Appraisal.Score, report.Appraisal.Grade, generic, string(data), report.GeneratedAt.UTC().Unix())
	if err != nil {
		return fmt.Errorf("store report: %w", err)
	}

	return nil
}

// RecentReports returns up to limit stored reports for a name, newest
// first. An empty name returns the newest reports across all names.
func (s *Store) RecentReports(ctx context.Context, name string, limit int) ([]*core.Report, error) {
	if s == nil || s.DB == nil {
		return nil, errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	if limit <= 0 {
		limit = 10
	}

	query := `SELECT report_json FROM reports ORDER BY generated_at DESC, id DESC LIMIT ?`
	args := []any{limit}
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		query = `SELECT report_json FROM reports WHERE name = ? ORDER BY generated_at DESC, id DESC LIMIT ?`
		args = []any{trimmed, limit}
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetch reports: %w", err)
	}
	defer rows.Close() // nolint:errcheck // best-effort cleanup on SQL rows

	var reports []*core.Report
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		var report core.Report
		if err := json.Unmarshal([]byte(data), &report); err != nil {
			return nil, fmt.Errorf("decode report: %w", err)
		}
		reports = append(reports, &report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch reports: %w", err)
	}

	return reports, nil
}
