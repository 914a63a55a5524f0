package store

import (
	"context"
	"errors"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS section_cache (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		section TEXT NOT NULL,
		tld TEXT,
		outcome INTEGER,
		status_code INTEGER,
		extra_data TEXT,
		message TEXT,
		resolved_at INTEGER NOT NULL,
		expires_at INTEGER NOT NULL,
		UNIQUE(name, section, tld)
	);`,
	`CREATE INDEX IF NOT EXISTS idx_section_cache_expires ON section_cache(expires_at);`,
	`CREATE INDEX IF NOT EXISTS idx_section_cache_lookup ON section_cache(name, section);`,
	`CREATE TABLE IF NOT EXISTS reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		score INTEGER NOT NULL,
		grade TEXT NOT NULL,
		generic INTEGER NOT NULL DEFAULT 0,
		report_json TEXT NOT NULL,
		generated_at INTEGER NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_reports_name ON reports(name, generated_at);`,
}

// Migrate ensures the required database tables exist.
func (s *Store) Migrate(ctx context.Context) error {
	if s == nil || s.DB == nil {
		return errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	for _, stmt := range schemaStatements {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("store migration failed: %w", err)
		}
	}

	return nil
}
