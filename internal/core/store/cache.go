package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/domainworth/domainworth/internal/core"
)

// GetSectionResult returns a cached section result if it is still
// valid. A nil result with a nil error means cache miss.
func (s *Store) GetSectionResult(ctx context.Context, name string, section core.Section, tld string) (*core.SectionResult, error) {
	if s == nil || s.DB == nil {
		return nil, errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	keyName := strings.TrimSpace(name)
	if keyName == "" {
		return nil, errors.New("cache name is required")
	}

	tld = normalizeTLD(tld)

	var (
		outcome    int
		statusCode sql.NullInt64
		extraJSON  sql.NullString
		message    sql.NullString
		resolvedAt int64
		expiresAt  int64
	)

	row := s.DB.QueryRowContext(ctx, `
		SELECT outcome, status_code, extra_data, message, resolved_at, expires_at
		FROM section_cache
		WHERE name = ? AND section = ? AND tld = ? AND expires_at > ?
	`, keyName, string(section), tld, time.Now().UTC().Unix())

	if err := row.Scan(&outcome, &statusCode, &extraJSON, &message, &resolvedAt, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch cached result: %w", err)
	}

	var extra map[string]any
	if extraJSON.Valid && extraJSON.String != "" {
		if err := json.Unmarshal([]byte(extraJSON.String), &extra); err != nil {
			return nil, fmt.Errorf("decode cached result: %w", err)
		}
	}

	resolved := time.Unix(resolvedAt, 0).UTC()
	expires := time.Unix(expiresAt, 0).UTC()

	return &core.SectionResult{
		Name:       keyName,
		Section:    section,
		TLD:        tld,
		Outcome:    core.Outcome(outcome),
		StatusCode: int(statusCode.Int64),
		Message:    message.String,
		ExtraData:  extra,
		Provenance: core.Provenance{
			ResolvedAt:     resolved,
			FromCache:      true,
			CacheExpiresAt: &expires,
		},
	}, nil
}

// SetSectionResult stores a section result with a TTL.
func (s *Store) SetSectionResult(ctx context.Context, name string, result *core.SectionResult, ttl time.Duration) error {
	if s == nil || s.DB == nil {
		return errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	if ttl <= 0 || result == nil {
		return nil
	}

	keyName := strings.TrimSpace(name)
	if keyName == "" {
		return errors.New("cache name is required")
	}

	extraJSON, err := json.Marshal(result.ExtraData)
	if err != nil {
		return fmt.Errorf("encode cached result: %w", err)
	}

	now := time.Now().UTC()
	expires := now.Add(ttl)

	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO section_cache (name, section, tld, outcome, status_code, extra_data, message, resolved_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name, section, tld) DO UPDATE SET
			outcome = excluded.outcome,
			status_code = excluded.status_code,
			extra_data = excluded.extra_data,
			message = excluded.message,
			resolved_at = excluded.resolved_at,
			expires_at = excluded.expires_at
	`, keyName, string(result.Section), normalizeTLD(result.TLD), int(result.Outcome), result.StatusCode, string(extraJSON), result.Message, now.Unix(), expires.Unix())
	if err != nil {
		return fmt.Errorf("store cached result: %w", err)
	}

	return nil
}

// PruneExpired removes cache rows past their expiry.
func (s *Store) PruneExpired(ctx context.Context) (int64, error) {
	if s == nil || s.DB == nil {
		return 0, errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM section_cache WHERE expires_at <= ?`, time.Now().UTC().Unix())
	if err != nil {
		return 0, fmt.Errorf("prune cache: %w", err)
	}

	return result.RowsAffected()
}

func normalizeTLD(tld string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(tld, ".")))
}
