//go:build cgo

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/domainworth/domainworth/internal/config"
	"github.com/domainworth/domainworth/internal/core"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	ctx := context.Background()
	store, err := Open(ctx, config.StoreConfig{Driver: "libsql", Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, store.Migrate(ctx))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpenMemoryStore(t *testing.T) {
	store := openTestStore(t)
	require.Equal(t, "libsql", store.Driver())
}

func TestSectionCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	result := &core.SectionResult{
		Name:       "example",
		Section:    core.SectionAvailability,
		TLD:        "com",
		Outcome:    core.OutcomeTaken,
		StatusCode: 200,
		Message:    "domain found",
		ExtraData:  map[string]any{"registrar": "Acme"},
	}
	require.NoError(t, store.SetSectionResult(ctx, "example", result, time.Hour))

	cached, err := store.GetSectionResult(ctx, "example", core.SectionAvailability, "com")
	require.NoError(t, err)
	require.NotNil(t, cached)
	require.Equal(t, core.OutcomeTaken, cached.Outcome)
	require.Equal(t, "Acme", cached.ExtraData["registrar"])
	require.True(t, cached.Provenance.FromCache)
	require.NotNil(t, cached.Provenance.CacheExpiresAt)
}

func TestSectionCacheMiss(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	cached, err := store.GetSectionResult(ctx, "absent", core.SectionAvailability, "com")
	require.NoError(t, err)
	require.Nil(t, cached)
}

func TestSectionCacheExpiredEntriesIgnored(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	result := &core.SectionResult{
		Name:    "example",
		Section: core.SectionCommunity,
		Outcome: core.OutcomeAvailable,
	}
	// A sub-second TTL truncates to the current second, which the
	// strict expiry comparison already treats as expired.
	require.NoError(t, store.SetSectionResult(ctx, "example", result, time.Nanosecond))

	cached, err := store.GetSectionResult(ctx, "example", core.SectionCommunity, "")
	require.NoError(t, err)
	require.Nil(t, cached)

	pruned, err := store.PruneExpired(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), pruned)
}

func TestReportHistory(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	first := &core.Report{
		Name:        "example",
		GeneratedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Appraisal:   core.Appraisal{Score: 70, Grade: "B"},
	}
	second := &core.Report{
		Name:        "example",
		GeneratedAt: time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC),
		Appraisal:   core.Appraisal{Score: 85, Grade: "A"},
	}
	require.NoError(t, store.SaveReport(ctx, first))
	require.NoError(t, store.SaveReport(ctx, second))

	reports, err := store.RecentReports(ctx, "example", 10)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	require.Equal(t, 85, reports[0].Appraisal.Score)
	require.Equal(t, 70, reports[1].Appraisal.Score)

	all, err := store.RecentReports(ctx, "", 1)
	require.NoError(t, err)
	require.Len(t, all, 1)
}
