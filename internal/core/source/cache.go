package source

import (
	"context"
	"time"

	"github.com/domainworth/domainworth/internal/core"
)

// Cache persists section results between runs so repeated reports for
// the same name stay off the network.
type Cache interface {
	GetSectionResult(ctx context.Context, name string, section core.Section, tld string) (*core.SectionResult, error)
	SetSectionResult(ctx context.Context, name string, result *core.SectionResult, ttl time.Duration) error
}

// CachePolicy sets result TTLs by outcome. Availability flips when a
// name is registered, so available results expire faster than taken
// ones.
type CachePolicy struct {
	AvailableTTL time.Duration
	TakenTTL     time.Duration
	ErrorTTL     time.Duration
}

// DefaultCachePolicy returns the TTLs used when the config leaves them
// unset.
func DefaultCachePolicy() CachePolicy {
	return CachePolicy{
		AvailableTTL: time.Hour,
		TakenTTL:     24 * time.Hour,
		ErrorTTL:     5 * time.Minute,
	}
}

func cacheTTL(policy CachePolicy, outcome core.Outcome) time.Duration {
	switch outcome {
	case core.OutcomeAvailable:
		return policy.AvailableTTL
	case core.OutcomeTaken:
		return policy.TakenTTL
	case core.OutcomeError, core.OutcomeUnknown:
		return policy.ErrorTTL
	default:
		return 0
	}
}
