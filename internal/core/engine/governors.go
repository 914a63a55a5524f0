package engine

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/domainworth/domainworth/internal/config"
	"github.com/domainworth/domainworth/internal/govern"
)

// Default retry policy values applied when the config leaves them unset.
const (
	defaultMaxAttempts   = 3
	defaultInitialDelay  = 2 * time.Second
	defaultBackoffFactor = 2.0
)

// Governors owns one govern.Governor per endpoint host, built lazily
// from config. All report sections targeting the same endpoint share
// the same limiter, which is what keeps concurrent sections inside the
// provider quota.
type Governors struct {
	cfg       *config.Config
	retryable func(error) bool
	clock     govern.Clock

	mu         sync.Mutex
	byEndpoint map[string]*govern.Governor
}

// NewGovernors builds a registry. The retryable predicate classifies
// which failures are worth re-attempting; it is shared by every
// endpoint's retry policy.
func NewGovernors(cfg *config.Config, retryable func(error) bool) *Governors {
	return &Governors{
		cfg:        cfg,
		retryable:  retryable,
		byEndpoint: make(map[string]*govern.Governor),
	}
}

// WithGovernorClock substitutes the registry clock, for tests.
func (g *Governors) WithGovernorClock(clock govern.Clock) *Governors {
	g.clock = clock
	return g
}

// For returns the governor for an endpoint host, creating it on first
// use. The same instance is returned for every subsequent call.
func (g *Governors) For(endpoint string) (*govern.Governor, error) {
	endpoint = strings.ToLower(strings.TrimSpace(endpoint))
	if endpoint == "" {
		return nil, errors.New("endpoint is required")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if governor, ok := g.byEndpoint[endpoint]; ok {
		return governor, nil
	}

	limit := g.cfg.RateLimitFor(endpoint)
	limiterCfg := govern.LimiterConfig{
		Capacity:      limit.Capacity,
		Window:        limit.Window,
		ReadmitBuffer: g.cfg.RateLimitBuffer,
	}

	policy := g.retryPolicy()

	var governor *govern.Governor
	if g.clock != nil {
		limiter, err := govern.NewSlidingWindowLimiter(limiterCfg, govern.WithClock(g.clock))
		if err != nil {
			return nil, err
		}
		retrier, err := govern.NewBackoffRetrier(policy, govern.WithRetrierClock(g.clock))
		if err != nil {
			return nil, err
		}
		governor = govern.Compose(limiter, retrier)
	} else {
		var err error
		governor, err = govern.NewGovernor(limiterCfg, policy)
		if err != nil {
			return nil, err
		}
	}

	g.byEndpoint[endpoint] = governor
	return governor, nil
}

func (g *Governors) retryPolicy() govern.RetryPolicy {
	policy := govern.RetryPolicy{
		MaxAttempts:   defaultMaxAttempts,
		InitialDelay:  defaultInitialDelay,
		BackoffFactor: defaultBackoffFactor,
		Retryable:     g.retryable,
	}

	if g.cfg == nil {
		return policy
	}

	if g.cfg.Retry.MaxAttempts > 0 {
		policy.MaxAttempts = g.cfg.Retry.MaxAttempts
	}
	if g.cfg.Retry.InitialDelay > 0 {
		policy.InitialDelay = g.cfg.Retry.InitialDelay
	}
	if g.cfg.Retry.BackoffFactor >= 1 {
		policy.BackoffFactor = g.cfg.Retry.BackoffFactor
	}

	return policy
}

// EndpointUsage describes live window usage for one endpoint's limiter.
type EndpointUsage struct {
	Endpoint string
	Used     int
	Capacity int
	Window   time.Duration
}

// Usage reports live window usage for every endpoint touched so far,
// sorted by endpoint name.
func (g *Governors) Usage() []EndpointUsage {
	g.mu.Lock()
	defer g.mu.Unlock()

	usage := make([]EndpointUsage, 0, len(g.byEndpoint))
	for endpoint, governor := range g.byEndpoint {
		used, capacity := governor.Limiter().Usage()
		usage = append(usage, EndpointUsage{
			Endpoint: endpoint,
			Used:     used,
			Capacity: capacity,
			Window:   governor.Limiter().Window(),
		})
	}

	sort.Slice(usage, func(i, j int) bool { return usage[i].Endpoint < usage[j].Endpoint })
	return usage
}
