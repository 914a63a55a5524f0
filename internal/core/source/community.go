package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/domainworth/domainworth/internal/core"
	"github.com/domainworth/domainworth/internal/core/engine"
	"github.com/domainworth/domainworth/internal/govern"
	"github.com/domainworth/domainworth/internal/metrics"
)

const (
	githubSource  = "github"
	githubBaseURL = "https://api.github.com"
)

// CommunitySource checks whether the bare name is taken as a GitHub
// handle. A matching free handle is a small branding signal for the
// appraisal.
type CommunitySource struct {
	BaseURL     string
	Client      *http.Client
	Governors   *engine.Governors
	Token       string
	ToolVersion string
	Clock       func() time.Time
	Timeout     time.Duration
}

type githubUser struct {
	Login     string `json:"login"`
	Type      string `json:"type"`
	CreatedAt string `json:"created_at"`
	Followers int    `json:"followers"`
}

// Section returns the report section this source fills.
func (s *CommunitySource) Section() core.Section {
	return core.SectionCommunity
}

// SupportsName returns true if the name is usable as a handle. GitHub
// allows letters, digits, and interior hyphens, up to 39 characters.
func (s *CommunitySource) SupportsName(name string) bool {
	value := strings.TrimSpace(name)
	if value == "" || len(value) > 39 {
		return false
	}
	if strings.HasPrefix(value, "-") || strings.HasSuffix(value, "-") {
		return false
	}
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-':
		default:
			return false
		}
	}
	return true
}

// Lookup resolves the handle via the GitHub users API.
func (s *CommunitySource) Lookup(ctx context.Context, name string) (*core.SectionResult, error) {
	if s == nil || s.Governors == nil {
		return nil, errors.New("community source is not configured")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	requestedAt := s.now()
	handle := strings.TrimSpace(name)

	base := strings.TrimSpace(s.BaseURL)
	if base == "" {
		base = githubBaseURL
	}

	endpoint := "api.github.com"
	if parsed, err := url.Parse(base); err == nil && parsed.Hostname() != "" {
		endpoint = parsed.Hostname()
	}

	governor, err := s.Governors.For(endpoint)
	if err != nil {
		return nil, err
	}

	attempts := 0
	result, err := govern.Call(ctx, governor, func(ctx context.Context) (*core.SectionResult, error) {
		attempts++
		if attempts > 1 {
			metrics.RecordGovernedRetry(endpoint)
		}
		return s.query(ctx, base, endpoint, handle, requestedAt)
	})
	metrics.RecordGovernedCall(endpoint, err == nil)

	if err != nil {
		if isContextError(err) {
			return nil, err
		}
		var exhausted *govern.ExhaustedError
		if errors.As(err, &exhausted) {
			metrics.RecordRetriesExhausted(endpoint)
		}

		status := 0
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			status = statusErr.StatusCode
		}
		return s.result(handle, core.OutcomeError, status, err.Error(), nil, requestedAt, ""), nil
	}

	return result, nil
}

func (s *CommunitySource) query(ctx context.Context, base, endpoint, handle string, requestedAt time.Time) (*core.SectionResult, error) {
	requestURL := strings.TrimSuffix(base, "/") + "/users/" + url.PathEscape(handle)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if s.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	client := s.Client
	if client == nil {
		timeout := s.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return s.result(handle, core.OutcomeAvailable, resp.StatusCode, "handle not found", nil, requestedAt, requestURL), nil

	case resp.StatusCode == http.StatusOK:
		var user githubUser
		if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
			return nil, fmt.Errorf("decode github response: %w", err)
		}

		extra := map[string]any{}
		if user.Login != "" {
			extra["login"] = user.Login
		}
		if user.Type != "" {
			extra["account_type"] = user.Type
		}
		if user.CreatedAt != "" {
			extra["created_at"] = user.CreatedAt
		}
		if user.Followers > 0 {
			extra["followers"] = user.Followers
		}
		return s.result(handle, core.OutcomeTaken, resp.StatusCode, "handle taken", extra, requestedAt, requestURL), nil

	case resp.StatusCode == http.StatusTooManyRequests,
		resp.StatusCode == http.StatusForbidden && resp.Header.Get("X-RateLimit-Remaining") == "0",
		resp.StatusCode >= 500 && resp.StatusCode <= 599:
		return nil, &StatusError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			RetryAfter: retryAfterHeader(resp.Header),
		}

	default:
		return s.result(handle, core.OutcomeUnknown, resp.StatusCode, fmt.Sprintf("unexpected github status %d", resp.StatusCode), nil, requestedAt, requestURL), nil
	}
}

func (s *CommunitySource) result(handle string, outcome core.Outcome, status int, message string, extra map[string]any, requestedAt time.Time, server string) *core.SectionResult {
	return &core.SectionResult{
		Name:       handle,
		Section:    core.SectionCommunity,
		Outcome:    outcome,
		StatusCode: status,
		Message:    message,
		ExtraData:  extra,
		Provenance: core.Provenance{
			LookupID:    uuid.New().String(),
			RequestedAt: requestedAt,
			ResolvedAt:  s.now(),
			Source:      githubSource,
			Server:      server,
			ToolVersion: s.ToolVersion,
		},
	}
}

func (s *CommunitySource) now() time.Time {
	if s != nil && s.Clock != nil {
		return s.Clock()
	}
	return time.Now().UTC()
}
