package source

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/openrdap/rdap"

	"github.com/domainworth/domainworth/internal/core"
	"github.com/domainworth/domainworth/internal/core/engine"
	"github.com/domainworth/domainworth/internal/govern"
	"github.com/domainworth/domainworth/internal/metrics"
)

const rdapSource = "rdap"

// defaultRDAPServers routes the report's supported TLDs to their
// registry RDAP bases. TLDs absent from this map come back as
// unsupported rather than guessed.
var defaultRDAPServers = map[string][]string{
	"com": {"https://rdap.verisign.com/com/v1"},
	"net": {"https://rdap.verisign.com/net/v1"},
	"org": {"https://rdap.publicinterestregistry.org/rdap"},
	"io":  {"https://rdap.nic.io"},
	"dev": {"https://rdap.nic.google"},
	"app": {"https://rdap.nic.google"},
}

// AvailabilitySource resolves domain registration status over RDAP.
// Every request passes through the endpoint's governor, so retries and
// concurrent sections share one admission window per registry.
type AvailabilitySource struct {
	Client      *rdap.Client
	Governors   *engine.Governors
	Cache       Cache
	UseCache    bool
	CachePolicy CachePolicy
	ToolVersion string
	Clock       func() time.Time
	Timeout     time.Duration

	// RDAPServers overrides the default TLD routing. Keys are
	// normalized TLDs without a leading dot.
	RDAPServers map[string][]string
}

// Section returns the report section this source fills.
func (s *AvailabilitySource) Section() core.Section {
	return core.SectionAvailability
}

// SupportsName returns true if the name looks like a full domain.
func (s *AvailabilitySource) SupportsName(name string) bool {
	value := strings.TrimSpace(name)
	return value != "" && strings.Contains(value, ".")
}

type rdapFinding struct {
	outcome core.Outcome
	status  int
	message string
	extra   map[string]any
	server  string
}

// Lookup checks one full domain name against its registry RDAP server.
func (s *AvailabilitySource) Lookup(ctx context.Context, domain string) (*core.SectionResult, error) {
	if s == nil || s.Governors == nil {
		return nil, errors.New("availability source is not configured")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	requestedAt := s.now()

	baseName, tld, err := splitDomain(domain)
	if err != nil {
		return nil, err
	}

	if s.UseCache && s.Cache != nil {
		if cached, err := s.Cache.GetSectionResult(ctx, baseName, core.SectionAvailability, tld); err == nil && cached != nil {
			cached.Name = domain
			cached.Provenance.FromCache = true
			if cached.Provenance.RequestedAt.IsZero() {
				cached.Provenance.RequestedAt = requestedAt
			}
			if cached.Provenance.LookupID == "" {
				cached.Provenance.LookupID = uuid.New().String()
			}
			return cached, nil
		}
	}

	servers := s.serversFor(tld)
	if len(servers) == 0 {
		return s.result(domain, tld, rdapFinding{
			outcome: core.OutcomeUnsupported,
			message: "no rdap server for tld",
		}, requestedAt), nil
	}

	serverURL, err := url.Parse(servers[0])
	if err != nil {
		return nil, fmt.Errorf("invalid rdap server url: %w", err)
	}
	endpoint := serverURL.Hostname()
	requestURL := rdapDomainURL(serverURL, domain)

	governor, err := s.Governors.For(endpoint)
	if err != nil {
		return nil, err
	}

	attempts := 0
	finding, err := govern.Call(ctx, governor, func(ctx context.Context) (rdapFinding, error) {
		attempts++
		if attempts > 1 {
			metrics.RecordGovernedRetry(endpoint)
		}
		return s.query(ctx, serverURL, domain, endpoint, requestURL)
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
		finding = rdapFinding{
			outcome: core.OutcomeError,
			message: err.Error(),
			server:  requestURL,
		}
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			finding.status = statusErr.StatusCode
		}
	}

	result := s.result(domain, tld, finding, requestedAt)
	s.cacheResult(ctx, baseName, result)
	return result, nil
}

func (s *AvailabilitySource) query(ctx context.Context, serverURL *url.URL, domain, endpoint, requestURL string) (rdapFinding, error) {
	client := s.Client
	if client == nil {
		client = &rdap.Client{}
	}

	req := rdap.NewDomainRequest(domain).WithServer(serverURL)
	if s.Timeout > 0 {
		req.Timeout = s.Timeout
	}
	req = req.WithContext(ctx)

	resp, reqErr := client.Do(req)
	status, server := responseStatus(resp, requestURL)

	if reqErr != nil {
		if isNotFound(reqErr) || status == 404 {
			return rdapFinding{
				outcome: core.OutcomeAvailable,
				status:  status,
				message: "rdap not found",
				server:  server,
			}, nil
		}

		if status == 429 || (status >= 500 && status <= 599) {
			return rdapFinding{}, &StatusError{
				Endpoint:   endpoint,
				StatusCode: status,
				RetryAfter: responseRetryAfter(resp),
			}
		}

		return rdapFinding{}, fmt.Errorf("rdap request: %w", reqErr)
	}

	if domainObj, ok := resp.Object.(*rdap.Domain); ok {
		return rdapFinding{
			outcome: core.OutcomeTaken,
			status:  status,
			message: "domain found",
			extra:   domainExtra(domainObj),
			server:  server,
		}, nil
	}

	return rdapFinding{
		outcome: core.OutcomeUnknown,
		status:  status,
		message: "unexpected rdap response",
		server:  server,
	}, nil
}

func (s *AvailabilitySource) result(domain, tld string, finding rdapFinding, requestedAt time.Time) *core.SectionResult {
	return &core.SectionResult{
		Name:       domain,
		Section:    core.SectionAvailability,
		TLD:        tld,
		Outcome:    finding.outcome,
		StatusCode: finding.status,
		Message:    finding.message,
		ExtraData:  finding.extra,
		Provenance: core.Provenance{
			LookupID:    uuid.New().String(),
			RequestedAt: requestedAt,
			ResolvedAt:  s.now(),
			Source:      rdapSource,
			Server:      finding.server,
			ToolVersion: s.ToolVersion,
		},
	}
}

func (s *AvailabilitySource) serversFor(tld string) []string {
	normalized := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(tld, ".")))
	if normalized == "" {
		return nil
	}

	servers := defaultRDAPServers
	if s != nil && s.RDAPServers != nil {
		servers = s.RDAPServers
	}

	return servers[normalized]
}

func (s *AvailabilitySource) cacheResult(ctx context.Context, name string, result *core.SectionResult) {
	if s == nil || s.Cache == nil || !s.UseCache || result == nil {
		return
	}

	policy := s.CachePolicy
	if policy == (CachePolicy{}) {
		policy = DefaultCachePolicy()
	}

	ttl := cacheTTL(policy, result.Outcome)
	if ttl <= 0 {
		return
	}

	_ = s.Cache.SetSectionResult(ctx, name, result, ttl)
}

func (s *AvailabilitySource) now() time.Time {
	if s != nil && s.Clock != nil {
		return s.Clock()
	}
	return time.Now().UTC()
}

func splitDomain(domain string) (string, string, error) {
	value := strings.TrimSpace(domain)
	if value == "" {
		return "", "", errors.New("domain is required")
	}

	parts := strings.Split(value, ".")
	if len(parts) < 2 {
		return "", "", errors.New("domain must include a tld")
	}

	base := strings.ToLower(strings.Join(parts[:len(parts)-1], "."))
	tld := strings.ToLower(parts[len(parts)-1])

	return base, tld, nil
}

func rdapDomainURL(server *url.URL, domain string) string {
	if server == nil {
		return ""
	}

	temp := *server
	temp.RawQuery = ""
	temp.Fragment = ""
	base := temp.String()
	if base == "" {
		return ""
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + "domain/" + strings.TrimSpace(domain)
}

func responseStatus(resp *rdap.Response, fallbackURL string) (int, string) {
	if resp == nil || len(resp.HTTP) == 0 || resp.HTTP[0] == nil || resp.HTTP[0].Response == nil {
		return 0, strings.TrimSpace(fallbackURL)
	}

	hrr := resp.HTTP[0].Response
	requestURL := resp.HTTP[0].URL
	if strings.TrimSpace(requestURL) == "" {
		requestURL = strings.TrimSpace(fallbackURL)
	}

	return hrr.StatusCode, requestURL
}

func responseRetryAfter(resp *rdap.Response) time.Duration {
	if resp == nil || len(resp.HTTP) == 0 || resp.HTTP[0] == nil || resp.HTTP[0].Response == nil {
		return 0
	}
	return retryAfterHeader(resp.HTTP[0].Response.Header)
}

func domainExtra(domain *rdap.Domain) map[string]any {
	if domain == nil {
		return nil
	}

	extra := map[string]any{}
	if len(domain.Status) > 0 {
		extra["status"] = domain.Status
	}

	if registrar := findRegistrar(domain); registrar != "" {
		extra["registrar"] = registrar
	}

	if expiry := findEventDate(domain.Events, "expiration"); expiry != "" {
		extra["expiration"] = expiry
	}

	return extra
}

func findRegistrar(domain *rdap.Domain) string {
	if domain == nil {
		return ""
	}

	for _, entity := range domain.Entities {
		for _, role := range entity.Roles {
			if role == "registrar" && entity.VCard != nil {
				return entity.VCard.Name()
			}
		}
	}

	return ""
}

func findEventDate(events []rdap.Event, action string) string {
	for _, event := range events {
		if event.Action == action {
			return event.Date
		}
	}
	return ""
}

func isNotFound(err error) bool {
	var clientErr *rdap.ClientError
	if !errors.As(err, &clientErr) {
		return false
	}
	return clientErr.Type == rdap.ObjectDoesNotExist
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
