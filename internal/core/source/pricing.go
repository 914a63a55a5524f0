package source

import (
	"context"
	"embed"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/domainworth/domainworth/internal/core"
	"github.com/domainworth/domainworth/internal/core/engine"
	"github.com/domainworth/domainworth/internal/govern"
	"github.com/domainworth/domainworth/internal/metrics"
)

const (
	tableSource = "table"
	quoteSource = "registrar"

	// pricingEndpointKey keys the pricing quota when the configured base
	// URL has no resolvable host.
	pricingEndpointKey = "pricing"
)

//go:embed data/pricing.csv
var pricingData embed.FS

var (
	baseRatesOnce sync.Once
	baseRates     map[string]core.PricingRow
	baseRatesErr  error
)

// PricingSource resolves registrar quotes for a name. Live quotes come
// from the configured pricing API; the bundled base table covers the
// common TLDs when the API is unreachable or unconfigured.
type PricingSource struct {
	BaseURL   string
	Client    *http.Client
	Governors *engine.Governors
	Timeout   time.Duration
}

type quotePayload struct {
	TLD         string  `json:"tld"`
	Registrar   string  `json:"registrar"`
	RegisterUSD float64 `json:"register_usd"`
	RenewUSD    float64 `json:"renew_usd"`
	Premium     bool    `json:"premium"`
}

// Quotes returns one pricing row per requested TLD. Rows the live API
// does not cover fall back to the bundled table; TLDs in neither are
// omitted.
func (p *PricingSource) Quotes(ctx context.Context, name string, tlds []string) ([]core.PricingRow, error) {
	if p == nil {
		return nil, errors.New("pricing source is not configured")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	normalized := normalizeTLDs(tlds)
	if len(normalized) == 0 {
		return nil, nil
	}

	live, err := p.liveQuotes(ctx, name, normalized)
	if err != nil && isContextError(err) {
		return nil, err
	}

	table, tableErr := loadBaseRates()
	if tableErr != nil && len(live) == 0 {
		return nil, tableErr
	}

	rows := make([]core.PricingRow, 0, len(normalized))
	for _, tld := range normalized {
		if row, ok := live[tld]; ok {
			rows = append(rows, row)
			continue
		}
		if row, ok := table[tld]; ok {
			rows = append(rows, row)
		}
	}

	return rows, nil
}

func (p *PricingSource) liveQuotes(ctx context.Context, name string, tlds []string) (map[string]core.PricingRow, error) {
	base := strings.TrimSpace(p.BaseURL)
	if base == "" || p.Governors == nil {
		return nil, nil
	}

	endpoint := pricingEndpointKey
	if parsed, err := url.Parse(base); err == nil && parsed.Hostname() != "" {
		endpoint = parsed.Hostname()
	}

	governor, err := p.Governors.For(endpoint)
	if err != nil {
		return nil, err
	}

	attempts := 0
	payload, err := govern.Call(ctx, governor, func(ctx context.Context) ([]quotePayload, error) {
		attempts++
		if attempts > 1 {
			metrics.RecordGovernedRetry(endpoint)
		}
		return p.fetch(ctx, base, endpoint, name, tlds)
	})
	metrics.RecordGovernedCall(endpoint, err == nil)

	if err != nil {
		var exhausted *govern.ExhaustedError
		if errors.As(err, &exhausted) {
			metrics.RecordRetriesExhausted(endpoint)
		}
		return nil, err
	}

	live := make(map[string]core.PricingRow, len(payload))
	for _, quote := range payload {
		tld := strings.ToLower(strings.TrimSpace(quote.TLD))
		if tld == "" {
			continue
		}
		live[tld] = core.PricingRow{
			TLD:         tld,
			Registrar:   quote.Registrar,
			RegisterUSD: quote.RegisterUSD,
			RenewUSD:    quote.RenewUSD,
			Premium:     quote.Premium,
			Source:      quoteSource,
		}
	}

	return live, nil
}

func (p *PricingSource) fetch(ctx context.Context, base, endpoint, name string, tlds []string) ([]quotePayload, error) {
	requestURL := strings.TrimSuffix(base, "/") + "/v1/quotes"

	query := url.Values{}
	query.Set("name", name)
	query.Set("tlds", strings.Join(tlds, ","))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	client := p.Client
	if client == nil {
		timeout := p.Timeout
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

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			RetryAfter: retryAfterHeader(resp.Header),
		}
	}

	var payload []quotePayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode pricing response: %w", err)
	}

	return payload, nil
}

// BaseRates exposes the bundled table for export, sorted by TLD.
func BaseRates() ([]core.PricingRow, error) {
	table, err := loadBaseRates()
	if err != nil {
		return nil, err
	}

	rows := make([]core.PricingRow, 0, len(table))
	for _, row := range table {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].TLD < rows[j].TLD })
	return rows, nil
}

func loadBaseRates() (map[string]core.PricingRow, error) {
	baseRatesOnce.Do(func() {
		file, err := pricingData.Open("data/pricing.csv")
		if err != nil {
			baseRatesErr = err
			return
		}
		defer func() { _ = file.Close() }()

		reader := csv.NewReader(file)
		records, err := reader.ReadAll()
		if err != nil {
			baseRatesErr = fmt.Errorf("parse bundled pricing table: %w", err)
			return
		}

		table := make(map[string]core.PricingRow, len(records))
		for i, record := range records {
			if i == 0 || len(record) < 4 {
				continue
			}
			tld := strings.ToLower(strings.TrimSpace(record[0]))
			register, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
			if err != nil {
				continue
			}
			renew, err := strconv.ParseFloat(strings.TrimSpace(record[3]), 64)
			if err != nil {
				continue
			}
			table[tld] = core.PricingRow{
				TLD:         tld,
				Registrar:   strings.TrimSpace(record[1]),
				RegisterUSD: register,
				RenewUSD:    renew,
				Source:      tableSource,
			}
		}

		baseRates = table
	})

	return baseRates, baseRatesErr
}

func normalizeTLDs(tlds []string) []string {
	seen := make(map[string]bool, len(tlds))
	normalized := make([]string, 0, len(tlds))
	for _, tld := range tlds {
		value := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(tld, ".")))
		if value == "" || seen[value] {
			continue
		}
		seen[value] = true
		normalized = append(normalized, value)
	}
	return normalized
}
