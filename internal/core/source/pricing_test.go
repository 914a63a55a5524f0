package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPricingQuotesFromBundledTable(t *testing.T) {
	src := &PricingSource{}

	rows, err := src.Quotes(context.Background(), "example", []string{"com", ".io"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "com", rows[0].TLD)
	require.Equal(t, tableSource, rows[0].Source)
	require.InDelta(t, 10.44, rows[0].RegisterUSD, 0.001)
	require.Equal(t, "io", rows[1].TLD)
}

func TestPricingQuotesFromLiveAPI(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "example", r.URL.Query().Get("name"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"tld":"com","registrar":"acme","register_usd":9.99,"renew_usd":14.99,"premium":false}]`))
	}))
	defer server.Close()

	src := &PricingSource{
		BaseURL:   server.URL,
		Client:    server.Client(),
		Governors: newTestGovernors(nil),
	}

	rows, err := src.Quotes(context.Background(), "example", []string{"com"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, quoteSource, rows[0].Source)
	require.Equal(t, "acme", rows[0].Registrar)
	require.InDelta(t, 9.99, rows[0].RegisterUSD, 0.001)
}

func TestPricingLiveAPIFillsGapsFromTable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"tld":"com","registrar":"acme","register_usd":9.99,"renew_usd":14.99}]`))
	}))
	defer server.Close()

	src := &PricingSource{
		BaseURL:   server.URL,
		Client:    server.Client(),
		Governors: newTestGovernors(nil),
	}

	rows, err := src.Quotes(context.Background(), "example", []string{"com", "io"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, quoteSource, rows[0].Source)
	require.Equal(t, tableSource, rows[1].Source)
}

func TestPricingFallsBackWhenAPIFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	src := &PricingSource{
		BaseURL:   server.URL,
		Client:    server.Client(),
		Governors: newTestGovernors(nil),
	}

	rows, err := src.Quotes(context.Background(), "example", []string{"com"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, tableSource, rows[0].Source)
}

func TestPricingSkipsUnknownTLDs(t *testing.T) {
	src := &PricingSource{}

	rows, err := src.Quotes(context.Background(), "example", []string{"zz"})
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestPricingCancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &PricingSource{
		BaseURL:   server.URL,
		Client:    server.Client(),
		Governors: newTestGovernors(nil),
	}

	_, err := src.Quotes(ctx, "example", []string{"com"})
	require.ErrorIs(t, err, context.Canceled)
}

func TestBaseRatesSorted(t *testing.T) {
	rows, err := BaseRates()
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	for i := 1; i < len(rows); i++ {
		require.Less(t, rows[i-1].TLD, rows[i].TLD)
	}
}
