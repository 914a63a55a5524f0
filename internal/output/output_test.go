package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/domainworth/domainworth/internal/core"
)

func sampleReport() *core.Report {
	return &core.Report{
		Name:        "mint",
		GeneratedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Results: []*core.SectionResult{
			{
				Section: core.SectionAvailability,
				Name:    "mint.com",
				TLD:     "com",
				Outcome: core.OutcomeAvailable,
			},
			{
				Section:   core.SectionAvailability,
				Name:      "mint.io",
				TLD:       "io",
				Outcome:   core.OutcomeTaken,
				ExtraData: map[string]any{"registrar": "Acme Registrar", "expiration": "2026-12-26T00:00:00Z"},
			},
			{
				Section:   core.SectionCommunity,
				Name:      "mint",
				Outcome:   core.OutcomeTaken,
				ExtraData: map[string]any{"account_type": "User", "followers": 42},
			},
		},
		Pricing: []core.PricingRow{
			{TLD: "com", Registrar: "baseline", RegisterUSD: 10.44, RenewUSD: 10.44, Source: "table"},
			{TLD: "io", Registrar: "acme", RegisterUSD: 44, RenewUSD: 56, Premium: true, Source: "registrar"},
		},
		Appraisal: core.Appraisal{Score: 90, Grade: "A", Signals: []string{".com available"}},
		Narrative: []string{"Available: mint.com", "Verdict: grade A (score 90/100)"},
	}
}

func TestParseFormat(t *testing.T) {
	format, err := ParseFormat("")
	require.NoError(t, err)
	require.Equal(t, FormatTable, format)

	format, err = ParseFormat(" JSON ")
	require.NoError(t, err)
	require.Equal(t, FormatJSON, format)

	format, err = ParseFormat("markdown")
	require.NoError(t, err)
	require.Equal(t, FormatMarkdown, format)

	_, err = ParseFormat("yaml")
	require.Error(t, err)
}

func TestTableFormatter(t *testing.T) {
	rendered, err := (&TableFormatter{}).FormatReport(sampleReport())
	require.NoError(t, err)
	require.Contains(t, rendered, "mint.com")
	require.Contains(t, rendered, "available")
	require.Contains(t, rendered, "@mint")
	require.Contains(t, rendered, "registrar: Acme Registrar")
	require.Contains(t, rendered, "grade A (90/100)")
	require.Contains(t, rendered, "$44.00/$56.00 (premium)")
	require.Contains(t, rendered, "Verdict: grade A (score 90/100)")
}

func TestTableFormatterWithheldVerdict(t *testing.T) {
	report := sampleReport()
	report.Appraisal.Generic = true
	report.Appraisal.GenericReasons = []string{"keyword stuffing"}

	rendered, err := (&TableFormatter{}).FormatReport(report)
	require.NoError(t, err)
	require.Contains(t, rendered, "withheld: keyword stuffing")
}

func TestJSONFormatterRoundTrips(t *testing.T) {
	rendered, err := (&JSONFormatter{Indent: true}).FormatReport(sampleReport())
	require.NoError(t, err)

	var decoded core.Report
	require.NoError(t, json.Unmarshal([]byte(rendered), &decoded))
	require.Equal(t, "mint", decoded.Name)
	require.Len(t, decoded.Results, 3)
	require.Equal(t, 90, decoded.Appraisal.Score)
}

func TestMarkdownFormatter(t *testing.T) {
	rendered, err := (&MarkdownFormatter{}).FormatReport(sampleReport())
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(rendered, "## mint appraisal"))
	require.Contains(t, rendered, "| availability | mint.com | available |")
	require.Contains(t, rendered, "| .io | acme |")
	require.Contains(t, rendered, "**Verdict**: grade A (90/100)")
	require.Contains(t, rendered, "- Available: mint.com")
}

func TestFormattersHandleNilReport(t *testing.T) {
	for _, format := range []Format{FormatTable, FormatJSON, FormatMarkdown} {
		rendered, err := NewFormatter(format).FormatReport(nil)
		require.NoError(t, err)
		require.Empty(t, rendered)
	}
}

func TestWritePricingCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePricingCSV(&buf, sampleReport().Pricing))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "tld,registrar,register_usd,renew_usd,premium,source", lines[0])
	require.Equal(t, "com,baseline,10.44,10.44,false,table", lines[1])
	require.Equal(t, "io,acme,44.00,56.00,true,registrar", lines[2])
}
