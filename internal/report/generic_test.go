package report

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/domainworth/domainworth/internal/core"
)

func TestDetectGenericKeywordStuffing(t *testing.T) {
	generic, reasons := DetectGeneric("best-shop-online", nil)
	require.True(t, generic)
	require.Contains(t, reasons, "keyword stuffing")
	require.Contains(t, reasons, "hyphen chain")
}

func TestDetectGenericUnhyphenatedStuffing(t *testing.T) {
	generic, reasons := DetectGeneric("bestshoponline", nil)
	require.True(t, generic)
	require.Contains(t, reasons, "keyword stuffing")
}

func TestDetectGenericNumericName(t *testing.T) {
	generic, reasons := DetectGeneric("123456", nil)
	require.True(t, generic)
	require.Contains(t, reasons, "numeric name")
}

func TestDetectGenericUnresolvedResults(t *testing.T) {
	results := []*core.SectionResult{
		{Section: core.SectionAvailability, Outcome: core.OutcomeError},
		{Section: core.SectionCommunity, Outcome: core.OutcomeUnknown},
	}
	generic, reasons := DetectGeneric("mint", results)
	require.True(t, generic)
	require.Contains(t, reasons, "no resolvable signals")
}

func TestDetectGenericBrandableName(t *testing.T) {
	results := []*core.SectionResult{
		{Section: core.SectionAvailability, TLD: "com", Outcome: core.OutcomeAvailable},
	}
	generic, reasons := DetectGeneric("mint", results)
	require.False(t, generic)
	require.Empty(t, reasons)
}

func TestDetectGenericCompoundNotStuffed(t *testing.T) {
	generic, _ := DetectGeneric("cloudbase", nil)
	require.False(t, generic)
}

func TestDetectGenericEmptyName(t *testing.T) {
	generic, reasons := DetectGeneric("  ", nil)
	require.True(t, generic)
	require.Equal(t, []string{"empty name"}, reasons)
}
