package report

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/domainworth/domainworth/internal/core"
)

func TestScoreShortDictionaryWord(t *testing.T) {
	appraisal := Score("mint", nil)
	require.Equal(t, 82, appraisal.Score)
	require.Equal(t, "B", appraisal.Grade)
	require.Contains(t, appraisal.Signals, "very short name")
	require.Contains(t, appraisal.Signals, "dictionary word")
}

func TestScoreComAvailabilityBoost(t *testing.T) {
	results := []*core.SectionResult{
		{Section: core.SectionAvailability, TLD: "com", Outcome: core.OutcomeAvailable, Name: "mint.com"},
	}
	appraisal := Score("mint", results)
	require.Equal(t, 97, appraisal.Score)
	require.Equal(t, "A", appraisal.Grade)
	require.Contains(t, appraisal.Signals, ".com available")
}

func TestScorePenalizesHyphensAndDigits(t *testing.T) {
	appraisal := Score("my-shop-24", nil)
	require.Less(t, appraisal.Score, 50)
	require.Contains(t, appraisal.Signals, "2 hyphen(s)")
	require.Contains(t, appraisal.Signals, "2 digit(s)")
}

func TestScoreCompoundWord(t *testing.T) {
	appraisal := Score("cloudbase", nil)
	require.Contains(t, appraisal.Signals, "compound of dictionary words")
}

func TestScoreCommunitySignals(t *testing.T) {
	free := Score("mint", []*core.SectionResult{
		{Section: core.SectionCommunity, Outcome: core.OutcomeAvailable, Name: "mint"},
	})
	taken := Score("mint", []*core.SectionResult{
		{Section: core.SectionCommunity, Outcome: core.OutcomeTaken, Name: "mint"},
	})
	require.Greater(t, free.Score, taken.Score)
}

func TestScoreClampedToRange(t *testing.T) {
	appraisal := Score("a-b-c-d-e-1-2-3-4-5-very-long-keyword-chain", nil)
	require.GreaterOrEqual(t, appraisal.Score, 0)
	require.LessOrEqual(t, appraisal.Score, 100)
}

func TestScoreDeterministic(t *testing.T) {
	results := []*core.SectionResult{
		{Section: core.SectionAvailability, TLD: "io", Outcome: core.OutcomeAvailable, Name: "mint.io"},
	}
	first := Score("mint", results)
	second := Score("mint", results)
	require.Equal(t, first, second)
}

func TestGrades(t *testing.T) {
	require.Equal(t, "A", grade(90))
	require.Equal(t, "B", grade(70))
	require.Equal(t, "C", grade(60))
	require.Equal(t, "D", grade(40))
	require.Equal(t, "F", grade(10))
}
