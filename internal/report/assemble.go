package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/domainworth/domainworth/internal/core"
)

// BuildOptions carries the assembly knobs the caller owns.
type BuildOptions struct {
	ToolVersion string
	Clock       func() time.Time
}

// Build composes the collected section results and pricing rows into a
// finished report with appraisal and narrative.
func Build(name string, results []*core.SectionResult, pricing []core.PricingRow, opts BuildOptions) *core.Report {
	name = strings.ToLower(strings.TrimSpace(name))

	sorted := make([]*core.SectionResult, 0, len(results))
	for _, result := range results {
		if result != nil {
			sorted = append(sorted, result)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Section != sorted[j].Section {
			return sectionRank(sorted[i].Section) < sectionRank(sorted[j].Section)
		}
		return sorted[i].Name < sorted[j].Name
	})

	rows := make([]core.PricingRow, len(pricing))
	copy(rows, pricing)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].TLD < rows[j].TLD })

	appraisal := Score(name, sorted)
	appraisal.Generic, appraisal.GenericReasons = DetectGeneric(name, sorted)

	now := time.Now().UTC()
	if opts.Clock != nil {
		now = opts.Clock()
	}

	return &core.Report{
		Name:        name,
		GeneratedAt: now,
		Results:     sorted,
		Pricing:     rows,
		Appraisal:   appraisal,
		Narrative:   narrative(name, sorted, rows, appraisal),
		ToolVersion: opts.ToolVersion,
	}
}

func sectionRank(section core.Section) int {
	switch section {
	case core.SectionAvailability:
		return 0
	case core.SectionPricing:
		return 1
	case core.SectionCommunity:
		return 2
	default:
		return 3
	}
}

// narrative renders the human-readable summary lines. Flagged-generic
// reports keep the factual lines and withhold the verdict.
func narrative(name string, results []*core.SectionResult, pricing []core.PricingRow, appraisal core.Appraisal) []string {
	var lines []string

	var available, taken []string
	for _, result := range results {
		if result.Section != core.SectionAvailability {
			continue
		}
		switch result.Outcome {
		case core.OutcomeAvailable:
			available = append(available, result.Name)
		case core.OutcomeTaken:
			taken = append(taken, result.Name)
		}
	}
	if len(available) > 0 {
		lines = append(lines, "Available: "+strings.Join(available, ", "))
	}
	if len(taken) > 0 {
		lines = append(lines, "Taken: "+strings.Join(taken, ", "))
	}

	if row, ok := cheapestRow(pricing); ok {
		lines = append(lines, fmt.Sprintf("Registration from $%.2f/yr (.%s)", row.RegisterUSD, row.TLD))
	}

	for _, result := range results {
		if result.Section != core.SectionCommunity {
			continue
		}
		switch result.Outcome {
		case core.OutcomeAvailable:
			lines = append(lines, fmt.Sprintf("Handle %q is free on GitHub", name))
		case core.OutcomeTaken:
			lines = append(lines, fmt.Sprintf("Handle %q is taken on GitHub", name))
		}
	}

	if appraisal.Generic {
		lines = append(lines, "Verdict withheld: "+strings.Join(appraisal.GenericReasons, "; "))
	} else {
		lines = append(lines, fmt.Sprintf("Verdict: grade %s (score %d/100)", appraisal.Grade, appraisal.Score))
	}

	return lines
}

func cheapestRow(pricing []core.PricingRow) (core.PricingRow, bool) {
	var best core.PricingRow
	found := false
	for _, row := range pricing {
		if !found || row.RegisterUSD < best.RegisterUSD {
			best = row
			found = true
		}
	}
	return best, found
}
