package output

import (
	"fmt"
	"strings"

	"github.com/domainworth/domainworth/internal/core"
)

// MarkdownFormatter renders a report as markdown tables.
type MarkdownFormatter struct{}

// FormatReport renders the report for embedding in docs or issues.
func (f *MarkdownFormatter) FormatReport(report *core.Report) (string, error) {
	if report == nil {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## %s appraisal\n\n", escapeMarkdownCell(report.Name)))
	sb.WriteString("| Section | Name | Status | Notes |\n")
	sb.WriteString("|---------|------|--------|-------|\n")

	for _, r := range report.Results {
		if r == nil {
			continue
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
			escapeMarkdownCell(string(r.Section)),
			escapeMarkdownCell(displayName(r)),
			escapeMarkdownCell(statusLabel(r)),
			escapeMarkdownCell(formatNotes(r)),
		))
	}

	if len(report.Pricing) > 0 {
		sb.WriteString("\n| TLD | Registrar | Register/Renew | Source |\n")
		sb.WriteString("|-----|-----------|----------------|--------|\n")
		for _, row := range report.Pricing {
			sb.WriteString(fmt.Sprintf("| .%s | %s | %s | %s |\n",
				escapeMarkdownCell(row.TLD),
				escapeMarkdownCell(row.Registrar),
				escapeMarkdownCell(priceCell(row)),
				escapeMarkdownCell(row.Source),
			))
		}
	}

	if report.Appraisal.Generic {
		sb.WriteString(fmt.Sprintf("\n**Verdict**: withheld (%s)\n",
			escapeMarkdownCell(strings.Join(report.Appraisal.GenericReasons, "; "))))
	} else {
		sb.WriteString(fmt.Sprintf("\n**Verdict**: grade %s (%d/100)\n",
			report.Appraisal.Grade, report.Appraisal.Score))
	}

	for _, line := range report.Narrative {
		sb.WriteString(fmt.Sprintf("- %s\n", escapeMarkdownCell(line)))
	}

	return sb.String(), nil
}

func escapeMarkdownCell(value string) string {
	return strings.ReplaceAll(value, "|", "\\|")
}
