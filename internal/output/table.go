package output

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/domainworth/domainworth/internal/core"
)

// TableFormatter renders a report as ASCII tables.
type TableFormatter struct{}

// FormatReport renders the section table, the pricing table, and the
// narrative lines.
func (f *TableFormatter) FormatReport(report *core.Report) (string, error) {
	if report == nil {
		return "", nil
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetTitle(report.Name)
	t.AppendHeader(table.Row{"Section", "Name", "Status", "Notes"})

	for _, r := range report.Results {
		if r == nil {
			continue
		}
		t.AppendRow(table.Row{
			string(r.Section),
			displayName(r),
			statusLabel(r),
			formatNotes(r),
		})
	}

	verdict := fmt.Sprintf("grade %s (%d/100)", report.Appraisal.Grade, report.Appraisal.Score)
	if report.Appraisal.Generic {
		verdict = "withheld: " + strings.Join(report.Appraisal.GenericReasons, "; ")
	}
	t.AppendFooter(table.Row{"", "", verdict, ""})

	rendered := t.Render()

	if len(report.Pricing) > 0 {
		p := table.NewWriter()
		p.SetStyle(table.StyleRounded)
		p.AppendHeader(table.Row{"TLD", "Registrar", "Register/Renew", "Source"})
		for _, row := range report.Pricing {
			p.AppendRow(table.Row{"." + row.TLD, row.Registrar, priceCell(row), row.Source})
		}
		rendered += "\n" + p.Render()
	}

	if len(report.Narrative) > 0 {
		rendered += "\n\n" + strings.Join(report.Narrative, "\n")
	}

	return rendered, nil
}
