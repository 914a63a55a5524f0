package cmd

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/domainworth/domainworth/internal/output"
)

var historyCmd = &cobra.Command{
	Use:   "history [name]",
	Short: "Show stored appraisal reports",
	Long:  "List previously generated reports, newest first. With a name, only that name's history is shown.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().Int("limit", 10, "Maximum number of reports to show")
	historyCmd.Flags().String("output", "table", "Output format: table, json")
}

func runHistory(cmd *cobra.Command, args []string) error {
	name := ""
	if len(args) == 1 {
		name = strings.ToLower(strings.TrimSpace(args[0]))
		if err := validateName(name); err != nil {
			return err
		}
	}

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	formatValue, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	db, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer db.Close() // nolint:errcheck // best-effort cleanup; errors logged internally

	reports, err := db.RecentReports(ctx, name, limit)
	if err != nil {
		return err
	}

	if formatValue == string(output.FormatJSON) {
		formatter := output.NewFormatter(output.FormatJSON)
		for _, stored := range reports {
			rendered, err := formatter.FormatReport(stored)
			if err != nil {
				return err
			}
			fmt.Println(rendered)
		}
		return nil
	}

	if len(reports) == 0 {
		fmt.Println("No stored reports")
		return nil
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Name", "Score", "Grade", "Generic", "Generated"})
	for _, stored := range reports {
		if stored == nil {
			continue
		}
		t.AppendRow(table.Row{
			stored.Name,
			stored.Appraisal.Score,
			stored.Appraisal.Grade,
			stored.Appraisal.Generic,
			stored.GeneratedAt.UTC().Format("2006-01-02 15:04:05"),
		})
	}

	fmt.Println(t.Render())
	return nil
}
