package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/domainworth/domainworth/internal/config"
	"github.com/domainworth/domainworth/internal/core"
	"github.com/domainworth/domainworth/internal/core/engine"
	"github.com/domainworth/domainworth/internal/core/source"
	"github.com/domainworth/domainworth/internal/output"
)

var pricingCmd = &cobra.Command{
	Use:   "pricing",
	Short: "Export registrar pricing as CSV",
	Long: `Export registrar pricing for a set of TLDs as CSV.

By default the bundled rate table is exported. With --live, quotes are
fetched from the configured pricing API (governed per endpoint), with
bundled rates filling any gaps.`,
	RunE: runPricing,
}

func init() {
	rootCmd.AddCommand(pricingCmd)

	pricingCmd.Flags().StringSlice("tlds", nil, "TLDs to include; default all bundled TLDs")
	pricingCmd.Flags().Bool("live", false, "Fetch quotes from the pricing API")
	pricingCmd.Flags().String("name", "", "Candidate name for live premium quotes")
	pricingCmd.Flags().String("out", "", "Write CSV to a file instead of stdout")
}

func runPricing(cmd *cobra.Command, args []string) error {
	tldsRaw, err := cmd.Flags().GetStringSlice("tlds")
	if err != nil {
		return err
	}
	live, err := cmd.Flags().GetBool("live")
	if err != nil {
		return err
	}
	name, err := cmd.Flags().GetString("name")
	if err != nil {
		return err
	}
	outPath, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}

	tlds := normalizeTLDs(tldsRaw)

	var rows []core.PricingRow
	if live {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		if len(tlds) == 0 {
			return errors.New("--live requires --tlds")
		}

		governors := engine.NewGovernors(cfg, source.IsTransient)
		pricing := &source.PricingSource{
			BaseURL:   cfg.Pricing.BaseURL,
			Timeout:   cfg.Pricing.Timeout,
			Governors: governors,
		}

		rows, err = pricing.Quotes(cmd.Context(), name, tlds)
		if err != nil {
			return err
		}
	} else {
		rows, err = source.BaseRates()
		if err != nil {
			return err
		}
		rows = filterPricingRows(rows, tlds)
	}

	out := os.Stdout
	if outPath != "" {
		file, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer file.Close() // nolint:errcheck // best-effort cleanup; write errors surface below
		out = file
	}

	return output.WritePricingCSV(out, rows)
}

func filterPricingRows(rows []core.PricingRow, tlds []string) []core.PricingRow {
	if len(tlds) == 0 {
		return rows
	}

	wanted := make(map[string]struct{}, len(tlds))
	for _, tld := range tlds {
		wanted[tld] = struct{}{}
	}

	filtered := make([]core.PricingRow, 0, len(rows))
	for _, row := range rows {
		if _, ok := wanted[row.TLD]; ok {
			filtered = append(filtered, row)
		}
	}
	return filtered
}
