package cmd

import (
	"fmt"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/domainworth/domainworth/internal/config"
)

var limitsCmd = &cobra.Command{
	Use:   "limits",
	Short: "Show effective admission quotas",
	Long: `Show the effective per-endpoint admission quotas and the retry policy.

Endpoint quotas merge config overrides over the built-in defaults.
Window usage is tracked in memory per process, so this command shows
configuration, not live counters.`,
	RunE: runLimits,
}

func init() {
	rootCmd.AddCommand(limitsCmd)
}

func runLimits(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	endpoints := make(map[string]struct{}, len(config.DefaultRateLimits)+len(cfg.RateLimits))
	for endpoint := range config.DefaultRateLimits {
		endpoints[endpoint] = struct{}{}
	}
	for endpoint := range cfg.RateLimits {
		endpoints[endpoint] = struct{}{}
	}

	names := make([]string, 0, len(endpoints))
	for endpoint := range endpoints {
		names = append(names, endpoint)
	}
	sort.Strings(names)

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetTitle("admission quotas")
	t.AppendHeader(table.Row{"Endpoint", "Capacity", "Window", "Source"})
	for _, endpoint := range names {
		limit := cfg.RateLimitFor(endpoint)
		origin := "default"
		if override, ok := cfg.RateLimits[endpoint]; ok && override.Capacity > 0 && override.Window > 0 {
			origin = "config"
		}
		t.AppendRow(table.Row{endpoint, limit.Capacity, limit.Window, origin})
	}
	fmt.Println(t.Render())

	retry := table.NewWriter()
	retry.SetStyle(table.StyleRounded)
	retry.SetTitle("retry policy")
	retry.AppendHeader(table.Row{"Max Attempts", "Initial Delay", "Backoff Factor", "Readmit Buffer"})
	retry.AppendRow(table.Row{cfg.Retry.MaxAttempts, cfg.Retry.InitialDelay, cfg.Retry.BackoffFactor, cfg.RateLimitBuffer})
	fmt.Println(retry.Render())

	return nil
}
