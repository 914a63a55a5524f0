package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/domainworth/domainworth/internal/config"
	"github.com/domainworth/domainworth/internal/core"
	"github.com/domainworth/domainworth/internal/core/engine"
	"github.com/domainworth/domainworth/internal/core/source"
	"github.com/domainworth/domainworth/internal/core/store"
	"github.com/domainworth/domainworth/internal/metrics"
	"github.com/domainworth/domainworth/internal/observability"
	"github.com/domainworth/domainworth/internal/output"
	"github.com/domainworth/domainworth/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report <name>",
	Short: "Appraise a candidate name",
	Long:  "Build a full appraisal report: registration availability, registrar pricing, and community handle status",
	Args:  cobra.ExactArgs(1),
	RunE:  runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringSlice("tlds", core.DefaultProfile().TLDs, "TLDs to check")
	reportCmd.Flags().StringSlice("sections", nil, "Sections to include (availability, pricing, community); default all")
	reportCmd.Flags().String("output", "table", "Output format: table, json, markdown")
	reportCmd.Flags().Bool("no-cache", false, "Skip cache lookup")
	reportCmd.Flags().Bool("no-save", false, "Do not record the report in history")
}

func runReport(cmd *cobra.Command, args []string) error {
	name := strings.ToLower(strings.TrimSpace(args[0]))
	if err := validateName(name); err != nil {
		return err
	}

	tlds, err := cmd.Flags().GetStringSlice("tlds")
	if err != nil {
		return err
	}

	sectionsRaw, err := cmd.Flags().GetStringSlice("sections")
	if err != nil {
		return err
	}

	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return err
	}

	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return err
	}

	profile, err := buildProfile(tlds, sectionsRaw)
	if err != nil {
		return err
	}
	if len(profile.TLDs) == 0 {
		return errors.New("at least one tld is required")
	}

	ctx := cmd.Context()
	startedAt := time.Now()

	db, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer db.Close() // nolint:errcheck // best-effort cleanup; errors logged internally

	cfg := config.GetConfig()
	if cfg == nil {
		return errors.New("config not loaded")
	}

	orchestrator, _ := buildOrchestrator(cfg, db, !noCache)

	result, err := runPipeline(ctx, orchestrator, db, name, profile, !noSave)
	if err != nil {
		return err
	}

	formatValue, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	format, err := output.ParseFormat(formatValue)
	if err != nil {
		return err
	}

	formatter := output.NewFormatter(format)
	rendered, err := formatter.FormatReport(result)
	if err != nil {
		return err
	}
	if rendered != "" {
		fmt.Println(rendered)
	}

	if format != output.FormatJSON {
		logThroughput(len(result.Results), startedAt)
	}
	return nil
}

func validateName(name string) error {
	if len(name) < 1 || len(name) > 63 {
		return errors.New("name must be 1-63 characters")
	}

	matched, err := regexp.MatchString(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`, name)
	if err != nil {
		return fmt.Errorf("name validation failed: %w", err)
	}
	if !matched {
		return errors.New("name must be lowercase alphanumeric with optional hyphens")
	}

	return nil
}

func buildProfile(tlds, sections []string) (core.Profile, error) {
	profile := core.Profile{TLDs: normalizeTLDs(tlds)}

	for _, value := range sections {
		for _, part := range strings.Split(value, ",") {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			section, ok := core.ParseSection(trimmed)
			if !ok {
				return core.Profile{}, fmt.Errorf("unknown section %q", trimmed)
			}
			profile.Sections = append(profile.Sections, section)
		}
	}

	return profile, nil
}

func normalizeTLDs(values []string) []string {
	seen := make(map[string]struct{})
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			tld := strings.ToLower(strings.TrimSpace(part))
			tld = strings.TrimPrefix(tld, ".")
			if tld == "" {
				continue
			}
			seen[tld] = struct{}{}
		}
	}

	result := make([]string, 0, len(seen))
	for tld := range seen {
		result = append(result, tld)
	}
	if len(result) == 0 {
		return nil
	}

	sort.Strings(result)
	return result
}

func resolveGitHubToken() string {
	if token := strings.TrimSpace(os.Getenv("GITHUB_TOKEN")); token != "" {
		return token
	}
	return strings.TrimSpace(os.Getenv("DOMAINWORTH_GITHUB_TOKEN"))
}

func logThroughput(count int, startedAt time.Time) {
	if count <= 0 {
		return
	}
	elapsed := time.Since(startedAt)
	if elapsed <= 0 {
		return
	}
	rate := float64(count) / elapsed.Seconds()
	observability.CLILogger.Info(
		"Report throughput",
		zap.Int("lookups", count),
		zap.Duration("elapsed", elapsed),
		zap.Float64("rate_per_sec", rate),
	)
}

// buildOrchestrator wires the sources behind one shared governor
// registry so concurrent sections stay inside each endpoint's quota.
func buildOrchestrator(cfg *config.Config, db *store.Store, useCache bool) (*engine.Orchestrator, *engine.Governors) {
	governors := engine.NewGovernors(cfg, source.IsTransient)

	cachePolicy := source.CachePolicy{
		AvailableTTL: cfg.Cache.AvailableTTL,
		TakenTTL:     cfg.Cache.TakenTTL,
		ErrorTTL:     cfg.Cache.ErrorTTL,
	}

	availability := &source.AvailabilitySource{
		Governors:   governors,
		Cache:       db,
		UseCache:    useCache,
		CachePolicy: cachePolicy,
		ToolVersion: versionInfo.Version,
	}
	community := &source.CommunitySource{
		Governors:   governors,
		Token:       resolveGitHubToken(),
		ToolVersion: versionInfo.Version,
	}
	pricing := &source.PricingSource{
		BaseURL:   cfg.Pricing.BaseURL,
		Timeout:   cfg.Pricing.Timeout,
		Governors: governors,
	}

	orchestrator := &engine.Orchestrator{
		Sources: []engine.Source{availability, community},
		Pricing: pricing,
		Workers: cfg.Workers,
	}

	return orchestrator, governors
}

// runPipeline collects sections, assembles the report, and records it
// in history. History failures are logged but never fail the report.
func runPipeline(ctx context.Context, orchestrator *engine.Orchestrator, db *store.Store, name string, profile core.Profile, save bool) (*core.Report, error) {
	startedAt := time.Now()

	results, pricing, err := orchestrator.Collect(ctx, name, profile)
	if err != nil {
		metrics.RecordReport(false, time.Since(startedAt))
		return nil, err
	}

	result := report.Build(name, results, pricing, report.BuildOptions{ToolVersion: versionInfo.Version})
	metrics.RecordReport(true, time.Since(startedAt))

	if save && db != nil {
		if err := db.SaveReport(ctx, result); err != nil {
			observability.CLILogger.Warn("Report history write failed", zap.Error(err))
		}
	}

	return result, nil
}
