package engine

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/domainworth/domainworth/internal/core"
)

const defaultWorkers = 4

// Source resolves one report section for a candidate name.
type Source interface {
	Section() core.Section
	SupportsName(name string) bool
	Lookup(ctx context.Context, name string) (*core.SectionResult, error)
}

// PricingProvider resolves registrar quotes for a base name across TLDs.
type PricingProvider interface {
	Quotes(ctx context.Context, name string, tlds []string) ([]core.PricingRow, error)
}

// Orchestrator fans a report's lookups out over a bounded worker pool.
// Sources are expected to do their own admission control, so the pool
// bound only caps in-flight work, it does not substitute for governors.
type Orchestrator struct {
	Sources []Source
	Pricing PricingProvider
	Workers int
	Clock   func() time.Time
}

type lookupTask struct {
	source    Source
	candidate string
}

// Collect resolves every section the profile asks for and returns the
// section results in a deterministic order alongside pricing rows.
// Individual lookup failures are folded into error-outcome results
// rather than aborting the report; only context cancellation aborts.
func (o *Orchestrator) Collect(ctx context.Context, name string, profile core.Profile) ([]*core.SectionResult, []core.PricingRow, error) {
	if o == nil {
		return nil, nil, errors.New("orchestrator is not configured")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	base := strings.ToLower(strings.TrimSpace(name))
	if base == "" {
		return nil, nil, errors.New("name is required")
	}
	if len(profile.TLDs) == 0 && len(profile.Sections) == 0 {
		profile = core.DefaultProfile()
	}

	tasks := o.buildTasks(base, profile)

	results := make([]*core.SectionResult, len(tasks))
	jobs := make(chan int)

	workers := o.Workers
	if workers < 1 {
		workers = defaultWorkers
	}
	if workers > len(tasks) && len(tasks) > 0 {
		workers = len(tasks)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				task := tasks[idx]
				results[idx] = o.runLookup(ctx, task)
			}
		}()
	}

	var (
		pricing    []core.PricingRow
		pricingErr error
	)
	if o.Pricing != nil && profile.Wants(core.SectionPricing) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pricing, pricingErr = o.Pricing.Quotes(ctx, base, profile.TLDs)
		}()
	}

	for idx := range tasks {
		select {
		case jobs <- idx:
		case <-ctx.Done():
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if pricingErr != nil && isContextError(pricingErr) {
		return nil, nil, pricingErr
	}

	collected := make([]*core.SectionResult, 0, len(results))
	for _, result := range results {
		if result != nil {
			collected = append(collected, result)
		}
	}

	return collected, pricing, nil
}

func (o *Orchestrator) buildTasks(base string, profile core.Profile) []lookupTask {
	var tasks []lookupTask
	for _, src := range o.Sources {
		if src == nil || !profile.Wants(src.Section()) {
			continue
		}

		if src.Section() == core.SectionAvailability {
			for _, tld := range profile.TLDs {
				normalized := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(tld), ".")))
				if normalized == "" {
					continue
				}
				candidate := base + "." + normalized
				if src.SupportsName(candidate) {
					tasks = append(tasks, lookupTask{source: src, candidate: candidate})
				}
			}
			continue
		}

		if src.SupportsName(base) {
			tasks = append(tasks, lookupTask{source: src, candidate: base})
		}
	}
	return tasks
}

func (o *Orchestrator) runLookup(ctx context.Context, task lookupTask) *core.SectionResult {
	if ctx.Err() != nil {
		return nil
	}

	result, err := task.source.Lookup(ctx, task.candidate)
	if err != nil {
		if isContextError(err) {
			return nil
		}
		return &core.SectionResult{
			Name:    task.candidate,
			Section: task.source.Section(),
			Outcome: core.OutcomeError,
			Message: err.Error(),
			Provenance: core.Provenance{
				RequestedAt: o.now(),
				ResolvedAt:  o.now(),
			},
		}
	}
	return result
}

func (o *Orchestrator) now() time.Time {
	if o != nil && o.Clock != nil {
		return o.Clock()
	}
	return time.Now().UTC()
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
