// Package collector orchestrates the concurrent collection run: one task
// per registered provider, per-provider failure isolation, and a
// deterministic merge once every task has settled.
package collector

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"cryptomax/internal/provider"
	"cryptomax/internal/rates"
)

// CollectFunc is a provider's live fetch-and-parse operation.
type CollectFunc func(ctx context.Context) ([]rates.RateRecord, error)

// FallbackFunc supplies the provider's bundled reference records. It may
// return an empty slice when no reference data exists.
type FallbackFunc func() []rates.RateRecord

// Task ties a provider identifier to its capability pair. Tasks are built
// fresh for each run and discarded afterwards.
type Task struct {
	Provider string
	Collect  CollectFunc
	Fallback FallbackFunc
}

// Collector runs all tasks and aggregates their output. It performs no
// I/O of its own beyond dispatching the tasks.
type Collector struct {
	logger zerolog.Logger
}

func New(logger zerolog.Logger) *Collector {
	return &Collector{logger: logger.With().Str("component", "collector").Logger()}
}

// Collect schedules every task concurrently and merges the results after
// all of them settle. Aggregate order is task registration order, then
// emission order within a task; completion order never reorders output.
// A failed task contributes exactly one warning plus whatever its fallback
// supplies; no failure aborts the run.
func (c *Collector) Collect(ctx context.Context, tasks []Task) ([]rates.RateRecord, []rates.Warning) {
	type outcome struct {
		records []rates.RateRecord
		warning *rates.Warning
	}

	// One slot per task keeps goroutines from sharing any mutable state;
	// the join below is the only synchronization point.
	outcomes := make([]outcome, len(tasks))

	group, ctx := errgroup.WithContext(ctx)
	for i, task := range tasks {
		group.Go(func() error {
			records, err := task.Collect(ctx)
			if err == nil {
				outcomes[i] = outcome{records: records}
				return nil
			}

			warning := classifyFailure(task.Provider, err)
			var substituted []rates.RateRecord
			if task.Fallback != nil {
				substituted = task.Fallback()
			}
			outcomes[i] = outcome{records: substituted, warning: &warning}
			return nil
		})
	}
	// Tasks never return errors, so the only purpose of the group is the
	// join; Wait cannot fail here.
	_ = group.Wait()

	aggregate := make([]rates.RateRecord, 0, len(tasks))
	warnings := make([]rates.Warning, 0)
	for _, out := range outcomes {
		aggregate = append(aggregate, out.records...)
		if out.warning != nil {
			warnings = append(warnings, *out.warning)
		}
	}
	return aggregate, warnings
}

// classifyFailure turns an adapter failure into a warning, preserving the
// stage attribution when the adapter reported one.
func classifyFailure(providerName string, err error) rates.Warning {
	var adapterErr *provider.AdapterError
	if errors.As(err, &adapterErr) {
		return rates.Warning{
			Provider: adapterErr.Provider,
			Stage:    adapterErr.Stage,
			Cause:    adapterErr.Err.Error(),
		}
	}
	return rates.Warning{Provider: providerName, Stage: rates.StageFetch, Cause: err.Error()}
}
