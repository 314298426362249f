package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"cryptomax/internal/alerting"
	"cryptomax/internal/collector"
	"cryptomax/internal/config"
	"cryptomax/internal/fallback"
	"cryptomax/internal/provider"
	"cryptomax/internal/rates"
	"cryptomax/internal/scheduler"
	"cryptomax/internal/snapshot"
	"cryptomax/internal/storage"
)

// RunResult is the outcome of one bounded collection run.
type RunResult struct {
	RunAt    time.Time
	Records  []rates.RateRecord
	Warnings []rates.Warning
	LowRisk  bool
}

// RunOptions tune a single collection run.
type RunOptions struct {
	// LowRisk narrows the aggregate to the stablecoin view before
	// persistence and rendering.
	LowRisk bool
	// SnapshotPath overrides the configured snapshot location. Empty
	// means use the configured path; "-" disables the snapshot write.
	SnapshotPath string
}

// Service orchestrates collection, persistence, and alerting around the
// collector core.
type Service struct {
	collector *collector.Collector
	adapters  []provider.Adapter
	resolver  *fallback.Resolver
	scheduler *scheduler.Scheduler
	store     storage.RateRecordStore
	notifier  alerting.Notifier
	logger    zerolog.Logger

	snapshotPath string
	alertsOn     bool
	cooldown     time.Duration
	lastAlert    time.Time
	locker       storage.AdvisoryLocker
	lockKey      int64
}

// New constructs the collection service. store and notifier may be nil;
// the respective steps are then skipped.
func New(cfg *config.Config, sched *scheduler.Scheduler, adapters []provider.Adapter, resolver *fallback.Resolver, store storage.RateRecordStore, notifier alerting.Notifier, logger zerolog.Logger) *Service {
	var locker storage.AdvisoryLocker
	if l, ok := store.(storage.AdvisoryLocker); ok {
		locker = l
	}

	return &Service{
		collector:    collector.New(logger),
		adapters:     adapters,
		resolver:     resolver,
		scheduler:    sched,
		store:        store,
		notifier:     notifier,
		logger:       logger.With().Str("component", "service").Logger(),
		snapshotPath: cfg.Snapshot.Path,
		alertsOn:     cfg.Alerting.Enabled,
		cooldown:     cfg.Alerting.Cooldown,
		locker:       locker,
		lockKey:      cfg.Scheduler.AdvisoryLockKey,
	}
}

// tasks pairs every registered adapter with its fallback supplier. The
// fallback is only consulted by the collector after a live failure.
func (s *Service) tasks() []collector.Task {
	built := make([]collector.Task, 0, len(s.adapters))
	for _, adapter := range s.adapters {
		name := adapter.Name()
		task := collector.Task{
			Provider: name,
			Collect:  adapter.Collect,
		}
		if s.resolver != nil {
			task.Fallback = func() []rates.RateRecord {
				return s.resolver.Resolve(name)
			}
		}
		built = append(built, task)
	}
	return built
}

// RunOnce performs one bounded collection run: collect, optionally filter,
// snapshot, persist, and report. Warnings never prevent the remaining
// steps from running on whatever data was collected.
func (s *Service) RunOnce(ctx context.Context, runAt time.Time, opts RunOptions) (RunResult, error) {
	records, warnings := s.collector.Collect(ctx, s.tasks())

	for _, warning := range warnings {
		s.logger.Warn().
			Str("provider", warning.Provider).
			Str("stage", string(warning.Stage)).
			Str("cause", warning.Cause).
			Msg("provider degraded")
	}

	if opts.LowRisk {
		records = rates.FilterLowRisk(records)
	}

	result := RunResult{RunAt: runAt, Records: records, Warnings: warnings, LowRisk: opts.LowRisk}

	path := opts.SnapshotPath
	if path == "" {
		path = s.snapshotPath
	}
	if path != "-" {
		if err := snapshot.Write(path, records); err != nil {
			return result, fmt.Errorf("persist snapshot: %w", err)
		}
	}

	if s.store != nil {
		if err := s.store.InsertRunRecords(ctx, runAt, records); err != nil {
			s.logger.Error().Err(err).Time("run_at", runAt).Msg("failed to persist run history")
		}
	}

	s.logger.Info().Time("run_at", runAt).
		Int("records", len(records)).
		Int("warnings", len(warnings)).
		Msg("collection run complete")

	s.maybeAlert(ctx, result)

	return result, nil
}

// Watch begins the aligned collection loop.
func (s *Service) Watch(ctx context.Context) error {
	if s.scheduler == nil {
		return fmt.Errorf("scheduler not configured")
	}
	return s.scheduler.Run(ctx, s.processRun)
}

func (s *Service) processRun(ctx context.Context, runAt time.Time) error {
	unlock, proceed, err := s.acquireLock(ctx)
	if err != nil {
		return err
	}
	if !proceed {
		s.logger.Debug().Time("run_at", runAt).Msg("skip run because advisory lock held elsewhere")
		return nil
	}
	if unlock != nil {
		defer unlock()
	}

	_, err = s.RunOnce(ctx, runAt, RunOptions{})
	return err
}

// maybeAlert pushes a degraded-run summary, subject to the cooldown. Alert
// delivery failures are logged, never propagated.
func (s *Service) maybeAlert(ctx context.Context, result RunResult) {
	if !s.alertsOn || s.notifier == nil || len(result.Warnings) == 0 {
		return
	}
	if s.cooldown > 0 && !s.lastAlert.IsZero() && time.Since(s.lastAlert) < s.cooldown {
		return
	}

	note := alerting.Notification{
		RunAt:        result.RunAt,
		TotalRecords: len(result.Records),
		Warnings:     result.Warnings,
	}
	if err := s.notifier.Notify(ctx, note); err != nil {
		s.logger.Error().Err(err).Time("run_at", result.RunAt).Msg("failed to dispatch alert")
		return
	}
	s.lastAlert = time.Now()
}

func (s *Service) acquireLock(ctx context.Context) (func(), bool, error) {
	if s.lockKey == 0 || s.locker == nil {
		return nil, true, nil
	}
	unlock, acquired, err := s.locker.TryAdvisoryLock(ctx, s.lockKey)
	if err != nil {
		return nil, false, fmt.Errorf("acquire advisory lock: %w", err)
	}
	if !acquired {
		return nil, false, nil
	}
	return unlock, true, nil
}
