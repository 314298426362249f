package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"cryptomax/internal/config"
	"cryptomax/internal/provider"
	"cryptomax/internal/rates"
	"cryptomax/internal/snapshot"
)

type staticAdapter struct {
	name    string
	records []rates.RateRecord
	err     error
}

func (s *staticAdapter) Name() string { return s.name }

func (s *staticAdapter) Collect(ctx context.Context) ([]rates.RateRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

var _ provider.Adapter = (*staticAdapter)(nil)

func testConfig(snapshotPath string) *config.Config {
	return &config.Config{
		Snapshot:  config.SnapshotConfig{Path: snapshotPath},
		Scheduler: config.SchedulerConfig{Interval: time.Minute},
	}
}

func rec(providerName, network string, rate string) rates.RateRecord {
	return rates.RateRecord{
		Provider: providerName,
		Network:  network,
		Rate:     decimal.RequireFromString(rate),
		Metric:   rates.MetricAPY,
		Source:   "https://example.test/" + providerName,
	}
}

func TestRunOncePersistsSnapshotAndReportsWarnings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "staking_rates.json")
	adapters := []provider.Adapter{
		&staticAdapter{name: "a", records: []rates.RateRecord{rec("a", "ETH", "3.2"), rec("a", "USDT", "8")}},
		&staticAdapter{name: "b", err: &provider.AdapterError{
			Provider: "b", Stage: rates.StageParse, Err: errors.New("unexpected payload"),
		}},
	}

	svc := New(testConfig(path), nil, adapters, nil, nil, nil, zerolog.Nop())
	result, err := svc.RunOnce(context.Background(), time.Now().UTC(), RunOptions{})
	if err != nil {
		t.Fatalf("RunOnce should succeed: %v", err)
	}

	if len(result.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(result.Records))
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(result.Warnings))
	}
	if result.Warnings[0].Provider != "b" {
		t.Fatalf("warning should name provider b, got %s", result.Warnings[0].Provider)
	}

	restored, err := snapshot.Read(path)
	if err != nil {
		t.Fatalf("snapshot should exist: %v", err)
	}
	if len(restored) != 2 {
		t.Fatalf("snapshot should hold 2 records, got %d", len(restored))
	}
}

func TestRunOnceLowRiskNarrowsBeforePersisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "staking_rates.json")
	adapters := []provider.Adapter{
		&staticAdapter{name: "a", records: []rates.RateRecord{rec("a", "ETH", "3.2"), rec("a", "USDT", "8")}},
	}

	svc := New(testConfig(path), nil, adapters, nil, nil, nil, zerolog.Nop())
	result, err := svc.RunOnce(context.Background(), time.Now().UTC(), RunOptions{LowRisk: true})
	if err != nil {
		t.Fatalf("RunOnce should succeed: %v", err)
	}

	if len(result.Records) != 1 || result.Records[0].Network != "USDT" {
		t.Fatalf("low-risk run should keep only USDT, got %+v", result.Records)
	}

	restored, err := snapshot.Read(path)
	if err != nil {
		t.Fatalf("snapshot should exist: %v", err)
	}
	if len(restored) != 1 {
		t.Fatalf("snapshot should match the filtered view, got %d records", len(restored))
	}
}

func TestRunOnceSnapshotCanBeSkipped(t *testing.T) {
	dir := t.TempDir()
	adapters := []provider.Adapter{
		&staticAdapter{name: "a", records: []rates.RateRecord{rec("a", "ETH", "3.2")}},
	}

	svc := New(testConfig(filepath.Join(dir, "default.json")), nil, adapters, nil, nil, nil, zerolog.Nop())
	if _, err := svc.RunOnce(context.Background(), time.Now().UTC(), RunOptions{SnapshotPath: "-"}); err != nil {
		t.Fatalf("RunOnce should succeed: %v", err)
	}

	if _, err := snapshot.Read(filepath.Join(dir, "default.json")); err == nil {
		t.Fatal("snapshot write should have been skipped")
	}
}

func TestRunOnceIsIdempotentAcrossRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "staking_rates.json")
	adapters := []provider.Adapter{
		&staticAdapter{name: "a", records: []rates.RateRecord{rec("a", "ETH", "3.2")}},
		&staticAdapter{name: "b", records: []rates.RateRecord{rec("b", "DAI", "5")}},
	}

	svc := New(testConfig(path), nil, adapters, nil, nil, nil, zerolog.Nop())

	first, err := svc.RunOnce(context.Background(), time.Now().UTC(), RunOptions{})
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	second, err := svc.RunOnce(context.Background(), time.Now().UTC(), RunOptions{})
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	if len(first.Records) != len(second.Records) {
		t.Fatalf("runs differ in size: %d vs %d", len(first.Records), len(second.Records))
	}
	for i := range first.Records {
		a, b := first.Records[i], second.Records[i]
		if a.Provider != b.Provider || a.Network != b.Network || !a.Rate.Equal(b.Rate) ||
			a.Metric != b.Metric || a.Source != b.Source {
			t.Fatalf("record %d differs across runs: %+v vs %+v", i, a, b)
		}
	}
}
