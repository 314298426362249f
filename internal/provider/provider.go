// Package provider contains one adapter per staking data source. Every
// adapter translates its provider-specific payload shape into normalized
// rate records; nothing provider-specific leaks past this package.
package provider

import (
	"context"
	"fmt"

	"cryptomax/internal/rates"
)

// Adapter fetches and parses one provider's offerings. Every exit path
// yields either a record slice or an *AdapterError; adapters never panic
// across this boundary.
type Adapter interface {
	Name() string
	Collect(ctx context.Context) ([]rates.RateRecord, error)
}

// AdapterError classifies an adapter failure by provider and stage so the
// collector can turn it into a warning without guessing.
type AdapterError struct {
	Provider string
	Stage    rates.Stage
	Err      error
}

func (e *AdapterError) Error() string {
	return fmt.Sprintf("provider %s: %s failed: %v", e.Provider, e.Stage, e.Err)
}

func (e *AdapterError) Unwrap() error { return e.Err }

func fetchErr(provider string, err error) *AdapterError {
	return &AdapterError{Provider: provider, Stage: rates.StageFetch, Err: err}
}

func parseErr(provider string, format string, args ...any) *AdapterError {
	return &AdapterError{Provider: provider, Stage: rates.StageParse, Err: fmt.Errorf(format, args...)}
}
