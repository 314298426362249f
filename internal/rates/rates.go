package rates

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Metric distinguishes simple from compounding annual yield figures. The
// value always reflects what the source payload reported, never a guess.
type Metric string

const (
	// MetricAPR is a simple (non-compounding) nominal annual rate.
	MetricAPR Metric = "APR"
	// MetricAPY is a compounding-adjusted annual yield.
	MetricAPY Metric = "APY"
)

// Valid reports whether m is one of the known metric spellings.
func (m Metric) Valid() bool {
	return m == MetricAPR || m == MetricAPY
}

// FallbackSourcePrefix tags records substituted from the bundled reference
// dataset so consumers can tell them apart from live data.
const FallbackSourcePrefix = "fallback:"

// RateRecord is the normalized unit of output for every provider. Field
// names form the snapshot file contract and must stay stable across runs.
type RateRecord struct {
	Provider   string          `json:"provider"`
	Network    string          `json:"network"`
	Rate       decimal.Decimal `json:"rate"`
	Metric     Metric          `json:"metric"`
	Source     string          `json:"source"`
	RawSnippet string          `json:"raw_snippet"`
}

// Validate checks the record invariants.
func (r RateRecord) Validate() error {
	if r.Provider == "" {
		return fmt.Errorf("rate record missing provider")
	}
	if r.Network == "" {
		return fmt.Errorf("rate record missing network (provider %s)", r.Provider)
	}
	if r.Rate.IsNegative() {
		return fmt.Errorf("rate record has negative rate %s (provider %s)", r.Rate, r.Provider)
	}
	if !r.Metric.Valid() {
		return fmt.Errorf("rate record has unknown metric %q (provider %s)", r.Metric, r.Provider)
	}
	return nil
}

// Stage identifies where inside an adapter a failure happened.
type Stage string

const (
	StageFetch Stage = "fetch"
	StageParse Stage = "parse"
)

// Warning records a provider failure for caller-side reporting. Warnings
// travel next to the aggregate, never inside it.
type Warning struct {
	Provider string `json:"provider"`
	Stage    Stage  `json:"stage"`
	Cause    string `json:"cause"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s (%s): %s", w.Provider, w.Stage, w.Cause)
}
