// Package fallback serves the bundled reference dataset substituted when a
// provider's live call fails.
package fallback

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"cryptomax/internal/rates"
)

//go:embed dataset.json
var datasetJSON []byte

type datasetEntry struct {
	Network string          `json:"network"`
	Rate    decimal.Decimal `json:"rate"`
	Metric  rates.Metric    `json:"metric"`
}

// Resolver looks up reference records by provider identifier.
type Resolver struct {
	entries map[string][]datasetEntry
}

// NewResolver parses the bundled dataset. The dataset ships inside the
// binary, so a parse failure is a build defect, not a runtime condition.
func NewResolver() (*Resolver, error) {
	entries := make(map[string][]datasetEntry)
	if err := json.Unmarshal(datasetJSON, &entries); err != nil {
		return nil, fmt.Errorf("parse bundled fallback dataset: %w", err)
	}
	for providerName, list := range entries {
		for _, entry := range list {
			if entry.Network == "" || !entry.Metric.Valid() || entry.Rate.IsNegative() {
				return nil, fmt.Errorf("invalid fallback entry for provider %s", providerName)
			}
		}
	}
	return &Resolver{entries: entries}, nil
}

// Resolve returns the provider's reference records, tagged with the
// fallback source marker so consumers can tell them from live data. A
// provider without reference data yields an empty slice, not an error.
func (r *Resolver) Resolve(providerName string) []rates.RateRecord {
	list := r.entries[providerName]
	records := make([]rates.RateRecord, 0, len(list))
	for _, entry := range list {
		records = append(records, rates.RateRecord{
			Provider:   providerName,
			Network:    entry.Network,
			Rate:       entry.Rate,
			Metric:     entry.Metric,
			Source:     rates.FallbackSourcePrefix + providerName,
			RawSnippet: "",
		})
	}
	return records
}
