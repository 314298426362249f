package provider

import (
	"context"

	"github.com/rs/zerolog"

	"cryptomax/internal/httpx"
	"cryptomax/internal/rates"
)

// DefaultKrakenURL is the production Kraken staking assets endpoint.
const DefaultKrakenURL = "https://api.kraken.com/0/public/Staking/Assets"

// Kraken reads staking asset rates from Kraken's public API. The payload
// nests an object of assets under "result"; rates arrive in percent.
type Kraken struct {
	restAdapter
}

func NewKraken(url string, client *httpx.Client, logger zerolog.Logger) *Kraken {
	return &Kraken{restAdapter: newRESTAdapter("kraken", url, nil, client, logger)}
}

func (k *Kraken) Collect(ctx context.Context) ([]rates.RateRecord, error) {
	payload, err := k.fetchOrdered(ctx)
	if err != nil {
		return nil, err
	}

	result, ok := payload.object("result")
	if !ok {
		return nil, parseErr(k.name, "unexpected Kraken payload format")
	}

	// Records follow the order the upstream lists its assets in.
	records := make([]rates.RateRecord, 0, len(result.keys))
	for _, code := range result.keys {
		details, ok := result.member(code)
		if !ok {
			continue
		}

		raw, ok := pickFirst(details, "apy", "apr", "reward_apr")
		if !ok {
			continue
		}
		rate, ok := passthroughRate(raw)
		if !ok {
			continue
		}

		network := pickString(details, "staking_asset")
		if network == "" {
			network = code
		}

		records = append(records, rates.RateRecord{
			Provider:   k.name,
			Network:    network,
			Rate:       rate,
			Metric:     rates.MetricAPR,
			Source:     k.url,
			RawSnippet: snippet(details),
		})
	}

	return records, nil
}

var _ Adapter = (*Kraken)(nil)
