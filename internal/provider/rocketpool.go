package provider

import (
	"context"

	"github.com/rs/zerolog"

	"cryptomax/internal/httpx"
	"cryptomax/internal/rates"
)

// DefaultRocketPoolURL is the production Rocket Pool APR endpoint.
const DefaultRocketPoolURL = "https://api.rocketpool.net/api/apr"

// RocketPool reads the single Ethereum staking APR Rocket Pool publishes.
type RocketPool struct {
	restAdapter
}

func NewRocketPool(url string, client *httpx.Client, logger zerolog.Logger) *RocketPool {
	return &RocketPool{restAdapter: newRESTAdapter("rocket_pool", url, nil, client, logger)}
}

func (r *RocketPool) Collect(ctx context.Context) ([]rates.RateRecord, error) {
	payload, err := r.fetchJSON(ctx)
	if err != nil {
		return nil, err
	}

	data, ok := payload["data"].(map[string]any)
	if !ok {
		return nil, parseErr(r.name, "unexpected Rocket Pool payload format")
	}

	raw, ok := pickFirst(data, "staking", "total")
	if !ok {
		return nil, parseErr(r.name, "Rocket Pool response missing staking rate")
	}
	rate, ok := passthroughRate(raw)
	if !ok {
		return nil, parseErr(r.name, "Rocket Pool staking rate invalid: %v", raw)
	}

	return []rates.RateRecord{{
		Provider:   r.name,
		Network:    "Ethereum",
		Rate:       rate,
		Metric:     rates.MetricAPR,
		Source:     r.url,
		RawSnippet: snippet(data),
	}}, nil
}

var _ Adapter = (*RocketPool)(nil)
