package provider

import (
	"context"

	"github.com/rs/zerolog"

	"cryptomax/internal/httpx"
	"cryptomax/internal/rates"
)

// DefaultCoinbaseURL is the production Coinbase staking product catalog.
const DefaultCoinbaseURL = "https://api.coinbase.com/v2/staking/products"

// coinbaseAPIVersion pins the payload revision Coinbase serves.
const coinbaseAPIVersion = "2024-01-01"

// Coinbase reads staking APYs from Coinbase's product catalog.
type Coinbase struct {
	restAdapter
}

func NewCoinbase(url string, client *httpx.Client, logger zerolog.Logger) *Coinbase {
	headers := map[string]string{"CB-VERSION": coinbaseAPIVersion}
	return &Coinbase{restAdapter: newRESTAdapter("coinbase", url, headers, client, logger)}
}

func (c *Coinbase) Collect(ctx context.Context) ([]rates.RateRecord, error) {
	payload, err := c.fetchJSON(ctx)
	if err != nil {
		return nil, err
	}

	products, ok := payload["data"].([]any)
	if !ok {
		return nil, parseErr(c.name, "unexpected Coinbase payload format")
	}

	return parseCatalog(c.name, c.url, products, rates.MetricAPY,
		[]string{"apy", "apr", "rewards_apy", "estimated_apy", "rewardRate", "rewardsRate"},
		[]string{"asset_name", "asset", "name", "asset_symbol"},
	), nil
}

var _ Adapter = (*Coinbase)(nil)
