package provider

import (
	"context"

	"github.com/rs/zerolog"

	"cryptomax/internal/httpx"
	"cryptomax/internal/rates"
)

// DefaultCryptoComURL is the production Crypto.com Earn catalog endpoint.
const DefaultCryptoComURL = "https://crypto.com/earn/api/v2/products"

// CryptoCom reads staking rates from Crypto.com's Earn product catalog.
type CryptoCom struct {
	restAdapter
}

func NewCryptoCom(url string, client *httpx.Client, logger zerolog.Logger) *CryptoCom {
	return &CryptoCom{restAdapter: newRESTAdapter("crypto_com", url, nil, client, logger)}
}

func (c *CryptoCom) Collect(ctx context.Context) ([]rates.RateRecord, error) {
	payload, err := c.fetchJSON(ctx)
	if err != nil {
		return nil, err
	}

	data, ok := payload["data"].(map[string]any)
	if !ok {
		return nil, parseErr(c.name, "unexpected Crypto.com payload format")
	}
	products, ok := data["items"].([]any)
	if !ok {
		return nil, parseErr(c.name, "unexpected Crypto.com payload format")
	}

	return parseCatalog(c.name, c.url, products, rates.MetricAPY,
		[]string{"rate", "apy", "apr", "reward_rate"},
		[]string{"displayName", "asset", "symbol", "name"},
	), nil
}

var _ Adapter = (*CryptoCom)(nil)
