package provider

import (
	"context"

	"github.com/rs/zerolog"

	"cryptomax/internal/httpx"
	"cryptomax/internal/rates"
)

// DefaultKuCoinURL is the production KuCoin earn product list endpoint.
const DefaultKuCoinURL = "https://www.kucoin.com/_api/earning/earn/product/list?page=1&pageSize=200&status=ALL&type=ALL"

// KuCoin reads staking rates from KuCoin's Earn catalog.
type KuCoin struct {
	restAdapter
}

func NewKuCoin(url string, client *httpx.Client, logger zerolog.Logger) *KuCoin {
	return &KuCoin{restAdapter: newRESTAdapter("kucoin", url, nil, client, logger)}
}

func (k *KuCoin) Collect(ctx context.Context) ([]rates.RateRecord, error) {
	payload, err := k.fetchJSON(ctx)
	if err != nil {
		return nil, err
	}

	data, ok := payload["data"].(map[string]any)
	if !ok {
		return nil, parseErr(k.name, "unexpected KuCoin payload format")
	}
	products, ok := data["items"].([]any)
	if !ok {
		return nil, parseErr(k.name, "unexpected KuCoin payload format")
	}

	return parseCatalog(k.name, k.url, products, rates.MetricAPR,
		[]string{"apr", "apy", "yieldRate", "rate"},
		[]string{"currency", "name", "displayName"},
	), nil
}

var _ Adapter = (*KuCoin)(nil)
