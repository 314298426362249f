package provider

import (
	"context"

	"github.com/rs/zerolog"

	"cryptomax/internal/httpx"
	"cryptomax/internal/rates"
)

// DefaultBinanceURL is the production Binance POS product list endpoint.
const DefaultBinanceURL = "https://www.binance.com/bapi/earn/v2/friendly/pos/product/list"

// Binance reads flexible staking rates from Binance's POS product list.
// The product array moves between "result" and "data" across payload
// revisions, so both are probed.
type Binance struct {
	restAdapter
}

func NewBinance(url string, client *httpx.Client, logger zerolog.Logger) *Binance {
	return &Binance{restAdapter: newRESTAdapter("binance", url, nil, client, logger)}
}

func (b *Binance) Collect(ctx context.Context) ([]rates.RateRecord, error) {
	payload, err := b.fetchJSON(ctx)
	if err != nil {
		return nil, err
	}

	data, ok := payload["data"].(map[string]any)
	if !ok {
		return nil, parseErr(b.name, "unexpected Binance payload format")
	}

	// A null or empty "result" falls through to "data"; only a present
	// non-list value is a shape error.
	var products []any
	for _, key := range []string{"result", "data"} {
		raw, ok := data[key]
		if !ok || raw == nil {
			continue
		}
		list, isList := raw.([]any)
		if !isList {
			return nil, parseErr(b.name, "unexpected Binance product payload")
		}
		if len(list) == 0 {
			continue
		}
		products = list
		break
	}

	return parseCatalog(b.name, b.url, products, rates.MetricAPR,
		[]string{"configAnnualInterestRate", "apr", "apy", "maxApy"},
		[]string{"asset", "productName", "displayName"},
	), nil
}

var _ Adapter = (*Binance)(nil)
