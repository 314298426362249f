package provider

import (
	"context"

	"github.com/rs/zerolog"

	"cryptomax/internal/httpx"
	"cryptomax/internal/rates"
)

// DefaultNexoURL is the production Nexo earn rates endpoint.
const DefaultNexoURL = "https://platform.nexo.io/api/v2/earn/rates"

// Nexo reads earn rates from Nexo's platform API.
type Nexo struct {
	restAdapter
}

func NewNexo(url string, client *httpx.Client, logger zerolog.Logger) *Nexo {
	return &Nexo{restAdapter: newRESTAdapter("nexo", url, nil, client, logger)}
}

func (n *Nexo) Collect(ctx context.Context) ([]rates.RateRecord, error) {
	payload, err := n.fetchJSON(ctx)
	if err != nil {
		return nil, err
	}

	data, ok := payload["data"].(map[string]any)
	if !ok {
		return nil, parseErr(n.name, "unexpected Nexo payload format")
	}
	products, ok := data["rates"].([]any)
	if !ok {
		return nil, parseErr(n.name, "unexpected Nexo payload format")
	}

	return parseCatalog(n.name, n.url, products, rates.MetricAPY,
		[]string{"rate", "apy", "apr", "baseRate"},
		[]string{"currency", "symbol", "name"},
	), nil
}

var _ Adapter = (*Nexo)(nil)
