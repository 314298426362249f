package provider

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"cryptomax/internal/httpx"
	"cryptomax/internal/rates"
)

// DefaultLidoURL is the production Lido networks endpoint.
const DefaultLidoURL = "https://stake.lido.fi/api/networks"

var titleCaser = cases.Title(language.English)

// Lido reads staking APY values from Lido's public networks API. The
// payload is an object keyed by network name, sometimes nested under
// "data"; rates arrive already expressed in percent.
type Lido struct {
	restAdapter
}

func NewLido(url string, client *httpx.Client, logger zerolog.Logger) *Lido {
	return &Lido{restAdapter: newRESTAdapter("lido", url, nil, client, logger)}
}

func (l *Lido) Collect(ctx context.Context) ([]rates.RateRecord, error) {
	payload, err := l.fetchOrdered(ctx)
	if err != nil {
		return nil, err
	}

	// Records follow the order the upstream lists its networks in.
	networks := payload
	if nested, ok := payload.object("data"); ok && len(nested.keys) > 0 {
		networks = nested
	}

	records := make([]rates.RateRecord, 0, len(networks.keys))
	for _, name := range networks.keys {
		details, ok := networks.member(name)
		if !ok {
			continue
		}

		metric := rates.MetricAPY
		raw, ok := details["apy"]
		if !ok {
			metric = rates.MetricAPR
			raw = details["apr"]
		}
		rate, ok := passthroughRate(raw)
		if !ok {
			continue
		}

		network := pickString(details, "displayName")
		if network == "" {
			network = name
		}

		records = append(records, rates.RateRecord{
			Provider:   l.name,
			Network:    titleCaser.String(network),
			Rate:       rate,
			Metric:     metric,
			Source:     l.url,
			RawSnippet: snippet(details),
		})
	}

	return records, nil
}

var _ Adapter = (*Lido)(nil)
