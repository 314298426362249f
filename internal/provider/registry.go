package provider

import (
	"slices"

	"github.com/rs/zerolog"

	"cryptomax/internal/httpx"
)

// RegistryOptions carry per-provider endpoint configuration. Empty URLs
// fall back to the production endpoints.
type RegistryOptions struct {
	LidoURL       string
	RocketPoolURL string
	KrakenURL     string
	CoinbaseURL   string
	CryptoComURL  string
	KuCoinURL     string
	BinanceURL    string
	NexoURL       string
	Maker         MakerOptions
	Disabled      []string
}

func orDefault(url, fallback string) string {
	if url == "" {
		return fallback
	}
	return url
}

// Registry builds every registered adapter in its fixed registration
// order. The aggregate output order of a run follows this order, so it
// must stay stable across runs.
func Registry(opts RegistryOptions, client *httpx.Client, logger zerolog.Logger) []Adapter {
	all := []Adapter{
		NewLido(orDefault(opts.LidoURL, DefaultLidoURL), client, logger),
		NewRocketPool(orDefault(opts.RocketPoolURL, DefaultRocketPoolURL), client, logger),
		NewKraken(orDefault(opts.KrakenURL, DefaultKrakenURL), client, logger),
		NewCoinbase(orDefault(opts.CoinbaseURL, DefaultCoinbaseURL), client, logger),
		NewCryptoCom(orDefault(opts.CryptoComURL, DefaultCryptoComURL), client, logger),
		NewKuCoin(orDefault(opts.KuCoinURL, DefaultKuCoinURL), client, logger),
		NewBinance(orDefault(opts.BinanceURL, DefaultBinanceURL), client, logger),
		NewNexo(orDefault(opts.NexoURL, DefaultNexoURL), client, logger),
		NewMaker(opts.Maker, logger),
	}

	adapters := make([]Adapter, 0, len(all))
	for _, adapter := range all {
		if slices.Contains(opts.Disabled, adapter.Name()) {
			continue
		}
		adapters = append(adapters, adapter)
	}
	return adapters
}
