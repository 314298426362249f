package snapshot

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"cryptomax/internal/rates"
)

func TestWriteReadRoundTrip(t *testing.T) {
	records := []rates.RateRecord{
		{
			Provider:   "lido",
			Network:    "Ethereum",
			Rate:       decimal.RequireFromString("3.2100000000001"),
			Metric:     rates.MetricAPY,
			Source:     "https://stake.lido.fi/api/networks",
			RawSnippet: `{"apy":3.21}`,
		},
		{
			Provider: "nexo",
			Network:  "USDT",
			Rate:     decimal.RequireFromString("8"),
			Metric:   rates.MetricAPY,
			Source:   rates.FallbackSourcePrefix + "nexo",
		},
		{
			Provider: "kraken",
			Network:  "DOT.S",
			Rate:     decimal.RequireFromString("12.000001"),
			Metric:   rates.MetricAPR,
			Source:   "https://api.kraken.com/0/public/Staking/Assets",
		},
	}

	path := filepath.Join(t.TempDir(), "nested", "staking_rates.json")
	if err := Write(path, records); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	restored, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(restored) != len(records) {
		t.Fatalf("expected %d records, got %d", len(records), len(restored))
	}
	for i := range records {
		if restored[i].Provider != records[i].Provider ||
			restored[i].Network != records[i].Network ||
			restored[i].Metric != records[i].Metric ||
			restored[i].Source != records[i].Source ||
			restored[i].RawSnippet != records[i].RawSnippet {
			t.Fatalf("record %d fields changed: %+v vs %+v", i, restored[i], records[i])
		}
		if !restored[i].Rate.Equal(records[i].Rate) {
			t.Fatalf("record %d rate lost precision: %s vs %s", i, restored[i].Rate, records[i].Rate)
		}
	}
}

func TestReadMissingFile(t *testing.T) {
	if _, err := Read(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("missing snapshot should be an error")
	}
}
