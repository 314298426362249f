package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"cryptomax/internal/httpx"
	"cryptomax/internal/rates"
)

func noopLogger() zerolog.Logger {
	return zerolog.Nop()
}

func testClient() *httpx.Client {
	return httpx.New(httpx.Options{Timeout: time.Second, UserAgent: "test"})
}

func TestLidoCollect(t *testing.T) {
	// polygon listed before ethereum: output must keep that order.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{
			"polygon":  {"apr": 4.5},
			"ethereum": {"displayName": "ethereum", "apy": 3.2},
			"broken":   {"apy": "not numeric"}
		}}`))
	}))
	defer srv.Close()

	adapter := NewLido(srv.URL, testClient(), noopLogger())
	records, err := adapter.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect should succeed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	first := records[0]
	if first.Network != "Polygon" {
		t.Fatalf("output must follow payload order; want Polygon first, got %q", first.Network)
	}
	if first.Metric != rates.MetricAPR {
		t.Fatalf("apr-only network should yield APR metric, got %s", first.Metric)
	}
	if !first.Rate.Equal(decimal.NewFromFloat(4.5)) {
		t.Fatalf("rate should pass through unscaled, got %s", first.Rate)
	}
	if first.Source != srv.URL {
		t.Fatalf("source should be the queried endpoint, got %s", first.Source)
	}

	second := records[1]
	if second.Network != "Ethereum" {
		t.Fatalf("displayName should be title-cased, got %q", second.Network)
	}
	if second.Metric != rates.MetricAPY {
		t.Fatalf("apy key should yield APY metric, got %s", second.Metric)
	}
	if !second.Rate.Equal(decimal.NewFromFloat(3.2)) {
		t.Fatalf("rate should pass through unscaled, got %s", second.Rate)
	}
}

func TestLidoCollectSkipsNegativeRates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{
			"shrinking": {"apy": -3.2},
			"ethereum":  {"apy": 3.2}
		}}`))
	}))
	defer srv.Close()

	adapter := NewLido(srv.URL, testClient(), noopLogger())
	records, err := adapter.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect should succeed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("negative rate must be skipped; got %d records", len(records))
	}
	if records[0].Network != "Ethereum" || records[0].Rate.Sign() < 0 {
		t.Fatalf("unexpected surviving record: %+v", records[0])
	}
}

func TestLidoCollectParseError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json at all`))
	}))
	defer srv.Close()

	adapter := NewLido(srv.URL, testClient(), noopLogger())
	_, err := adapter.Collect(context.Background())

	var aerr *AdapterError
	if !errors.As(err, &aerr) {
		t.Fatalf("expected AdapterError, got %v", err)
	}
	if aerr.Stage != rates.StageParse {
		t.Fatalf("malformed body should be a parse failure, got %s", aerr.Stage)
	}
	if aerr.Provider != "lido" {
		t.Fatalf("error should carry provider name, got %s", aerr.Provider)
	}
}

func TestLidoCollectFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	adapter := NewLido(srv.URL, testClient(), noopLogger())
	_, err := adapter.Collect(context.Background())

	var aerr *AdapterError
	if !errors.As(err, &aerr) {
		t.Fatalf("expected AdapterError, got %v", err)
	}
	if aerr.Stage != rates.StageFetch {
		t.Fatalf("HTTP failure should be a fetch failure, got %s", aerr.Stage)
	}

	var terr *httpx.TransportError
	if !errors.As(err, &terr) {
		t.Fatal("transport error should stay reachable through the chain")
	}
	if terr.Kind != httpx.ErrHTTPStatus {
		t.Fatalf("expected http_status kind, got %s", terr.Kind)
	}
}
