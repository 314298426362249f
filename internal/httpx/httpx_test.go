package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGetSetsIdentifyingHeaders(t *testing.T) {
	var gotUA, gotAccept, gotExtra string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		gotExtra = r.Header.Get("CB-VERSION")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client := New(Options{Timeout: time.Second, UserAgent: "CryptoMAX Staking Bot"})
	body, err := client.Get(context.Background(), srv.URL, map[string]string{"CB-VERSION": "2024-01-01"})
	if err != nil {
		t.Fatalf("Get should succeed: %v", err)
	}
	if string(body) != `{"ok":true}` {
		t.Fatalf("unexpected body: %s", body)
	}
	if gotUA != "CryptoMAX Staking Bot" {
		t.Fatalf("User-Agent not attached, got %q", gotUA)
	}
	if gotAccept != "application/json" {
		t.Fatalf("Accept not attached, got %q", gotAccept)
	}
	if gotExtra != "2024-01-01" {
		t.Fatalf("extra header not attached, got %q", gotExtra)
	}
}

func TestGetClassifiesHTTPStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client := New(Options{Timeout: time.Second})
	_, err := client.Get(context.Background(), srv.URL, nil)

	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if terr.Kind != ErrHTTPStatus {
		t.Fatalf("expected http_status kind, got %s", terr.Kind)
	}
	if terr.Status != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", terr.Status)
	}
}

func TestGetClassifiesTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := New(Options{Timeout: 20 * time.Millisecond})
	_, err := client.Get(context.Background(), srv.URL, nil)

	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if terr.Kind != ErrTimeout {
		t.Fatalf("expected timeout kind, got %s", terr.Kind)
	}
}

func TestGetClassifiesNetworkError(t *testing.T) {
	client := New(Options{Timeout: time.Second})
	_, err := client.Get(context.Background(), "http://127.0.0.1:0", nil)

	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if terr.Kind != ErrNetwork {
		t.Fatalf("expected network kind, got %s", terr.Kind)
	}
}
