package provider

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"cryptomax/internal/rates"
)

func TestMakerCollectUnconfigured(t *testing.T) {
	adapter := NewMaker(MakerOptions{}, noopLogger())
	_, err := adapter.Collect(context.Background())

	var aerr *AdapterError
	if !errors.As(err, &aerr) {
		t.Fatalf("expected AdapterError, got %v", err)
	}
	if aerr.Stage != rates.StageFetch {
		t.Fatalf("missing rpc url should be a fetch failure, got %s", aerr.Stage)
	}
}

func TestDSRToAPY(t *testing.T) {
	// A dsr of exactly 1e27 is a zero savings rate.
	one := new(big.Int).Exp(big.NewInt(10), big.NewInt(27), nil)
	apy, err := dsrToAPY(one)
	if err != nil {
		t.Fatalf("unit dsr should convert: %v", err)
	}
	if !apy.IsZero() {
		t.Fatalf("unit dsr should be 0%%, got %s", apy)
	}

	// The historical 5% DSR value published by MakerDAO.
	five, ok := new(big.Int).SetString("1000000001547125957863212448", 10)
	if !ok {
		t.Fatal("failed to build test ray")
	}
	apy, err = dsrToAPY(five)
	if err != nil {
		t.Fatalf("5%% dsr should convert: %v", err)
	}
	got := apy.InexactFloat64()
	if got < 4.9 || got > 5.1 {
		t.Fatalf("expected roughly 5%%, got %f", got)
	}
}

func TestDSRToAPYRejectsSubUnit(t *testing.T) {
	if _, err := dsrToAPY(big.NewInt(1)); err == nil {
		t.Fatal("sub-unit dsr should be rejected")
	}
}
