//go:build integration

package tests

import (
	"context"
	"os"
	"testing"
	"time"

	"fdf-monitor/internal/clients_api/chain"
	"fdf-monitor/internal/infra/config"
)

func rpcURL(t *testing.T) string {
	url := os.Getenv("BASE_RPC_URL")
	if url == "" {
		t.Skip("BASE_RPC_URL not set")
	}
	return url
}

func TestIntegration_Chain_USDCDecimals(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := chain.Dial(ctx, rpcURL(t), 10*time.Second)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer client.Close()

	decimals, err := client.Decimals(ctx, config.USDCBase)
	if err != nil {
		t.Fatalf("Decimals failed: %v", err)
	}
	if decimals != 6 {
		t.Fatalf("expected 6 decimals, got %d", decimals)
	}
}

func TestIntegration_Chain_FUNBalance(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := chain.Dial(ctx, rpcURL(t), 10*time.Second)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer client.Close()

	src := chain.TokenSource{Client: client, Token: chain.Token{Address: config.FUNBase, Symbol: "FUN", Decimals: 18}}
	v, err := src.Balance(ctx, "0x571c8AD16B408A901CB684d471A1c6394D4d294f")
	if err != nil {
		t.Fatalf("Balance failed: %v", err)
	}
	if v < 0 {
		t.Fatalf("expected non-negative balance, got %f", v)
	}
}
