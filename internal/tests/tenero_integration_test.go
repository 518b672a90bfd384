//go:build integration

package tests

import (
	"context"
	"testing"
	"time"

	"fdf-monitor/internal/clients_api/tenero"
)

func TestIntegration_Tenero_HoldingsValue(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client := tenero.NewClient(tenero.Options{})
	v, err := client.HoldingsValue(ctx, "0x571c8AD16B408A901CB684d471A1c6394D4d294f")
	if err != nil {
		t.Fatalf("HoldingsValue failed: %v", err)
	}
	if v < 0 {
		t.Fatalf("expected non-negative value, got %f", v)
	}
}
