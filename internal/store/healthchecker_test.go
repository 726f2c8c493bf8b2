package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/reliefgrid/reliefgrid/internal/store"
	"github.com/reliefgrid/reliefgrid/internal/store/memory"
)

func TestHealthChecker_ReportsHealthyStore(t *testing.T) {
	hc := store.NewHealthChecker(memory.New(), zerolog.Nop(), time.Second)

	if hc.IsHealthy() {
		t.Fatal("checker must start unhealthy before the first probe")
	}

	ctx, cancel := context.WithCancel(context.Background())
	go hc.Start(ctx, 10*time.Millisecond)

	deadline := time.Now().Add(2 * time.Second)
	for !hc.IsHealthy() {
		if time.Now().After(deadline) {
			t.Fatal("checker never became healthy")
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
}
