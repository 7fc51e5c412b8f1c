package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestGateSpacesWaits(t *testing.T) {
	const interval = 20 * time.Millisecond
	gate := NewGate(interval)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := gate.Wait(ctx); err != nil {
			t.Fatalf("Wait: %v", err)
		}
	}
	elapsed := time.Since(start)

	// First wait is immediate; the next two each pay the interval.
	if elapsed < 2*interval {
		t.Errorf("3 waits took %v, want at least %v", elapsed, 2*interval)
	}
}

func TestGateCancelledContext(t *testing.T) {
	gate := NewGate(time.Hour)
	ctx := context.Background()
	if err := gate.Wait(ctx); err != nil {
		t.Fatalf("first Wait: %v", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	cancel()
	if err := gate.Wait(ctx); err == nil {
		t.Error("Wait on cancelled context returned nil, want error")
	}
}

func TestGateDefaultInterval(t *testing.T) {
	gate := NewGate(0)
	if gate == nil || gate.limiter == nil {
		t.Fatal("NewGate(0) must still build a usable gate")
	}
	if err := gate.Wait(context.Background()); err != nil {
		t.Fatalf("Wait: %v", err)
	}
}
