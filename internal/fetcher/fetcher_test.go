package fetcher

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(discard{})
	return log
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func TestAllReturnsOneResultPerAddress(t *testing.T) {
	addresses := []string{"0xAAA", "0xBBB", "0xCCC"}
	results := All(context.Background(), addresses, 2, testLogger(), func(ctx context.Context, address string) (string, error) {
		return "payload:" + address, nil
	})

	if len(results) != len(addresses) {
		t.Fatalf("got %d results, want %d", len(results), len(addresses))
	}
	for _, addr := range addresses {
		r, ok := results[strings.ToLower(addr)]
		if !ok {
			t.Fatalf("missing result for %s (keys must be lower-cased)", addr)
		}
		if r.Err != nil {
			t.Errorf("unexpected error for %s: %v", addr, r.Err)
		}
		if r.Payload != "payload:"+addr {
			t.Errorf("payload for %s = %q", addr, r.Payload)
		}
		if r.Address != addr {
			t.Errorf("Address = %q, want original casing %q", r.Address, addr)
		}
	}
}

func TestAllFailuresDoNotAbortBatch(t *testing.T) {
	boom := errors.New("boom")
	results := All(context.Background(), []string{"0xaaa", "0xbbb"}, 2, testLogger(), func(ctx context.Context, address string) (int, error) {
		if address == "0xaaa" {
			return 0, boom
		}
		return 7, nil
	})

	if r := results["0xaaa"]; !errors.Is(r.Err, boom) {
		t.Errorf("0xaaa error = %v, want boom", r.Err)
	}
	if r := results["0xbbb"]; r.Err != nil || r.Payload != 7 {
		t.Errorf("0xbbb = %+v, want payload 7 with no error", r)
	}
}

func TestAllHonorsConcurrencyCap(t *testing.T) {
	const limit = 3
	var inFlight, peak atomic.Int32

	addresses := make([]string, 20)
	for i := range addresses {
		addresses[i] = "0x" + strings.Repeat("a", i+1)
	}

	All(context.Background(), addresses, limit, testLogger(), func(ctx context.Context, address string) (struct{}, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return struct{}{}, nil
	})

	if got := peak.Load(); got > limit {
		t.Errorf("observed %d concurrent fetches, limit is %d", got, limit)
	}
}

func TestAllNonPositiveConcurrency(t *testing.T) {
	results := All(context.Background(), []string{"0xaaa"}, 0, testLogger(), func(ctx context.Context, address string) (bool, error) {
		return true, nil
	})
	if r := results["0xaaa"]; !r.Payload || r.Err != nil {
		t.Errorf("result = %+v, want payload true", r)
	}
}
