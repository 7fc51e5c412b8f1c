package analysis

import (
	"encoding/json"
	"testing"

	"github.com/hyperscout/internal/hyperliquid"
)

func decodeState(t *testing.T, raw string) *hyperliquid.ClearinghouseState {
	t.Helper()
	var state hyperliquid.ClearinghouseState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		t.Fatalf("decode clearinghouse state: %v", err)
	}
	return &state
}

func TestExtractPositions(t *testing.T) {
	state := decodeState(t, `{
		"marginSummary": {"accountValue": "10000", "totalMarginUsed": "2500"},
		"assetPositions": [
			{"asset": {"name": "BTC"}, "position": {"unrealizedPnl": "150.5", "notional": "-3000"}},
			{"asset": "ETH", "position": {"unrealizedPnl": -50.5, "notional": 1200}}
		]
	}`)

	snap := ExtractPositions(state)
	if snap == nil {
		t.Fatal("snapshot is nil")
	}

	if snap.AccountValue != 10000 {
		t.Errorf("AccountValue = %v, want 10000", snap.AccountValue)
	}
	if snap.TotalMarginUsed != 2500 {
		t.Errorf("TotalMarginUsed = %v, want 2500", snap.TotalMarginUsed)
	}
	if snap.AvailableMargin != 7500 {
		t.Errorf("AvailableMargin = %v, want 7500", snap.AvailableMargin)
	}
	if snap.UnrealizedPnL != 100 {
		t.Errorf("UnrealizedPnL = %v, want 100", snap.UnrealizedPnL)
	}
	if snap.TotalNotional != 4200 {
		t.Errorf("TotalNotional = %v, want 4200 (absolute values)", snap.TotalNotional)
	}
	if snap.NumPositions != 2 {
		t.Errorf("NumPositions = %d, want 2", snap.NumPositions)
	}
	if snap.ExposurePct != 25 {
		t.Errorf("ExposurePct = %v, want 25", snap.ExposurePct)
	}
	if len(snap.Positions) != 2 || snap.Positions[0].Asset != "BTC" || snap.Positions[1].Asset != "ETH" {
		t.Errorf("positions = %+v, want BTC and ETH", snap.Positions)
	}
	if snap.Positions[0].Notional != -3000 {
		t.Errorf("per-position notional keeps its sign, got %v", snap.Positions[0].Notional)
	}
}

func TestExtractPositionsNullSubObjects(t *testing.T) {
	state := decodeState(t, `{"marginSummary": null, "assetPositions": null}`)

	snap := ExtractPositions(state)
	if snap == nil {
		t.Fatal("snapshot is nil")
	}
	if snap.AccountValue != 0 || snap.TotalMarginUsed != 0 || snap.AvailableMargin != 0 {
		t.Errorf("null margin summary must zero the margin figures, got %+v", snap)
	}
	if snap.NumPositions != 0 || snap.ExposurePct != 0 {
		t.Errorf("null position list must yield an empty snapshot, got %+v", snap)
	}
}

func TestExtractPositionsPartialEntries(t *testing.T) {
	state := decodeState(t, `{
		"marginSummary": {"accountValue": "0", "totalMarginUsed": "100"},
		"assetPositions": [
			null,
			{"position": {"unrealizedPnl": "25", "notional": "not-a-number"}},
			{"asset": 42, "position": null},
			{"asset": {}, "position": {"unrealizedPnl": null}}
		]
	}`)

	snap := ExtractPositions(state)
	if snap == nil {
		t.Fatal("snapshot is nil")
	}

	// The raw list length counts even null entries.
	if snap.NumPositions != 4 {
		t.Errorf("NumPositions = %d, want 4", snap.NumPositions)
	}
	if len(snap.Positions) != 3 {
		t.Fatalf("detail entries = %d, want 3 (null entry skipped)", len(snap.Positions))
	}
	if snap.Positions[0].Asset != "UNKNOWN" {
		t.Errorf("missing asset should resolve to UNKNOWN, got %q", snap.Positions[0].Asset)
	}
	if snap.Positions[1].Asset != "42" {
		t.Errorf("scalar asset should coerce to string, got %q", snap.Positions[1].Asset)
	}
	if snap.Positions[2].Asset != "UNKNOWN" {
		t.Errorf("asset object without name should resolve to UNKNOWN, got %q", snap.Positions[2].Asset)
	}
	if snap.UnrealizedPnL != 25 {
		t.Errorf("UnrealizedPnL = %v, want 25 (unparseable values coerce to 0)", snap.UnrealizedPnL)
	}
	if snap.ExposurePct != 0 {
		t.Errorf("ExposurePct = %v, want 0 when account value is 0", snap.ExposurePct)
	}
}

func TestExtractPositionsNilState(t *testing.T) {
	if snap := ExtractPositions(nil); snap != nil {
		t.Errorf("nil state must yield nil snapshot, got %+v", snap)
	}
}
