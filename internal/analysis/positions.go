package analysis

import (
	"math"

	"github.com/hyperscout/internal/hyperliquid"
)

// unknownAsset is the sentinel for positions whose asset cannot be resolved.
const unknownAsset = "UNKNOWN"

// AssetExposure is one open position's contribution to the snapshot.
type AssetExposure struct {
	Asset         string
	Notional      float64
	UnrealizedPnL float64
}

// PositionSnapshot aggregates a wallet's current open positions.
type PositionSnapshot struct {
	AccountValue    float64
	TotalMarginUsed float64
	AvailableMargin float64
	UnrealizedPnL   float64
	TotalNotional   float64
	NumPositions    int
	ExposurePct     float64 // margin used over account value, in percent
	Positions       []AssetExposure
}

// ExtractPositions normalizes a clearinghouse state into aggregate exposure
// figures. Null or missing sub-objects coerce to zeros; it never fails.
func ExtractPositions(state *hyperliquid.ClearinghouseState) *PositionSnapshot {
	if state == nil {
		return nil
	}

	snap := &PositionSnapshot{}

	if ms := state.MarginSummary; ms != nil {
		snap.AccountValue = float64(ms.AccountValue)
		snap.TotalMarginUsed = float64(ms.TotalMarginUsed)
		snap.AvailableMargin = snap.AccountValue - snap.TotalMarginUsed
	}

	snap.NumPositions = len(state.AssetPositions)
	for _, ap := range state.AssetPositions {
		if ap == nil {
			continue
		}

		var notional, unrealized float64
		if ap.Position != nil {
			notional = float64(ap.Position.Notional)
			unrealized = float64(ap.Position.UnrealizedPnL)
		}

		asset := string(ap.Asset)
		if asset == "" {
			asset = unknownAsset
		}

		snap.UnrealizedPnL += unrealized
		snap.TotalNotional += math.Abs(notional)
		snap.Positions = append(snap.Positions, AssetExposure{
			Asset:         asset,
			Notional:      notional,
			UnrealizedPnL: unrealized,
		})
	}

	if snap.AccountValue > 0 {
		snap.ExposurePct = snap.TotalMarginUsed / snap.AccountValue * 100
	}

	return snap
}
