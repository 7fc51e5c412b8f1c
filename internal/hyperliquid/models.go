package hyperliquid

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// SafeFloat is a float64 that decodes from a JSON number, a numeric string,
// or null. Anything unparseable coerces to 0 instead of failing the payload.
type SafeFloat float64

func (f *SafeFloat) UnmarshalJSON(b []byte) error {
	*f = 0
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		*f = SafeFloat(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			*f = SafeFloat(v)
		}
	}
	return nil
}

// SeriesPoint is one [time, value] entry of a portfolio history series.
// The time token may be a unix timestamp (seconds or milliseconds) or an
// ISO-8601 date string; it is kept verbatim so two series can be compared
// for exact date alignment.
type SeriesPoint struct {
	Date  string
	Value float64
}

func (p *SeriesPoint) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if len(raw) > 0 {
		p.Date = rawToken(raw[0])
	}
	if len(raw) > 1 {
		var v SafeFloat
		_ = v.UnmarshalJSON(raw[1])
		p.Value = float64(v)
	}
	return nil
}

// rawToken returns a JSON scalar as its bare string form.
func rawToken(b []byte) string {
	b = bytes.TrimSpace(b)
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		return s
	}
	return string(b)
}

// PortfolioWindow holds one aggregation window of a wallet's portfolio
// history: parallel PnL and account-value series.
type PortfolioWindow struct {
	PnLHistory          []SeriesPoint `json:"pnlHistory"`
	AccountValueHistory []SeriesPoint `json:"accountValueHistory"`
}

// PortfolioEntry is one [windowName, window] pair of the portfolio response.
type PortfolioEntry struct {
	Name string
	Data *PortfolioWindow
}

func (e *PortfolioEntry) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw[0], &e.Name)
	}
	if len(raw) > 1 {
		_ = json.Unmarshal(raw[1], &e.Data)
	}
	return nil
}

// Portfolio is the ordered list of aggregation windows returned by the
// portfolio endpoint.
type Portfolio []PortfolioEntry

// perpMonthIndex is where the perpMonth window sits when names are absent.
const perpMonthIndex = 6

// PerpMonth returns the perpetuals month window used for analysis, or nil
// when the response carries no such window.
func (p Portfolio) PerpMonth() *PortfolioWindow {
	for _, entry := range p {
		if entry.Name == "perpMonth" {
			return entry.Data
		}
	}
	if len(p) > perpMonthIndex {
		return p[perpMonthIndex].Data
	}
	return nil
}

// MarginSummary summarizes account-level margin figures.
type MarginSummary struct {
	AccountValue    SafeFloat `json:"accountValue"`
	TotalMarginUsed SafeFloat `json:"totalMarginUsed"`
}

// AssetName resolves the asset identifier of a position: a structured asset
// object's name field, a scalar coerced to string, or empty when absent.
type AssetName string

func (a *AssetName) UnmarshalJSON(b []byte) error {
	*a = ""
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*a = AssetName(s)
		return nil
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(b, &obj); err == nil {
		*a = AssetName(obj.Name)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*a = AssetName(n.String())
	}
	return nil
}

// Position holds the numeric figures of one open position.
type Position struct {
	UnrealizedPnL SafeFloat `json:"unrealizedPnl"`
	Notional      SafeFloat `json:"notional"`
}

// AssetPosition pairs an asset identifier with its open position.
type AssetPosition struct {
	Asset    AssetName `json:"asset"`
	Position *Position `json:"position"`
}

// ClearinghouseState is the current account state of a wallet. Every
// sub-object may be null.
type ClearinghouseState struct {
	MarginSummary  *MarginSummary   `json:"marginSummary"`
	AssetPositions []*AssetPosition `json:"assetPositions"`
}
