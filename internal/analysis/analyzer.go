// Package analysis turns a wallet's raw daily PnL/equity history into
// risk-adjusted performance metrics, extracts current-position exposure,
// and flags bot-like trading patterns.
package analysis

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/hyperscout/internal/config"
	"github.com/hyperscout/internal/hyperliquid"
)

// Reason explains why a metrics record is degenerate.
type Reason string

const (
	ReasonNone                Reason = ""
	ReasonInsufficientHistory Reason = "insufficient_history"
	ReasonZeroEquity          Reason = "zero_equity"
	ReasonTransferOverflow    Reason = "transfer_overflow"
	ReasonParseError          Reason = "parse_error"
)

// Metrics is the derived performance record for one wallet. Degenerate
// records carry zeroed metric values plus the reason they could not be
// computed; the numeric fields match what a consumer of the output table
// sees either way.
type Metrics struct {
	Sharpe        float64
	MaxDrawdown   float64 // worst peak-to-current PnL decline as a fraction of same-day equity
	WinRate       float64
	CumPnLPct     float64 // product of (1+daily return) terms; 1.0 = breakeven, 0 when degenerate
	TraderAgeDays int
	AgeKnown      bool
	TotalDays     int // usable days folded into the metrics
	TransferCount int
	Degenerate    bool
	Reason        Reason
}

// stdFloor guards the Sharpe division against near-zero variance blowups.
const stdFloor = 1e-10

// Analyzer computes Metrics from portfolio history windows.
type Analyzer struct {
	transferTolerance float64
	maxTransferCount  int
	minHistoryDays    int
}

// NewAnalyzer creates an analyzer with the configured anomaly-filter tuning.
func NewAnalyzer(cfg *config.Config) *Analyzer {
	return &Analyzer{
		transferTolerance: cfg.TransferTolerance,
		maxTransferCount:  cfg.MaxTransferCount,
		minHistoryDays:    cfg.MinHistoryDays,
	}
}

// Analyze walks the parallel PnL and equity series of one window and
// computes the wallet's metrics. It never fails: anything it cannot make
// sense of comes back as a degenerate record.
func (a *Analyzer) Analyze(window *hyperliquid.PortfolioWindow) Metrics {
	if window == nil {
		return Metrics{Degenerate: true, Reason: ReasonParseError}
	}

	pnl := window.PnLHistory
	equity := window.AccountValueHistory
	if len(equity) < len(pnl) {
		return Metrics{Degenerate: true, Reason: ReasonParseError}
	}

	var ageDays int
	var ageKnown bool
	if len(pnl) > 0 {
		ageDays, ageKnown = traderAge(pnl[0].Date, time.Now())
	}

	var (
		returns       []float64
		cumulativePnL float64
		runningPeak   float64
		maxDrawdown   float64
		winDays       int
		transfers     int
		cumReturn     = 1.0
	)

	// Index 0 only anchors trader age; returns start at day 1.
	for i := 1; i < len(pnl); i++ {
		if pnl[i].Date != equity[i].Date {
			// Misaligned feed; the day is unusable.
			continue
		}

		dayPnL := pnl[i].Value
		dayEquity := equity[i].Value
		prevEquity := equity[i-1].Value

		// A day whose PnL-implied equity misses the reported equity by more
		// than the tolerance is a deposit or withdrawal, not trading.
		implied := prevEquity + dayPnL
		if implied > (1+a.transferTolerance)*dayEquity || implied < (1-a.transferTolerance)*dayEquity {
			transfers++
			continue
		}

		if prevEquity == 0 {
			return Metrics{
				Degenerate:    true,
				Reason:        ReasonZeroEquity,
				TraderAgeDays: ageDays,
				AgeKnown:      ageKnown,
				TransferCount: transfers,
			}
		}
		if transfers > a.maxTransferCount {
			return Metrics{
				Degenerate:    true,
				Reason:        ReasonTransferOverflow,
				TraderAgeDays: ageDays,
				AgeKnown:      ageKnown,
				TransferCount: transfers,
			}
		}

		cumulativePnL += dayPnL
		runningPeak = math.Max(runningPeak, cumulativePnL)
		drawdown := math.Max(0, runningPeak-cumulativePnL)
		if dayEquity > 0 {
			if pct := drawdown / dayEquity; pct > maxDrawdown {
				maxDrawdown = pct
			}
		}

		dailyReturn := dayPnL / prevEquity
		cumReturn *= 1 + dailyReturn
		if dailyReturn > 0 {
			winDays++
		}
		returns = append(returns, dailyReturn)
	}

	if len(returns) < a.minHistoryDays {
		return Metrics{
			Degenerate:    true,
			Reason:        ReasonInsufficientHistory,
			TraderAgeDays: ageDays,
			AgeKnown:      ageKnown,
			TotalDays:     len(returns),
			TransferCount: transfers,
		}
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	std := math.Sqrt(variance / float64(len(returns)))

	sharpe := 0.0
	if !math.IsNaN(std) && std >= stdFloor {
		sharpe = math.Sqrt(365) * mean / std
		if math.IsInf(sharpe, 0) || math.IsNaN(sharpe) {
			sharpe = 0
		}
	}

	return Metrics{
		Sharpe:        sharpe,
		MaxDrawdown:   maxDrawdown,
		WinRate:       float64(winDays) / float64(len(returns)),
		CumPnLPct:     cumReturn,
		TraderAgeDays: ageDays,
		AgeKnown:      ageKnown,
		TotalDays:     len(returns),
		TransferCount: transfers,
	}
}

// traderAge derives whole days between the first history entry and now. The
// raw token may be a unix timestamp (milliseconds when above 1e10, seconds
// otherwise) or an ISO-8601 date; anything else leaves the age unknown.
func traderAge(raw string, now time.Time) (int, bool) {
	if raw == "" {
		return 0, false
	}

	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		secs := v
		if v > 1e10 {
			secs = v / 1000
		}
		first := time.Unix(int64(secs), 0)
		return int(now.Sub(first).Hours() / 24), true
	}

	datePart := raw
	if idx := strings.IndexByte(raw, 'T'); idx >= 0 {
		datePart = raw[:idx]
	}
	if first, err := time.Parse("2006-01-02", datePart); err == nil {
		return int(now.Sub(first).Hours() / 24), true
	}

	return 0, false
}
