// Package notify delivers end-of-run summaries to analysts.
package notify

import (
	"context"
	"time"
)

// TopEntry is one ranked wallet included in a run summary.
type TopEntry struct {
	Rank     int
	Address  string
	Sharpe   float64
	Drawdown float64
	WinRate  float64
	Score    float64
	Sources  string
}

// RunSummary describes one completed scan run.
type RunSummary struct {
	Environment       string
	StartedAt         time.Time
	Duration          time.Duration
	WalletCount       int
	RankedCount       int
	HyperScraperCount int
	FetchErrorCount   int
	Top               []TopEntry
}

// Sender defines the interface for run-summary senders
type Sender interface {
	Send(ctx context.Context, summary *RunSummary) error
}

func shortAddress(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:10] + "..."
}
