package notify

import (
	"context"

	"github.com/sirupsen/logrus"
)

// LogSender writes run summaries to the logger
type LogSender struct {
	log *logrus.Logger
}

// NewLogSender creates a new log sender
func NewLogSender(log *logrus.Logger) *LogSender {
	return &LogSender{log: log}
}

// Send logs the run summary
func (s *LogSender) Send(ctx context.Context, summary *RunSummary) error {
	s.log.WithFields(logrus.Fields{
		"wallets":        summary.WalletCount,
		"ranked":         summary.RankedCount,
		"hyper_scrapers": summary.HyperScraperCount,
		"fetch_errors":   summary.FetchErrorCount,
		"duration":       summary.Duration.String(),
	}).Info("Scan run complete")

	for _, entry := range summary.Top {
		s.log.WithFields(logrus.Fields{
			"rank":     entry.Rank,
			"wallet":   shortAddress(entry.Address),
			"sharpe":   entry.Sharpe,
			"drawdown": entry.Drawdown,
			"win_rate": entry.WinRate,
			"score":    entry.Score,
			"sources":  entry.Sources,
		}).Info("Top trader candidate")
	}
	return nil
}
