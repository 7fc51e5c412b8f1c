// Package processor orchestrates a scan run: merge address lists, fetch
// each wallet's history and positions, analyze, classify, rank, persist.
package processor

import (
	"context"
	"strings"
	"time"

	"github.com/hyperscout/internal/analysis"
	"github.com/hyperscout/internal/config"
	"github.com/hyperscout/internal/csvio"
	"github.com/hyperscout/internal/dedup"
	"github.com/hyperscout/internal/fetcher"
	"github.com/hyperscout/internal/hyperliquid"
	"github.com/hyperscout/internal/metrics"
	"github.com/hyperscout/internal/notify"
	"github.com/hyperscout/internal/rank"
	"github.com/hyperscout/internal/storage"
	"github.com/sirupsen/logrus"
)

// Processor runs the analysis pipeline end to end
type Processor struct {
	cfg      *config.Config
	client   *hyperliquid.Client
	db       *storage.DB // nil disables persistence
	notifier notify.Sender
	analyzer *analysis.Analyzer
	log      *logrus.Logger
}

// New creates a new processor
func New(
	cfg *config.Config,
	client *hyperliquid.Client,
	db *storage.DB,
	notifier notify.Sender,
	log *logrus.Logger,
) *Processor {
	return &Processor{
		cfg:      cfg,
		client:   client,
		db:       db,
		notifier: notifier,
		analyzer: analysis.NewAnalyzer(cfg),
		log:      log,
	}
}

// Report is the outcome of one scan run.
type Report struct {
	StartedAt         time.Time
	Duration          time.Duration
	WalletCount       int
	HyperScraperCount int
	FetchErrorCount   int
	Rows              []csvio.Row
	Ranked            []rank.RankedEntry
}

// Run executes one full scan over the given labeled address lists. Only the
// run itself can fail; a single wallet's fetch or analysis failure is
// recorded in its row and never aborts the batch.
func (p *Processor) Run(ctx context.Context, lists []dedup.List) (*Report, error) {
	start := time.Now()

	merged := dedup.Merge(lists...)
	addresses := merged.Addresses

	raw := 0
	for _, list := range lists {
		raw += len(list.Addresses)
	}
	p.log.WithFields(logrus.Fields{
		"sources":    len(lists),
		"raw":        raw,
		"unique":     len(addresses),
		"duplicates": raw - len(addresses),
	}).Info("Merged address lists")

	// Phase 1: portfolio histories for every wallet.
	p.log.WithField("wallets", len(addresses)).Info("Fetching portfolio histories")
	portfolios := fetcher.All(ctx, addresses, p.cfg.FetchConcurrency, p.log, p.client.Portfolio)

	// Phase 2: pure analysis over the completed batch.
	fetchErrors := 0
	metricsByAddr := make(map[string]analysis.Metrics, len(addresses))
	for _, address := range addresses {
		res := portfolios[strings.ToLower(address)]
		if res.Err != nil {
			// No history, no metrics; the wallet keeps a zeroed row.
			fetchErrors++
			metricsByAddr[strings.ToLower(address)] = analysis.Metrics{}
			metrics.WalletsAnalyzed.WithLabelValues("fetch_error").Inc()
			continue
		}

		m := p.analyzer.Analyze(res.Payload.PerpMonth())
		metricsByAddr[strings.ToLower(address)] = m
		metrics.WalletsAnalyzed.WithLabelValues(analysisOutcome(m)).Inc()
	}

	// Phase 3: current open positions.
	p.log.WithField("wallets", len(addresses)).Info("Fetching current positions")
	states := fetcher.All(ctx, addresses, p.cfg.FetchConcurrency, p.log, p.client.ClearinghouseState)

	hyperScrapers := 0
	entries := make([]rank.Entry, 0, len(addresses))
	rows := make([]csvio.Row, 0, len(addresses))
	for _, address := range addresses {
		low := strings.ToLower(address)
		m := metricsByAddr[low]

		var snap *analysis.PositionSnapshot
		if res := states[low]; res.Err == nil {
			snap = analysis.ExtractPositions(res.Payload)
		} else {
			fetchErrors++
		}

		hyper := analysis.IsHyperScraper(m)
		if hyper {
			hyperScrapers++
			metrics.HyperScrapersFlagged.Inc()
		}

		sources := merged.SourceFor(address)
		entries = append(entries, rank.Entry{
			Address:        address,
			Metrics:        m,
			Positions:      snap,
			Sources:        sources,
			IsHyperScraper: hyper,
		})
		rows = append(rows, buildRow(address, m, snap, sources, hyper))
	}

	ranked := rank.Rank(entries, rank.Criteria{
		MinSharpe:            p.cfg.MinSharpe,
		MaxSharpe:            p.cfg.MaxSharpe,
		MaxDrawdown:          p.cfg.MaxDrawdown,
		MinHistoryDays:       p.cfg.MinHistoryDays,
		ExcludeHyperScrapers: p.cfg.ExcludeHyperScrapers,
	})
	metrics.WalletsRanked.Set(float64(len(ranked)))

	report := &Report{
		StartedAt:         start,
		Duration:          time.Since(start),
		WalletCount:       len(addresses),
		HyperScraperCount: hyperScrapers,
		FetchErrorCount:   fetchErrors,
		Rows:              rows,
		Ranked:            ranked,
	}

	p.log.WithFields(logrus.Fields{
		"wallets":        report.WalletCount,
		"ranked":         len(ranked),
		"hyper_scrapers": hyperScrapers,
		"fetch_errors":   fetchErrors,
	}).Info("Scan complete")

	if p.db != nil {
		if err := p.persist(ctx, report); err != nil {
			p.log.WithError(err).Error("Failed to persist scan run")
		}
	}

	if p.notifier != nil {
		if err := p.notifier.Send(ctx, p.buildSummary(report)); err != nil {
			metrics.NotificationsSent.WithLabelValues("error").Inc()
			p.log.WithError(err).Error("Failed to send run notification")
		} else {
			metrics.NotificationsSent.WithLabelValues("success").Inc()
		}
	}

	metrics.RunDuration.Observe(report.Duration.Seconds())
	return report, nil
}

func analysisOutcome(m analysis.Metrics) string {
	if !m.Degenerate {
		return "computed"
	}
	return string(m.Reason)
}

func buildRow(address string, m analysis.Metrics, snap *analysis.PositionSnapshot, sources string, hyper bool) csvio.Row {
	row := csvio.Row{
		Address:        address,
		Sharpe:         m.Sharpe,
		MaxDrawdown:    m.MaxDrawdown,
		WinRate:        m.WinRate,
		CumPnLPct:      m.CumPnLPct,
		TraderAgeDays:  m.TraderAgeDays,
		AgeKnown:       m.AgeKnown,
		TotalTrades:    m.TotalDays,
		IsHyperScraper: hyper,
		Sources:        sources,
	}
	if snap != nil {
		row.NumPositions = snap.NumPositions
		row.UnrealizedPnL = snap.UnrealizedPnL
		row.AccountValue = snap.AccountValue
		row.ExposurePct = snap.ExposurePct
		row.TotalMarginUsed = snap.TotalMarginUsed
	}
	return row
}

// RankedRows pairs each surviving wallet with its full metrics row, sorted
// by rank ascending, ready for the ranked output table.
func (r *Report) RankedRows() []csvio.RankedRow {
	byAddress := make(map[string]csvio.Row, len(r.Rows))
	for _, row := range r.Rows {
		byAddress[strings.ToLower(row.Address)] = row
	}

	ranked := make([]csvio.RankedRow, 0, len(r.Ranked))
	for _, e := range r.Ranked {
		ranked = append(ranked, csvio.RankedRow{
			Rank:  e.Rank,
			Score: e.Score,
			Row:   byAddress[strings.ToLower(e.Address)],
		})
	}
	return ranked
}

func (p *Processor) persist(ctx context.Context, report *Report) error {
	runID, err := p.db.BeginRun(ctx)
	if err != nil {
		return err
	}

	now := time.Now().Unix()
	metricRows := make([]storage.WalletMetric, 0, len(report.Rows))
	for _, row := range report.Rows {
		metricRows = append(metricRows, storage.WalletMetric{
			RunID:           runID,
			WalletAddress:   strings.ToLower(row.Address),
			Sharpe:          row.Sharpe,
			MaxDrawdown:     row.MaxDrawdown,
			WinRate:         row.WinRate,
			CumPnLPct:       row.CumPnLPct,
			TraderAgeDays:   row.TraderAgeDays,
			AgeKnown:        row.AgeKnown,
			TotalTrades:     row.TotalTrades,
			NumPositions:    row.NumPositions,
			UnrealizedPnL:   row.UnrealizedPnL,
			AccountValue:    row.AccountValue,
			ExposurePct:     row.ExposurePct,
			TotalMarginUsed: row.TotalMarginUsed,
			IsHyperScraper:  row.IsHyperScraper,
			Sources:         row.Sources,
			CreatedTS:       now,
		})
	}
	if err := p.db.SaveMetrics(ctx, metricRows); err != nil {
		return err
	}

	rankedRows := make([]storage.RankedWallet, 0, len(report.Ranked))
	for _, e := range report.Ranked {
		rankedRows = append(rankedRows, storage.RankedWallet{
			RunID:            runID,
			WalletAddress:    strings.ToLower(e.Address),
			Rank:             e.Rank,
			PerformanceScore: e.Score,
			Sharpe:           e.Metrics.Sharpe,
			MaxDrawdown:      e.Metrics.MaxDrawdown,
			WinRate:          e.Metrics.WinRate,
			Sources:          e.Sources,
			CreatedTS:        now,
		})
	}
	if err := p.db.SaveRanking(ctx, rankedRows); err != nil {
		return err
	}

	return p.db.FinishRun(ctx, &storage.ScanRun{
		ID:                runID,
		StartedTS:         report.StartedAt.Unix(),
		WalletCount:       report.WalletCount,
		RankedCount:       len(report.Ranked),
		HyperScraperCount: report.HyperScraperCount,
		FetchErrorCount:   report.FetchErrorCount,
	})
}

func (p *Processor) buildSummary(report *Report) *notify.RunSummary {
	summary := &notify.RunSummary{
		Environment:       p.cfg.Environment,
		StartedAt:         report.StartedAt,
		Duration:          report.Duration,
		WalletCount:       report.WalletCount,
		RankedCount:       len(report.Ranked),
		HyperScraperCount: report.HyperScraperCount,
		FetchErrorCount:   report.FetchErrorCount,
	}

	topN := p.cfg.NotifyTopN
	for _, e := range report.Ranked {
		if len(summary.Top) >= topN {
			break
		}
		summary.Top = append(summary.Top, notify.TopEntry{
			Rank:     e.Rank,
			Address:  e.Address,
			Sharpe:   e.Metrics.Sharpe,
			Drawdown: e.Metrics.MaxDrawdown,
			WinRate:  e.Metrics.WinRate,
			Score:    e.Score,
			Sources:  e.Sources,
		})
	}

	return summary
}
