// Package rank filters analyzed wallets against threshold criteria and
// orders the survivors by a weighted composite performance score.
package rank

import (
	"sort"

	"github.com/hyperscout/internal/analysis"
)

// Entry is one analyzed wallet offered to the ranker.
type Entry struct {
	Address        string
	Metrics        analysis.Metrics
	Positions      *analysis.PositionSnapshot
	Sources        string
	IsHyperScraper bool
}

// RankedEntry is an Entry that survived filtering, with its composite score
// and dense 1-based rank.
type RankedEntry struct {
	Entry
	Score float64
	Rank  int
}

// Criteria are the ranking filter thresholds. A non-positive MaxSharpe
// disables the upper Sharpe bound.
type Criteria struct {
	MinSharpe            float64
	MaxSharpe            float64
	MaxDrawdown          float64
	MinHistoryDays       int
	ExcludeHyperScrapers bool
}

// normEpsilon keeps a zero-spread column from dividing by zero.
const normEpsilon = 1e-6

// Composite score weights.
const (
	sharpeWeight   = 0.5
	drawdownWeight = 0.3
	winRateWeight  = 0.2
)

// Rank filters entries against the criteria, min-max normalizes the
// surviving metrics, scores, and orders descending by score. Ties keep
// input order. An empty surviving set returns nil.
func Rank(entries []Entry, c Criteria) []RankedEntry {
	var kept []Entry
	for _, e := range entries {
		if c.ExcludeHyperScrapers && e.IsHyperScraper {
			continue
		}
		m := e.Metrics
		if m.Sharpe < c.MinSharpe {
			continue
		}
		if c.MaxSharpe > 0 && m.Sharpe > c.MaxSharpe {
			continue
		}
		if m.MaxDrawdown > c.MaxDrawdown {
			continue
		}
		if m.TotalDays < c.MinHistoryDays {
			continue
		}
		kept = append(kept, e)
	}
	if len(kept) == 0 {
		return nil
	}

	minSharpe, maxSharpe := kept[0].Metrics.Sharpe, kept[0].Metrics.Sharpe
	minDD, maxDD := kept[0].Metrics.MaxDrawdown, kept[0].Metrics.MaxDrawdown
	minWR, maxWR := kept[0].Metrics.WinRate, kept[0].Metrics.WinRate
	for _, e := range kept[1:] {
		m := e.Metrics
		minSharpe = min(minSharpe, m.Sharpe)
		maxSharpe = max(maxSharpe, m.Sharpe)
		minDD = min(minDD, m.MaxDrawdown)
		maxDD = max(maxDD, m.MaxDrawdown)
		minWR = min(minWR, m.WinRate)
		maxWR = max(maxWR, m.WinRate)
	}

	ranked := make([]RankedEntry, len(kept))
	for i, e := range kept {
		m := e.Metrics
		sharpeNorm := (m.Sharpe - minSharpe) / (maxSharpe - minSharpe + normEpsilon)
		drawdownNorm := 1 - (m.MaxDrawdown-minDD)/(maxDD-minDD+normEpsilon)
		winRateNorm := (m.WinRate - minWR) / (maxWR - minWR + normEpsilon)

		ranked[i] = RankedEntry{
			Entry: e,
			Score: sharpeWeight*sharpeNorm + drawdownWeight*drawdownNorm + winRateWeight*winRateNorm,
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}

	return ranked
}
