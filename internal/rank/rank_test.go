package rank

import (
	"testing"

	"github.com/hyperscout/internal/analysis"
)

func passingCriteria() Criteria {
	return Criteria{MinSharpe: 1.5, MaxSharpe: 50, MaxDrawdown: 0.5, MinHistoryDays: 10}
}

func entry(addr string, sharpe, drawdown, winRate float64) Entry {
	return Entry{
		Address: addr,
		Metrics: analysis.Metrics{
			Sharpe:      sharpe,
			MaxDrawdown: drawdown,
			WinRate:     winRate,
			TotalDays:   30,
		},
	}
}

func TestRankFilters(t *testing.T) {
	lowSharpe := entry("0xlow", 1.0, 0.1, 0.6)
	highSharpe := entry("0xbot", 80, 0.1, 0.6)
	deepDrawdown := entry("0xdd", 2.0, 0.6, 0.6)
	shortHistory := entry("0xshort", 2.0, 0.1, 0.6)
	shortHistory.Metrics.TotalDays = 5
	scraper := entry("0xscraper", 2.0, 0.1, 0.6)
	scraper.IsHyperScraper = true
	keeper := entry("0xkeep", 2.0, 0.1, 0.6)

	c := passingCriteria()
	c.ExcludeHyperScrapers = true
	ranked := Rank([]Entry{lowSharpe, highSharpe, deepDrawdown, shortHistory, scraper, keeper}, c)

	if len(ranked) != 1 || ranked[0].Address != "0xkeep" {
		t.Fatalf("ranked = %+v, want only 0xkeep", ranked)
	}
	if ranked[0].Rank != 1 {
		t.Errorf("Rank = %d, want 1", ranked[0].Rank)
	}
}

func TestRankScraperIncludedWhenNotExcluding(t *testing.T) {
	scraper := entry("0xscraper", 2.0, 0.1, 0.6)
	scraper.IsHyperScraper = true

	ranked := Rank([]Entry{scraper}, passingCriteria())
	if len(ranked) != 1 {
		t.Fatalf("ranked %d entries, want 1 when exclusion is off", len(ranked))
	}
}

func TestRankMaxSharpeDisabled(t *testing.T) {
	c := passingCriteria()
	c.MaxSharpe = 0
	ranked := Rank([]Entry{entry("0xhot", 120, 0.1, 0.6)}, c)
	if len(ranked) != 1 {
		t.Fatalf("non-positive MaxSharpe must disable the upper bound, got %d entries", len(ranked))
	}
}

func TestRankEmptyResultIsNil(t *testing.T) {
	if ranked := Rank(nil, passingCriteria()); ranked != nil {
		t.Errorf("Rank(nil) = %v, want nil", ranked)
	}
	if ranked := Rank([]Entry{entry("0xlow", 0.1, 0.1, 0.6)}, passingCriteria()); ranked != nil {
		t.Errorf("all-filtered input = %v, want nil", ranked)
	}
}

func TestRankDrawdownBreaksSharpeTie(t *testing.T) {
	// Equal Sharpe and win rate, different drawdown: the shallower
	// drawdown must score and rank higher.
	shallow := entry("0xshallow", 2.0, 0.05, 0.6)
	deep := entry("0xdeep", 2.0, 0.40, 0.6)

	ranked := Rank([]Entry{deep, shallow}, passingCriteria())
	if len(ranked) != 2 {
		t.Fatalf("ranked %d entries, want 2", len(ranked))
	}
	if ranked[0].Address != "0xshallow" {
		t.Errorf("top entry = %s, want 0xshallow", ranked[0].Address)
	}
	if ranked[0].Score <= ranked[1].Score {
		t.Errorf("scores %v <= %v, want strictly decreasing", ranked[0].Score, ranked[1].Score)
	}
	if ranked[0].Rank != 1 || ranked[1].Rank != 2 {
		t.Errorf("ranks = %d, %d, want 1, 2", ranked[0].Rank, ranked[1].Rank)
	}
}

func TestRankOrdering(t *testing.T) {
	best := entry("0xbest", 3.0, 0.05, 0.8)
	mid := entry("0xmid", 2.5, 0.10, 0.6)
	worst := entry("0xworst", 1.6, 0.45, 0.4)

	ranked := Rank([]Entry{worst, best, mid}, passingCriteria())
	if len(ranked) != 3 {
		t.Fatalf("ranked %d entries, want 3", len(ranked))
	}
	want := []string{"0xbest", "0xmid", "0xworst"}
	for i, w := range want {
		if ranked[i].Address != w {
			t.Errorf("rank %d = %s, want %s", i+1, ranked[i].Address, w)
		}
		if ranked[i].Rank != i+1 {
			t.Errorf("Rank = %d, want %d", ranked[i].Rank, i+1)
		}
	}
}

func TestRankTiesKeepInputOrder(t *testing.T) {
	a := entry("0xfirst", 2.0, 0.1, 0.6)
	b := entry("0xsecond", 2.0, 0.1, 0.6)

	ranked := Rank([]Entry{a, b}, passingCriteria())
	if len(ranked) != 2 {
		t.Fatalf("ranked %d entries, want 2", len(ranked))
	}
	if ranked[0].Address != "0xfirst" || ranked[1].Address != "0xsecond" {
		t.Errorf("tied entries reordered: %s, %s", ranked[0].Address, ranked[1].Address)
	}
}
