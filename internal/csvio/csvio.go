// Package csvio holds the load/save contracts: labeled address lists in,
// metrics and ranking tables out.
package csvio

import (
	"encoding/csv"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/hyperscout/internal/dedup"
	"github.com/sirupsen/logrus"
)

// addressPattern is the shape of a valid wallet address.
var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// ValidAddress reports whether s is a well-formed wallet address.
func ValidAddress(s string) bool {
	return addressPattern.MatchString(s)
}

// Row is one wallet's line in the full metrics table.
type Row struct {
	Address         string
	Sharpe          float64
	MaxDrawdown     float64
	WinRate         float64
	CumPnLPct       float64
	TraderAgeDays   int
	AgeKnown        bool
	TotalTrades     int
	NumPositions    int
	UnrealizedPnL   float64
	AccountValue    float64
	ExposurePct     float64
	TotalMarginUsed float64
	IsHyperScraper  bool
	Sources         string
}

// RankedRow is one line of the ranked companion table.
type RankedRow struct {
	Rank  int
	Score float64
	Row
}

// LoadAddressLists reads a wallet library CSV (header with an address
// column and an optional source column) and groups rows into labeled lists
// in first-appearance order. Rows that do not look like wallet addresses
// are skipped with a warning.
func LoadAddressLists(path string, log *logrus.Logger) ([]dedup.List, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	addressCol, sourceCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "address":
			addressCol = i
		case "source", "sources":
			sourceCol = i
		}
	}
	if addressCol < 0 {
		return nil, fmt.Errorf("%s: no address column in header %v", path, header)
	}

	var order []string
	bySource := make(map[string]*dedup.List)
	for {
		record, err := r.Read()
		if err != nil {
			break
		}
		if addressCol >= len(record) {
			continue
		}

		address := strings.TrimSpace(record[addressCol])
		if !ValidAddress(address) {
			log.WithField("value", address).Warn("Skipping malformed address row")
			continue
		}

		source := "unknown"
		if sourceCol >= 0 && sourceCol < len(record) {
			if s := strings.TrimSpace(record[sourceCol]); s != "" {
				source = s
			}
		}

		list, ok := bySource[source]
		if !ok {
			list = &dedup.List{Source: source}
			bySource[source] = list
			order = append(order, source)
		}
		list.Addresses = append(list.Addresses, address)
	}

	lists := make([]dedup.List, 0, len(order))
	for _, source := range order {
		lists = append(lists, *bySource[source])
	}
	return lists, nil
}

var metricsHeader = []string{
	"address", "sharpe_ratio", "max_drawdown", "win_rate", "cum_pnl_pct",
	"trader_age_days", "total_trades", "num_positions", "unrealized_pnl",
	"account_value", "exposure_pct", "total_margin_used", "is_hyper_scraper",
	"sources",
}

// WriteMetrics writes the full metrics table for every wallet in the run.
func WriteMetrics(path string, rows []Row) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(metricsHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row.fields()); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

// WriteRanked writes the ranked companion table, sorted by rank ascending.
func WriteRanked(path string, rows []RankedRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	header := append([]string{"rank", "performance_score"}, metricsHeader...)

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		fields := append([]string{
			strconv.Itoa(row.Rank),
			formatFloat(row.Score),
		}, row.fields()...)
		if err := w.Write(fields); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

// RankedPath derives the ranked table's path from the metrics table's path.
func RankedPath(metricsPath string) string {
	if strings.HasSuffix(metricsPath, ".csv") {
		return strings.TrimSuffix(metricsPath, ".csv") + "_ranked.csv"
	}
	return metricsPath + "_ranked"
}

func (r Row) fields() []string {
	age := ""
	if r.AgeKnown {
		age = strconv.Itoa(r.TraderAgeDays)
	}
	return []string{
		r.Address,
		formatFloat(r.Sharpe),
		formatFloat(r.MaxDrawdown),
		formatFloat(r.WinRate),
		formatFloat(r.CumPnLPct),
		age,
		strconv.Itoa(r.TotalTrades),
		strconv.Itoa(r.NumPositions),
		formatFloat(r.UnrealizedPnL),
		formatFloat(r.AccountValue),
		formatFloat(r.ExposurePct),
		formatFloat(r.TotalMarginUsed),
		strconv.FormatBool(r.IsHyperScraper),
		r.Sources,
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
