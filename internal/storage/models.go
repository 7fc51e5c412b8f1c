package storage

// ScanRun records one full scan of the wallet library.
type ScanRun struct {
	ID                uint64 `gorm:"primaryKey;autoIncrement"`
	StartedTS         int64  `gorm:"not null;index"`
	FinishedTS        int64  `gorm:"not null;default:0"`
	WalletCount       int    `gorm:"not null;default:0"`
	RankedCount       int    `gorm:"not null;default:0"`
	HyperScraperCount int    `gorm:"not null;default:0"`
	FetchErrorCount   int    `gorm:"not null;default:0"`
}

func (ScanRun) TableName() string {
	return "scan_runs"
}

// WalletMetric is one wallet's metrics row for a run.
type WalletMetric struct {
	RunID           uint64  `gorm:"primaryKey"`
	WalletAddress   string  `gorm:"primaryKey;size:64"`
	Sharpe          float64 `gorm:"type:decimal(20,8);not null"`
	MaxDrawdown     float64 `gorm:"type:decimal(20,8);not null"`
	WinRate         float64 `gorm:"type:decimal(10,8);not null"`
	CumPnLPct       float64 `gorm:"type:decimal(20,8);not null"`
	TraderAgeDays   int     `gorm:"not null;default:0"`
	AgeKnown        bool    `gorm:"not null;default:false"`
	TotalTrades     int     `gorm:"not null;default:0"`
	NumPositions    int     `gorm:"not null;default:0"`
	UnrealizedPnL   float64 `gorm:"type:decimal(20,6);not null"`
	AccountValue    float64 `gorm:"type:decimal(20,6);not null"`
	ExposurePct     float64 `gorm:"type:decimal(10,4);not null"`
	TotalMarginUsed float64 `gorm:"type:decimal(20,6);not null"`
	IsHyperScraper  bool    `gorm:"not null;default:false;index"`
	Sources         string  `gorm:"size:255"`
	CreatedTS       int64   `gorm:"not null"`
}

func (WalletMetric) TableName() string {
	return "wallet_metrics"
}

// RankedWallet is one wallet that survived the ranking filter in a run.
type RankedWallet struct {
	RunID            uint64  `gorm:"primaryKey"`
	WalletAddress    string  `gorm:"primaryKey;size:64"`
	Rank             int     `gorm:"not null;index"`
	PerformanceScore float64 `gorm:"type:decimal(10,8);not null"`
	Sharpe           float64 `gorm:"type:decimal(20,8);not null"`
	MaxDrawdown      float64 `gorm:"type:decimal(20,8);not null"`
	WinRate          float64 `gorm:"type:decimal(10,8);not null"`
	Sources          string  `gorm:"size:255"`
	CreatedTS        int64   `gorm:"not null"`
}

func (RankedWallet) TableName() string {
	return "ranked_wallets"
}
