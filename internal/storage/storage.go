package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/hyperscout/internal/config"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB wraps the GORM database connection
type DB struct {
	conn *gorm.DB
	log  *logrus.Logger
}

// New creates a new database connection with GORM
func New(cfg *config.Config, log *logrus.Logger) (*DB, error) {
	gormLogger := logger.New(
		&gormLogAdapter{log: log},
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	conn, err := gorm.Open(mysql.Open(cfg.DatabaseDSN), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.DatabaseMaxConns)
	sqlDB.SetMaxIdleConns(cfg.DatabaseMaxConns / 2)
	sqlDB.SetConnMaxIdleTime(cfg.DatabaseMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	log.Info("Database connection established")

	return &DB{conn: conn, log: log}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	sqlDB, err := db.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// AutoMigrate runs GORM auto-migration
func (db *DB) AutoMigrate() error {
	return db.conn.AutoMigrate(
		&ScanRun{},
		&WalletMetric{},
		&RankedWallet{},
	)
}

// BeginRun inserts a new scan run and returns its ID
func (db *DB) BeginRun(ctx context.Context) (uint64, error) {
	run := ScanRun{StartedTS: time.Now().Unix()}
	if result := db.conn.WithContext(ctx).Create(&run); result.Error != nil {
		return 0, result.Error
	}
	return run.ID, nil
}

// FinishRun records the outcome counts of a completed run
func (db *DB) FinishRun(ctx context.Context, run *ScanRun) error {
	run.FinishedTS = time.Now().Unix()
	result := db.conn.WithContext(ctx).Save(run)
	return result.Error
}

// SaveMetrics batch-inserts the metrics rows of a run
func (db *DB) SaveMetrics(ctx context.Context, rows []WalletMetric) error {
	if len(rows) == 0 {
		return nil
	}
	result := db.conn.WithContext(ctx).CreateInBatches(rows, 200)
	return result.Error
}

// SaveRanking batch-inserts the ranked rows of a run
func (db *DB) SaveRanking(ctx context.Context, rows []RankedWallet) error {
	if len(rows) == 0 {
		return nil
	}
	result := db.conn.WithContext(ctx).CreateInBatches(rows, 200)
	return result.Error
}

// gormLogAdapter bridges GORM's logger to logrus
type gormLogAdapter struct {
	log *logrus.Logger
}

func (a *gormLogAdapter) Printf(format string, args ...interface{}) {
	a.log.Infof(format, args...)
}
