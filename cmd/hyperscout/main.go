package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/hyperscout/internal/config"
	"github.com/hyperscout/internal/csvio"
	"github.com/hyperscout/internal/hyperliquid"
	"github.com/hyperscout/internal/metrics"
	"github.com/hyperscout/internal/notify"
	"github.com/hyperscout/internal/processor"
	"github.com/hyperscout/internal/rank"
	"github.com/hyperscout/internal/storage"
	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const topDisplayCount = 20

func main() {
	// Initialize logger
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	log.Info("Starting hyperscout scan...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	log.WithFields(logrus.Fields{
		"environment":       cfg.Environment,
		"input_csv":         cfg.InputCSV,
		"output_csv":        cfg.OutputCSV,
		"min_sharpe":        cfg.MinSharpe,
		"max_drawdown":      cfg.MaxDrawdown,
		"min_history_days":  cfg.MinHistoryDays,
		"fetch_interval_ms": cfg.FetchInterval.Milliseconds(),
		"fetch_concurrency": cfg.FetchConcurrency,
		"exclude_scrapers":  cfg.ExcludeHyperScrapers,
	}).Info("Configuration loaded")

	// Initialize database (optional)
	var db *storage.DB
	if cfg.DatabaseDSN != "" {
		db, err = storage.New(cfg, log)
		if err != nil {
			log.WithError(err).Fatal("Failed to connect to database")
		}
		defer db.Close()

		if err := db.AutoMigrate(); err != nil {
			log.WithError(err).Fatal("Failed to run database migrations")
		}
		log.Info("Database ready")
	} else {
		log.Info("DATABASE_DSN not set, persistence disabled")
	}

	// Initialize API client and notifier
	client := hyperliquid.NewClient(cfg)
	notifier := createNotifier(cfg, log)

	// Initialize processor
	proc := processor.New(cfg, client, db, notifier, log)

	// Start HTTP server (health + metrics)
	if cfg.MetricsPort > 0 {
		go startHTTPServer(cfg.MetricsPort, log)
	}

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.WithField("signal", sig).Info("Received shutdown signal")
		cancel()
	}()

	// Load the wallet library
	lists, err := csvio.LoadAddressLists(cfg.InputCSV, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to load wallet library")
	}

	// Run the scan
	report, err := proc.Run(ctx, lists)
	if err != nil {
		log.WithError(err).Fatal("Scan failed")
	}

	// Write output tables
	if err := csvio.WriteMetrics(cfg.OutputCSV, report.Rows); err != nil {
		log.WithError(err).Fatal("Failed to write metrics table")
	}
	log.WithField("path", cfg.OutputCSV).Info("Wrote metrics table")

	rankedPath := csvio.RankedPath(cfg.OutputCSV)
	if err := csvio.WriteRanked(rankedPath, report.RankedRows()); err != nil {
		log.WithError(err).Fatal("Failed to write ranked table")
	}
	log.WithField("path", rankedPath).Info("Wrote ranked table")

	printTopPerformers(report.Ranked)
}

func createNotifier(cfg *config.Config, log *logrus.Logger) notify.Sender {
	var senders []notify.Sender

	for _, mode := range strings.Split(cfg.NotifyMode, ",") {
		switch strings.TrimSpace(mode) {
		case "log":
			senders = append(senders, notify.NewLogSender(log))
		case "discord":
			if cfg.DiscordWebhookURL != "" {
				senders = append(senders, notify.NewDiscordSender(cfg.DiscordWebhookURL))
			} else {
				log.Warn("Discord mode specified but DISCORD_WEBHOOK_URL not set")
			}
		case "smtp":
			if cfg.SMTPHost != "" {
				senders = append(senders, notify.NewSMTPSender(
					cfg.SMTPHost,
					cfg.SMTPPort,
					cfg.SMTPUser,
					cfg.SMTPPassword,
					cfg.SMTPFrom,
					cfg.SMTPTo,
				))
			} else {
				log.Warn("SMTP mode specified but SMTP_HOST not set")
			}
		default:
			log.WithField("mode", mode).Warn("Unknown notify mode, skipping")
		}
	}

	if len(senders) == 0 {
		log.Warn("No valid notify senders configured, using log")
		return notify.NewLogSender(log)
	}
	if len(senders) == 1 {
		return senders[0]
	}
	return notify.NewMultiSender(senders...)
}

func printTopPerformers(ranked []rank.RankedEntry) {
	if len(ranked) == 0 {
		fmt.Println("No wallets passed the performance filter")
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Rank", "Address", "Sharpe", "Max DD", "Win Rate", "Score", "Sources"})
	for i, e := range ranked {
		if i >= topDisplayCount {
			break
		}
		table.Append([]string{
			strconv.Itoa(e.Rank),
			e.Address,
			fmt.Sprintf("%.2f", e.Metrics.Sharpe),
			fmt.Sprintf("%.1f%%", e.Metrics.MaxDrawdown*100),
			fmt.Sprintf("%.1f%%", e.Metrics.WinRate*100),
			fmt.Sprintf("%.3f", e.Score),
			e.Sources,
		})
	}
	table.Render()
}

func startHTTPServer(port int, log *logrus.Logger) {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		metrics.RecordHealthCheck(true)
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"healthy"}`)
	})

	mux.Handle("/metrics", promhttp.Handler())

	addr := fmt.Sprintf(":%d", port)
	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	log.WithField("port", port).Info("Starting HTTP server (health + metrics)")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Error("HTTP server failed")
	}
}
