package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/constituency-office/citizen-portal/internal/core/events"
	"github.com/constituency-office/citizen-portal/internal/news"
	newspg "github.com/constituency-office/citizen-portal/internal/news/postgres"
	"github.com/constituency-office/citizen-portal/pkg/logger"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background workers",
	Long:  `Start and manage background workers like the scheduled news publisher.`,
}

// News scheduler command
var newsWorkerCmd = &cobra.Command{
	Use:   "news",
	Short: "Start the scheduled news publisher",
	Long:  `Sweep scheduled news items and publish the ones whose publish time has passed`,
	Run: func(cmd *cobra.Command, args []string) {
		startNewsWorker()
	},
}

// Event Bus worker command
var eventWorkerCmd = &cobra.Command{
	Use:   "events",
	Short: "Start event bus worker",
	Long:  `Start the event bus `,
	Run: func(cmd *cobra.Command, args []string) {
		startEventWorker()
	},
}

var sweepInterval time.Duration

func startNewsWorker() {
	cfg, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	lg := logger.LoggerWrapper()

	sqlxDB, err := initDB(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init db: %v\n", err)
		os.Exit(1)
	}
	defer sqlxDB.Close()

	gdb, err := initGorm(sqlxDB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init orm: %v\n", err)
		os.Exit(1)
	}

	newsService := news.NewService(newspg.NewNewsRepository(gdb), lg)

	lg.Info("news scheduler started", "interval", sweepInterval.String())

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			if _, err := newsService.PublishDueScheduled(); err != nil {
				lg.Error("news sweep failed", "error", err)
			}
		case sig := <-sigChan:
			lg.Info("received signal, shutting down news scheduler", "signal", sig)
			return
		}
	}
}

func startEventWorker() {
	_, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logger.LoggerWrapper()

	eventBus := events.NewEventBus(logger)

	eventBus.Subscribe("test.event", func(ctx context.Context, event events.Event) error {
		logger.Info("received test event",
			"event_id", event.EventID(),
			"event_type", event.EventType(),
			"payload", event.Payload())
		return nil
	})

	logger.Info("event bus worker started. Waiting for events...")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("event bus is running. Press Ctrl+C to stop.")

	sig := <-sigChan
	logger.Info("received signal, shutting down event bus", "signal", sig)
	logger.Info("event bus shutdown complete")
}

func init() {
	newsWorkerCmd.Flags().DurationVar(&sweepInterval, "interval", time.Minute, "How often to sweep for due scheduled news")

	workerCmd.AddCommand(newsWorkerCmd)
	workerCmd.AddCommand(eventWorkerCmd)

	rootCmd.AddCommand(workerCmd)
}
