package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dvloznov/statement-insights/internal/config"
	"github.com/dvloznov/statement-insights/internal/extract"
	infraBQ "github.com/dvloznov/statement-insights/internal/infra/bigquery"
	"github.com/dvloznov/statement-insights/internal/jobs/inmemory"
	"github.com/dvloznov/statement-insights/internal/logger"
	"github.com/dvloznov/statement-insights/internal/pipeline"
	"github.com/dvloznov/statement-insights/internal/store"
)

func main() {
	configFile := flag.String("config", "", "path to a YAML config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		bootLog := logger.New()
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log := logger.NewWithLevel(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	parser, err := extract.NewGeminiParser(ctx, cfg.Model)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create statement parser")
	}
	categorizer, err := extract.NewGeminiCategorizer(ctx, cfg.Model)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create categorizer")
	}

	fs, err := store.NewFS(cfg.OutputDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to prepare output directory")
	}

	opts := []pipeline.Option{
		pipeline.WithMaxAttempts(cfg.MaxAttempts),
		pipeline.WithBackoff(cfg.RetryBackoff),
		pipeline.WithCategorizer(categorizer),
	}

	var ledger pipeline.DocumentLedger
	if cfg.BigQueryProject != "" {
		bqLedger, err := infraBQ.NewLedger(ctx, cfg.BigQueryProject, cfg.BigQueryDataset)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create run ledger")
		}
		defer bqLedger.Close()
		ledger = bqLedger
		opts = append(opts, pipeline.WithLedger(bqLedger))
	}

	processor := pipeline.NewProcessor(parser, log, opts...)
	service := pipeline.NewService(processor, fs, ledger, log)

	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(100, cfg.Workers, jobStore)

	log.Info().Int("workers", cfg.Workers).Msg("Starting worker service")

	if err := jobQueue.Start(ctx, service.HandleJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to start job consumer")
	}

	log.Info().Msg("Worker service started, waiting for jobs...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down worker service...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during graceful shutdown")
	}

	log.Info().Msg("Worker service exited")
}
