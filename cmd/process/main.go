// Command process is the batch CLI: it optionally converts a directory of
// statement PDFs to text, runs every statement through the parse pipeline,
// writes per-statement and combined JSON, and prints a summary report.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/google/uuid"

	"github.com/dvloznov/statement-insights/internal/aggregate"
	"github.com/dvloznov/statement-insights/internal/config"
	"github.com/dvloznov/statement-insights/internal/extract"
	infraBQ "github.com/dvloznov/statement-insights/internal/infra/bigquery"
	"github.com/dvloznov/statement-insights/internal/logger"
	"github.com/dvloznov/statement-insights/internal/pdftext"
	"github.com/dvloznov/statement-insights/internal/pipeline"
	"github.com/dvloznov/statement-insights/internal/store"
)

func main() {
	var (
		configFile = flag.String("config", "", "path to a YAML config file (optional)")
		inputDir   = flag.String("input", "statements", "directory of statement .txt files")
		pdfDir     = flag.String("pdf-dir", "", "directory of statement PDFs to convert into -input first (optional)")
	)
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		bootLog := logger.New()
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log := logger.NewWithLevel(cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *pdfDir != "" {
		written, err := pdftext.ConvertDir(*pdfDir, *inputDir)
		if err != nil {
			log.Fatal().Err(err).Msg("PDF conversion failed")
		}
		log.Info().Int("count", len(written)).Str("dir", *inputDir).Msg("Converted PDFs to text")
	}

	docs, err := loadDocuments(ctx, *inputDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load statement files")
	}
	if len(docs) == 0 {
		log.Fatal().Str("dir", *inputDir).Msg("No statement files found")
	}
	log.Info().Int("count", len(docs)).Msg("Loaded statement files")

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
	if cfg.BigQueryProject != "" {
		ledger, err := infraBQ.NewLedger(ctx, cfg.BigQueryProject, cfg.BigQueryDataset)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create run ledger")
		}
		defer ledger.Close()
		opts = append(opts, pipeline.WithLedger(ledger))
	}

	processor := pipeline.NewProcessor(parser, log, opts...)

	report, err := processor.ProcessBatch(ctx, docs, fs)
	if err != nil {
		log.Fatal().Err(err).Msg("Batch processing failed")
	}

	for _, failure := range report.Failures {
		log.Error().Str("filename", failure.Filename).Err(failure.Err).Msg("Statement failed")
	}

	if cfg.GCSBucket != "" {
		if err := mirrorCombined(ctx, cfg.GCSBucket, fs); err != nil {
			log.Error().Err(err).Msg("Failed to mirror combined report to GCS")
		}
	}

	fmt.Println()
	fmt.Print(aggregate.RenderReport(report.Combined))

	if len(report.Failures) > 0 {
		fmt.Printf("\n%d of %d statements failed\n", len(report.Failures), len(docs))
		os.Exit(1)
	}
}

// loadDocuments reads every .txt statement in dir, sorted by filename.
func loadDocuments(ctx context.Context, dir string) ([]pipeline.Document, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.txt"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)

	var docs []pipeline.Document
	for _, path := range matches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %q: %w", path, err)
		}
		docs = append(docs, pipeline.Document{
			ID:       uuid.NewString(),
			Filename: filepath.Base(path),
			RawText:  string(data),
		})
	}
	return docs, nil
}

func mirrorCombined(ctx context.Context, bucket string, fs *store.FS) error {
	data, err := os.ReadFile(fs.CombinedPath())
	if err != nil {
		return err
	}
	return store.UploadObject(ctx, bucket, filepath.Base(fs.CombinedPath()), data)
}
