package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dvloznov/statement-insights/internal/aggregate"
	"github.com/dvloznov/statement-insights/internal/domain"
	"github.com/dvloznov/statement-insights/internal/jobs"
	"github.com/dvloznov/statement-insights/internal/store"
)

// DocumentLedger is the subset of the run ledger the job service uses on
// top of per-attempt recording.
type DocumentLedger interface {
	RunLedger
	InsertDocument(ctx context.Context, filename, sourceURI string) (string, error)
	MarkDocumentProcessed(ctx context.Context, documentID string, txCount int) error
	InsertTransactions(ctx context.Context, documentID, runID string, result *domain.ParseResult) error
}

// Service executes statement-processing jobs end to end: fetch the source
// text, run the retry pipeline, persist the result, and refresh the combined
// report. It is the handler both the worker and the API's embedded consumer
// plug into the queue.
type Service struct {
	processor *Processor
	fs        *store.FS
	ledger    DocumentLedger
	log       zerolog.Logger
}

// NewService wires a job service. ledger may be nil to run without the
// audit trail.
func NewService(processor *Processor, fs *store.FS, ledger DocumentLedger, log zerolog.Logger) *Service {
	return &Service{
		processor: processor,
		fs:        fs,
		ledger:    ledger,
		log:       log,
	}
}

// HandleJob implements jobs.JobHandler for ProcessStatementJob.
func (s *Service) HandleJob(ctx context.Context, job jobs.Job) error {
	stmtJob, ok := job.(*jobs.ProcessStatementJob)
	if !ok {
		return fmt.Errorf("unexpected job type: %T", job)
	}

	log := s.log.With().Str("job_id", stmtJob.JobID).Str("filename", stmtJob.Filename).Logger()
	log.Info().Str("source_uri", stmtJob.SourceURI).Msg("Processing statement job")

	data, err := store.ReadSource(ctx, stmtJob.SourceURI)
	if err != nil {
		return fmt.Errorf("fetch source: %w", err)
	}

	documentID := stmtJob.DocumentID
	if documentID == "" && s.ledger != nil {
		documentID, err = s.ledger.InsertDocument(ctx, stmtJob.Filename, stmtJob.SourceURI)
		if err != nil {
			log.Warn().Err(err).Msg("ledger document registration failed")
			documentID = stmtJob.JobID
		}
		stmtJob.DocumentID = documentID
	}
	if documentID == "" {
		documentID = stmtJob.JobID
	}

	result, err := s.processor.ProcessDocument(ctx, Document{
		ID:       documentID,
		Filename: stmtJob.Filename,
		RawText:  string(data),
	})
	if err != nil {
		return err
	}

	if err := s.fs.WriteResult(stmtJob.Filename, result); err != nil {
		return err
	}

	if s.ledger != nil {
		if err := s.ledger.MarkDocumentProcessed(ctx, documentID, result.TransactionCount()); err != nil {
			log.Warn().Err(err).Msg("ledger document update failed")
		}
		if err := s.ledger.InsertTransactions(ctx, documentID, "", result); err != nil {
			log.Warn().Err(err).Msg("ledger transaction mirror failed")
		}
	}

	if err := s.refreshCombined(); err != nil {
		log.Warn().Err(err).Msg("combined report refresh failed")
	}

	log.Info().Int("transactions", result.TransactionCount()).Msg("Statement job completed")
	return nil
}

// refreshCombined rebuilds the combined report from every persisted result.
func (s *Service) refreshCombined() error {
	docs, err := s.fs.LoadDocuments()
	if err != nil {
		return err
	}
	return s.fs.WriteCombined(aggregate.Combine(docs))
}
