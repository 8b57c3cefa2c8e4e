package pipeline

import (
	"context"

	"github.com/dvloznov/statement-insights/internal/aggregate"
	"github.com/dvloznov/statement-insights/internal/domain"
)

// ResultWriter persists per-document and combined outputs. The filesystem
// store is the usual implementation; tests substitute their own.
type ResultWriter interface {
	WriteResult(filename string, result *domain.ParseResult) error
	WriteCombined(combined *aggregate.Combined) error
}

// Failure records one document that exhausted its attempts.
type Failure struct {
	Filename string
	Err      error
}

// BatchReport is the outcome of a batch run.
type BatchReport struct {
	Combined *aggregate.Combined
	Failures []Failure
}

// ProcessBatch runs every document through the processor, persists each
// accepted result, and writes the combined report. One document's failure
// never stops the rest; failures come back in the report.
func (p *Processor) ProcessBatch(ctx context.Context, docs []Document, writer ResultWriter) (*BatchReport, error) {
	report := &BatchReport{}
	var accepted []aggregate.StatementDocument

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := p.ProcessDocument(ctx, doc)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			report.Failures = append(report.Failures, Failure{Filename: doc.Filename, Err: err})
			continue
		}

		if writer != nil {
			if err := writer.WriteResult(doc.Filename, result); err != nil {
				p.log.Error().Str("filename", doc.Filename).Err(err).Msg("persist result failed")
				report.Failures = append(report.Failures, Failure{Filename: doc.Filename, Err: err})
				continue
			}
		}
		accepted = append(accepted, aggregate.StatementDocument{Filename: doc.Filename, Result: result})
	}

	report.Combined = aggregate.Combine(accepted)
	if writer != nil {
		if err := writer.WriteCombined(report.Combined); err != nil {
			return nil, err
		}
	}
	return report, nil
}
