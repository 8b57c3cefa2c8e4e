// Package pipeline drives one statement document through parse, quality
// gate, and categorization, retrying rejected parses at progressively
// looser strictness levels.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/statement-insights/internal/domain"
	"github.com/dvloznov/statement-insights/internal/extract"
	"github.com/dvloznov/statement-insights/internal/gate"
)

// DefaultMaxAttempts is how many parse attempts a document gets. Attempt N
// runs at gate.Level(N), so three attempts walk strict, normal, relaxed.
const DefaultMaxAttempts = 3

// DefaultRetryBackoff is the pause between attempts.
const DefaultRetryBackoff = 2 * time.Second

// Document is one statement to process.
type Document struct {
	ID       string
	Filename string
	RawText  string
}

// RunLedger records parse attempts for audit. Implementations must tolerate
// being called for every attempt of every document.
type RunLedger interface {
	StartRun(ctx context.Context, documentID string, level int) (string, error)
	FinishRun(ctx context.Context, runID string, runErr error) error
}

// Processor owns the per-document retry loop.
type Processor struct {
	parser      extract.CandidateParser
	categorizer extract.Categorizer
	ledger      RunLedger
	maxAttempts int
	backoff     time.Duration
	log         zerolog.Logger
}

// Option configures a Processor.
type Option func(*Processor)

// WithMaxAttempts overrides DefaultMaxAttempts. Values below 1 are ignored.
func WithMaxAttempts(n int) Option {
	return func(p *Processor) {
		if n >= 1 {
			p.maxAttempts = n
		}
	}
}

// WithBackoff overrides DefaultRetryBackoff. Negative values are ignored.
func WithBackoff(d time.Duration) Option {
	return func(p *Processor) {
		if d >= 0 {
			p.backoff = d
		}
	}
}

// WithLedger attaches a run ledger. Without one, attempts are only logged.
func WithLedger(ledger RunLedger) Option {
	return func(p *Processor) {
		p.ledger = ledger
	}
}

// WithCategorizer attaches a categorizer applied to accepted parses. Without
// one, transactions stay uncategorized.
func WithCategorizer(c extract.Categorizer) Option {
	return func(p *Processor) {
		p.categorizer = c
	}
}

// NewProcessor builds a Processor around the given parser.
func NewProcessor(parser extract.CandidateParser, log zerolog.Logger, opts ...Option) *Processor {
	p := &Processor{
		parser:      parser,
		maxAttempts: DefaultMaxAttempts,
		backoff:     DefaultRetryBackoff,
		log:         log,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProcessDocument runs the parse-and-gate loop for one document. Each
// attempt re-parses at the next looser level; the returned error on
// exhaustion wraps the final rejection reason.
func (p *Processor) ProcessDocument(ctx context.Context, doc Document) (*domain.ParseResult, error) {
	log := p.log.With().Str("document_id", doc.ID).Str("filename", doc.Filename).Logger()

	var lastErr error
	for attempt := 0; attempt < p.maxAttempts; attempt++ {
		if attempt > 0 {
			if err := p.wait(ctx); err != nil {
				return nil, err
			}
		}

		level := gate.Level(attempt)
		result, err := p.attempt(ctx, doc, level)
		if err == nil {
			log.Info().
				Str("level", level.String()).
				Int("attempt", attempt+1).
				Int("transactions", result.TransactionCount()).
				Msg("document accepted")
			return result, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err
		log.Warn().
			Str("level", level.String()).
			Int("attempt", attempt+1).
			Err(err).
			Msg("attempt rejected")
	}

	return nil, fmt.Errorf("document %s failed after %d attempts: %w", doc.Filename, p.maxAttempts, lastErr)
}

func (p *Processor) attempt(ctx context.Context, doc Document, level gate.Level) (result *domain.ParseResult, err error) {
	if p.ledger != nil {
		runID, ledgerErr := p.ledger.StartRun(ctx, doc.ID, int(level))
		if ledgerErr != nil {
			p.log.Warn().Err(ledgerErr).Msg("ledger start failed")
		} else {
			defer func() {
				if finishErr := p.ledger.FinishRun(ctx, runID, err); finishErr != nil {
					p.log.Warn().Err(finishErr).Msg("ledger finish failed")
				}
			}()
		}
	}

	candidate, err := p.parser.ParseStatement(ctx, doc.RawText, level)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	result, err = gate.Evaluate(doc.RawText, candidate, level)
	if err != nil {
		return nil, err
	}

	if p.categorizer != nil {
		// Categorization failures never sink an accepted parse.
		if catErr := p.categorizer.Categorize(ctx, result); catErr != nil {
			p.log.Warn().Err(catErr).Msg("categorization failed, keeping transactions unlabeled")
		}
	}
	return result, nil
}

func (p *Processor) wait(ctx context.Context) error {
	if p.backoff <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(p.backoff)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
