// Package gate decides whether a candidate statement parse is trustworthy
// enough to keep. Evaluation is pure: the same raw text, candidate, and
// level always produce the same verdict, and the candidate is never mutated.
package gate

import (
	"errors"

	"github.com/dvloznov/statement-insights/internal/domain"
)

// Rejection reasons. The retry controller matches on these to decide whether
// a rejection is worth retrying at a looser level.
var (
	ErrNotMapping          = errors.New("candidate parse is not a mapping")
	ErrMissingTransactions = errors.New("candidate parse lacks 'transactions_by_cardholder'")
	ErrNoValidTransactions = errors.New("no valid transactions after cleanup")
	ErrInsufficientSignals = errors.New("source lacks recognizable statement signals")
)

// summaryNumericKeys are the summary fields coerced to float64 on acceptance.
// Absent or non-numeric values become 0.0.
var summaryNumericKeys = []string{
	"previous_balance", "new_balance", "payments", "credits", "purchases",
}

// Evaluate checks one candidate parse against the raw source text at the
// given strictness level. On acceptance it returns a cleaned, typed result;
// on rejection it returns one of the sentinel errors above.
func Evaluate(rawText string, candidate any, level Level) (*domain.ParseResult, error) {
	th := levelThresholds[level.clamp()]

	parsed, ok := candidate.(map[string]any)
	if !ok {
		return nil, ErrNotMapping
	}
	rawByHolder, ok := parsed["transactions_by_cardholder"].(map[string]any)
	if !ok {
		return nil, ErrMissingTransactions
	}

	allowed := CandidateHolders(rawText)

	clean := make(map[string][]domain.Transaction)
	totalTx := 0
	for holder, rawTxs := range rawByHolder {
		// Corroboration only binds when the text actually names someone.
		if th.requireKnownHolder && len(allowed) > 0 && !holderMatches(holder, allowed) {
			continue
		}
		txList, ok := rawTxs.([]any)
		if !ok || len(txList) == 0 {
			continue
		}
		var kept []domain.Transaction
		for _, rawTx := range txList {
			txMap, ok := rawTx.(map[string]any)
			if !ok {
				continue
			}
			tx, ok := sanitizeTransaction(txMap, th.requireBothDates)
			if !ok {
				continue
			}
			kept = append(kept, tx)
		}
		if len(kept) > 0 {
			clean[holder] = kept
			totalTx += len(kept)
		}
	}
	if totalTx == 0 {
		return nil, ErrNoValidTransactions
	}

	// Only the strictest level polices source signals.
	if th.enforceSignalGuard {
		if Detect(rawText).Score(th.minDateHits, th.minMoneyHits) < 2 {
			return nil, ErrInsufficientSignals
		}
	}

	summary := make(map[string]any)
	if rawSummary, ok := parsed["summary"].(map[string]any); ok {
		for k, v := range rawSummary {
			summary[k] = v
		}
	}
	for _, key := range summaryNumericKeys {
		f, ok := domain.ToFloat(summary[key])
		if !ok {
			f = 0.0
		}
		summary[key] = f
	}

	return &domain.ParseResult{
		TransactionsByCardholder: clean,
		Summary:                  summary,
	}, nil
}
