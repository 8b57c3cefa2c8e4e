// Package bigquery is the run ledger: it records every source document,
// every parse attempt with its strictness tier and outcome, and every
// accepted transaction, so batch runs can be audited after the fact.
package bigquery

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"github.com/dvloznov/statement-insights/internal/domain"
)

const (
	documentsTable    = "documents"
	parsingRunsTable  = "parsing_runs"
	transactionsTable = "transactions"
)

// Ledger wraps one BigQuery client scoped to a project and dataset.
type Ledger struct {
	client  *bigquery.Client
	dataset string
}

// NewLedger connects to BigQuery using Application Default Credentials.
func NewLedger(ctx context.Context, projectID, dataset string) (*Ledger, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("ledger: bigquery client: %w", err)
	}
	return &Ledger{client: client, dataset: dataset}, nil
}

// Close releases the underlying client.
func (l *Ledger) Close() error {
	return l.client.Close()
}

// InsertDocument registers a source statement before processing starts.
func (l *Ledger) InsertDocument(ctx context.Context, filename, sourceURI string) (string, error) {
	documentID := uuid.NewString()
	row := &DocumentRow{
		DocumentID: documentID,
		Filename:   filename,
		SourceURI:  sourceURI,
		Status:     "UPLOADED",
		UploadedTS: time.Now(),
	}

	inserter := l.client.Dataset(l.dataset).Table(documentsTable).Inserter()
	if err := inserter.Put(ctx, row); err != nil {
		return "", fmt.Errorf("ledger: insert document: %w", err)
	}
	return documentID, nil
}

// StartRun records a parse attempt with status=RUNNING and returns its id.
func (l *Ledger) StartRun(ctx context.Context, documentID string, level int) (string, error) {
	runID := uuid.NewString()

	q := l.client.Query(fmt.Sprintf(`
		INSERT %s.%s (
			parsing_run_id,
			document_id,
			retry_level,
			status,
			started_ts
		)
		VALUES (
			@parsing_run_id,
			@document_id,
			@retry_level,
			@status,
			@started_ts
		)
	`, l.dataset, parsingRunsTable))

	q.Parameters = []bigquery.QueryParameter{
		{Name: "parsing_run_id", Value: runID},
		{Name: "document_id", Value: documentID},
		{Name: "retry_level", Value: level},
		{Name: "status", Value: "RUNNING"},
		{Name: "started_ts", Value: time.Now()},
	}

	if err := l.runQuery(ctx, q); err != nil {
		return "", fmt.Errorf("ledger: start run: %w", err)
	}
	return runID, nil
}

// FinishRun closes out a parse attempt. A nil runErr marks SUCCESS; anything
// else marks FAILED and stores the (truncated) rejection reason.
func (l *Ledger) FinishRun(ctx context.Context, runID string, runErr error) error {
	status := "SUCCESS"
	reason := bigquery.NullString{}
	if runErr != nil {
		status = "FAILED"
		msg := runErr.Error()
		const maxLen = 2000
		if len(msg) > maxLen {
			msg = msg[:maxLen]
		}
		reason = bigquery.NullString{StringVal: msg, Valid: true}
	}

	q := l.client.Query(fmt.Sprintf(`
		UPDATE %s.%s
		SET status = @status,
		    reason = @reason,
		    finished_ts = @finished_ts
		WHERE parsing_run_id = @parsing_run_id
	`, l.dataset, parsingRunsTable))

	q.Parameters = []bigquery.QueryParameter{
		{Name: "status", Value: status},
		{Name: "reason", Value: reason},
		{Name: "finished_ts", Value: time.Now()},
		{Name: "parsing_run_id", Value: runID},
	}

	if err := l.runQuery(ctx, q); err != nil {
		return fmt.Errorf("ledger: finish run: %w", err)
	}
	return nil
}

// MarkDocumentProcessed flips a document to PROCESSED with today's date and
// its accepted transaction count.
func (l *Ledger) MarkDocumentProcessed(ctx context.Context, documentID string, txCount int) error {
	q := l.client.Query(fmt.Sprintf(`
		UPDATE %s.%s
		SET status = @status,
		    processed_on = @processed_on,
		    tx_count = @tx_count
		WHERE document_id = @document_id
	`, l.dataset, documentsTable))

	q.Parameters = []bigquery.QueryParameter{
		{Name: "status", Value: "PROCESSED"},
		{Name: "processed_on", Value: civil.DateOf(time.Now())},
		{Name: "tx_count", Value: txCount},
		{Name: "document_id", Value: documentID},
	}

	if err := l.runQuery(ctx, q); err != nil {
		return fmt.Errorf("ledger: mark document processed: %w", err)
	}
	return nil
}

// InsertTransactions mirrors an accepted parse's transactions.
func (l *Ledger) InsertTransactions(ctx context.Context, documentID, runID string, result *domain.ParseResult) error {
	if result == nil || result.TransactionCount() == 0 {
		return nil
	}

	now := time.Now()
	var rows []*TransactionRow
	for holder, txs := range result.TransactionsByCardholder {
		for _, tx := range txs {
			category := bigquery.NullString{}
			if tx.Category != "" {
				category = bigquery.NullString{StringVal: tx.Category, Valid: true}
			}
			rows = append(rows, &TransactionRow{
				TransactionID: uuid.NewString(),
				DocumentID:    documentID,
				ParsingRunID:  runID,
				Cardholder:    holder,
				SaleDate:      tx.SaleDate,
				PostDate:      tx.PostDate,
				Description:   tx.Description,
				Amount:        tx.Amount,
				Category:      category,
				CreatedTS:     now,
			})
		}
	}

	inserter := l.client.Dataset(l.dataset).Table(transactionsTable).Inserter()
	if err := inserter.Put(ctx, rows); err != nil {
		return fmt.Errorf("ledger: insert transactions: %w", err)
	}
	return nil
}

// QueryRunsForDocument returns every parse attempt for a document, oldest
// first.
func (l *Ledger) QueryRunsForDocument(ctx context.Context, documentID string) ([]*ParsingRunRow, error) {
	q := l.client.Query(fmt.Sprintf(`
		SELECT
			parsing_run_id,
			document_id,
			retry_level,
			status,
			reason,
			started_ts,
			finished_ts
		FROM %s.%s
		WHERE document_id = @document_id
		ORDER BY started_ts
	`, l.dataset, parsingRunsTable))

	q.Parameters = []bigquery.QueryParameter{
		{Name: "document_id", Value: documentID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ledger: query runs: %w", err)
	}

	var rows []*ParsingRunRow
	for {
		var r ParsingRunRow
		err := it.Next(&r)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ledger: iter next: %w", err)
		}
		rows = append(rows, &r)
	}
	return rows, nil
}

func (l *Ledger) runQuery(ctx context.Context, q *bigquery.Query) error {
	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("running query: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("waiting for job: %w", err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("job error: %w", err)
	}
	return nil
}
