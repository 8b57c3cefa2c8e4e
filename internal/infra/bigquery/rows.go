package bigquery

import (
	"time"

	"cloud.google.com/go/bigquery"
)

// DocumentRow is one source statement registered in the run ledger.
type DocumentRow struct {
	DocumentID string `bigquery:"document_id"` // REQUIRED

	Filename  string `bigquery:"filename"`   // REQUIRED
	SourceURI string `bigquery:"source_uri"` // NULLABLE

	Status string `bigquery:"status"` // UPLOADED | PROCESSED | FAILED

	UploadedTS  time.Time          `bigquery:"uploaded_ts"`  // REQUIRED
	ProcessedOn bigquery.NullDate  `bigquery:"processed_on"` // NULLABLE
	TxCount     bigquery.NullInt64 `bigquery:"tx_count"`     // NULLABLE
}

// ParsingRunRow is one parse attempt. retry_level records which strictness
// tier the attempt ran at (0 strict, 1 normal, 2 relaxed).
type ParsingRunRow struct {
	ParsingRunID string `bigquery:"parsing_run_id"` // REQUIRED
	DocumentID   string `bigquery:"document_id"`    // REQUIRED

	RetryLevel int64  `bigquery:"retry_level"` // REQUIRED
	Status     string `bigquery:"status"`      // RUNNING | SUCCESS | FAILED

	Reason bigquery.NullString `bigquery:"reason"` // NULLABLE, rejection reason on FAILED

	StartedTS  time.Time              `bigquery:"started_ts"`  // REQUIRED
	FinishedTS bigquery.NullTimestamp `bigquery:"finished_ts"` // NULLABLE
}

// TransactionRow mirrors one accepted transaction for reporting queries.
// Dates stay in their printed MM/DD form; the ledger is an audit trail, not
// a normalized warehouse.
type TransactionRow struct {
	TransactionID string `bigquery:"transaction_id"` // REQUIRED
	DocumentID    string `bigquery:"document_id"`    // REQUIRED
	ParsingRunID  string `bigquery:"parsing_run_id"` // NULLABLE

	Cardholder  string  `bigquery:"cardholder"`  // REQUIRED
	SaleDate    string  `bigquery:"sale_date"`   // REQUIRED
	PostDate    string  `bigquery:"post_date"`   // REQUIRED
	Description string  `bigquery:"description"` // REQUIRED
	Amount      float64 `bigquery:"amount"`      // REQUIRED

	Category bigquery.NullString `bigquery:"category"` // NULLABLE

	CreatedTS time.Time `bigquery:"created_ts"` // REQUIRED
}
