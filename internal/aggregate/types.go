package aggregate

import "github.com/dvloznov/statement-insights/internal/domain"

// StatementDocument pairs one cleaned parse with the source filename it came
// from. Filenames order the combined report and key the per-statement list.
type StatementDocument struct {
	Filename string
	Result   *domain.ParseResult
}

// BankTotals is the per-bank rollup nested under a cardholder's banks map.
type BankTotals struct {
	TotalTransactions int     `json:"total_transactions"`
	TotalAmount       float64 `json:"total_amount"`
	TotalPurchases    float64 `json:"total_purchases"`
	TotalPayments     float64 `json:"total_payments"`
}

// BankSummary aggregates every statement attributed to one bank. Cardholders
// is the sorted list of distinct holder names seen on the bank's statements.
type BankSummary struct {
	TotalStatements   int      `json:"total_statements"`
	TotalTransactions int      `json:"total_transactions"`
	TotalAmount       float64  `json:"total_amount"`
	TotalPurchases    float64  `json:"total_purchases"`
	TotalPayments     float64  `json:"total_payments"`
	Cardholders       []string `json:"cardholders"`
}

// CardholderSummary aggregates one cardholder's activity across every
// statement they appear in.
type CardholderSummary struct {
	TotalTransactions int                   `json:"total_transactions"`
	TotalAmount       float64               `json:"total_amount"`
	TotalPurchases    float64               `json:"total_purchases"`
	TotalPayments     float64               `json:"total_payments"`
	Banks             map[string]BankTotals `json:"banks"`
	CategoryTotals    map[string]float64    `json:"category_totals"`
}

// CombinedSummary is the grand total block over all processed documents.
type CombinedSummary struct {
	TotalFilesProcessed int     `json:"total_files_processed"`
	TotalTransactions   int     `json:"total_transactions"`
	TotalAmount         float64 `json:"total_amount"`
	TotalPurchases      float64 `json:"total_purchases"`
	TotalPayments       float64 `json:"total_payments"`
}

// StatementRecord is one source document's entry in the combined report.
type StatementRecord struct {
	Filename                 string                          `json:"filename"`
	TransactionsByCardholder map[string][]domain.Transaction `json:"transactions_by_cardholder"`
	Summary                  map[string]any                  `json:"summary"`
}

// Combined is the full aggregation report persisted as
// combined_parsed_data.json. Field names are part of the on-disk contract.
type Combined struct {
	CombinedTransactionsByCardholder map[string][]domain.Transaction `json:"combined_transactions_by_cardholder"`
	SummaryByBank                    map[string]*BankSummary         `json:"summary_by_bank"`
	SummaryByCardholder              map[string]*CardholderSummary   `json:"summary_by_cardholder"`
	CategoryTotals                   map[string]float64              `json:"category_totals"`
	CombinedSummary                  CombinedSummary                 `json:"combined_summary"`
	IndividualStatements             []StatementRecord               `json:"individual_statements"`
}
