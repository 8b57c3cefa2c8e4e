package domain

// Transaction is one promoted statement transaction. Dates keep the
// month/day (optionally /year) form they carried in the source text; the
// Category field is absent until the categorization step fills it in.
type Transaction struct {
	SaleDate    string  `json:"sale_date"`
	PostDate    string  `json:"post_date"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category,omitempty"`
}

// ParseResult is the cleaned output of one statement document. The JSON
// field names are part of the persisted contract consumed by downstream
// categorization and reporting and must be preserved exactly.
type ParseResult struct {
	TransactionsByCardholder map[string][]Transaction `json:"transactions_by_cardholder"`
	Summary                  map[string]any           `json:"summary"`
}

// UnknownBank is used when a document's summary carries no usable bank name.
const UnknownBank = "Unknown Bank"

// BankName returns the bank name from the summary block, or UnknownBank.
func (r *ParseResult) BankName() string {
	if r == nil || r.Summary == nil {
		return UnknownBank
	}
	if name, ok := r.Summary["bank_name"].(string); ok && name != "" {
		return name
	}
	return UnknownBank
}

// TransactionCount returns the number of promoted transactions across all
// cardholders.
func (r *ParseResult) TransactionCount() int {
	if r == nil {
		return 0
	}
	n := 0
	for _, txs := range r.TransactionsByCardholder {
		n += len(txs)
	}
	return n
}
