package aggregate

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvloznov/statement-insights/internal/domain"
)

func tx(sale, post, desc string, amount float64, category string) domain.Transaction {
	return domain.Transaction{
		SaleDate:    sale,
		PostDate:    post,
		Description: desc,
		Amount:      amount,
		Category:    category,
	}
}

func bankADoc() StatementDocument {
	return StatementDocument{
		Filename: "statement1.txt",
		Result: &domain.ParseResult{
			TransactionsByCardholder: map[string][]domain.Transaction{
				"JANE DOE": {
					tx("01/03", "01/04", "GROCERY MART", 54.10, "Food & Dining"),
					tx("01/07", "01/08", "ONLINE PAYMENT THANK YOU", -200.00, ""),
				},
			},
			Summary: map[string]any{
				"bank_name":          "Bank A",
				"total_transactions": 2.0,
				"total_amount":       -145.90,
				"purchases":          54.10,
				"payments":           200.00,
			},
		},
	}
}

func bankBDoc() StatementDocument {
	return StatementDocument{
		Filename: "statement2.txt",
		Result: &domain.ParseResult{
			TransactionsByCardholder: map[string][]domain.Transaction{
				"JANE DOE": {
					tx("01/12", "01/13", "AIRLINE TICKETS", 430.00, "Travel & Transportation"),
				},
				"JOHN Q DOE": {
					tx("01/15", "01/16", "COFFEE SHOP", 4.75, "Food & Dining"),
				},
			},
			Summary: map[string]any{
				"bank_name":          "Bank B",
				"total_transactions": 2,
				"total_amount":       434.75,
				"purchases":          434.75,
				"payments":           0.0,
			},
		},
	}
}

func TestCombineEmpty(t *testing.T) {
	combined := Combine(nil)

	assert.Empty(t, combined.CombinedTransactionsByCardholder)
	assert.Empty(t, combined.SummaryByBank)
	assert.Empty(t, combined.SummaryByCardholder)
	assert.Empty(t, combined.CategoryTotals)
	assert.Empty(t, combined.IndividualStatements)
	assert.Equal(t, CombinedSummary{}, combined.CombinedSummary)
}

func TestCombineSkipsNilResults(t *testing.T) {
	combined := Combine([]StatementDocument{{Filename: "broken.txt"}, bankADoc()})

	assert.Equal(t, 1, combined.CombinedSummary.TotalFilesProcessed)
	assert.Len(t, combined.IndividualStatements, 1)
}

func TestCombineCrossBankCardholder(t *testing.T) {
	combined := Combine([]StatementDocument{bankADoc(), bankBDoc()})

	jane := combined.SummaryByCardholder["JANE DOE"]
	require.NotNil(t, jane)
	assert.Equal(t, 3, jane.TotalTransactions)
	assert.InDelta(t, 284.10, jane.TotalAmount, 1e-9)
	assert.InDelta(t, 484.10, jane.TotalPurchases, 1e-9)
	assert.InDelta(t, 200.00, jane.TotalPayments, 1e-9)

	require.Contains(t, jane.Banks, "Bank A")
	require.Contains(t, jane.Banks, "Bank B")
	assert.Equal(t, 2, jane.Banks["Bank A"].TotalTransactions)
	assert.InDelta(t, -145.90, jane.Banks["Bank A"].TotalAmount, 1e-9)
	assert.InDelta(t, 54.10, jane.Banks["Bank A"].TotalPurchases, 1e-9)
	assert.InDelta(t, 200.00, jane.Banks["Bank A"].TotalPayments, 1e-9)
	assert.Equal(t, 1, jane.Banks["Bank B"].TotalTransactions)
	assert.InDelta(t, 430.00, jane.Banks["Bank B"].TotalAmount, 1e-9)

	assert.Len(t, combined.CombinedTransactionsByCardholder["JANE DOE"], 3)

	bankA := combined.SummaryByBank["Bank A"]
	require.NotNil(t, bankA)
	assert.Equal(t, 1, bankA.TotalStatements)
	assert.Equal(t, 2, bankA.TotalTransactions)
	assert.Equal(t, []string{"JANE DOE"}, bankA.Cardholders)

	bankB := combined.SummaryByBank["Bank B"]
	require.NotNil(t, bankB)
	assert.Equal(t, []string{"JANE DOE", "JOHN Q DOE"}, bankB.Cardholders)

	// The grand total sums each document's own summary block.
	assert.Equal(t, 4, combined.CombinedSummary.TotalTransactions)
	assert.InDelta(t, 288.85, combined.CombinedSummary.TotalAmount, 1e-9)
	assert.InDelta(t, 488.85, combined.CombinedSummary.TotalPurchases, 1e-9)
	assert.InDelta(t, 200.00, combined.CombinedSummary.TotalPayments, 1e-9)
}

func TestCombineSignConvention(t *testing.T) {
	doc := StatementDocument{
		Filename: "statement1.txt",
		Result: &domain.ParseResult{
			TransactionsByCardholder: map[string][]domain.Transaction{
				"JANE DOE": {
					tx("01/03", "01/04", "GROCERY MART", 54.10, ""),
					tx("01/07", "01/08", "PAYMENT RECEIVED", -50.00, ""),
				},
			},
			Summary: map[string]any{},
		},
	}

	combined := Combine([]StatementDocument{doc})

	jane := combined.SummaryByCardholder["JANE DOE"]
	require.NotNil(t, jane)
	assert.Equal(t, 2, jane.TotalTransactions)
	assert.InDelta(t, 4.10, jane.TotalAmount, 1e-9)
	assert.InDelta(t, 54.10, jane.TotalPurchases, 1e-9)
	assert.InDelta(t, 50.00, jane.TotalPayments, 1e-9)
}

func TestCombineSummarySourcedFromDocumentSummaries(t *testing.T) {
	// The grand total reports what each statement's summary block claims,
	// not what the surviving transactions add up to.
	doc := StatementDocument{
		Filename: "statement1.txt",
		Result: &domain.ParseResult{
			TransactionsByCardholder: map[string][]domain.Transaction{
				"JANE DOE": {
					tx("01/03", "01/04", "GROCERY MART", 54.10, ""),
				},
			},
			Summary: map[string]any{
				"total_transactions": 5,
				"total_amount":       999.0,
				"purchases":          800.0,
				"payments":           199.0,
			},
		},
	}

	combined := Combine([]StatementDocument{doc})

	assert.Equal(t, 1, combined.CombinedSummary.TotalFilesProcessed)
	assert.Equal(t, 5, combined.CombinedSummary.TotalTransactions)
	assert.InDelta(t, 999.0, combined.CombinedSummary.TotalAmount, 1e-9)
	assert.InDelta(t, 800.0, combined.CombinedSummary.TotalPurchases, 1e-9)
	assert.InDelta(t, 199.0, combined.CombinedSummary.TotalPayments, 1e-9)
}

func TestCombineSkipsEmptyHolders(t *testing.T) {
	doc := bankADoc()
	doc.Result.TransactionsByCardholder["GHOST HOLDER"] = nil

	combined := Combine([]StatementDocument{doc})

	assert.NotContains(t, combined.CombinedTransactionsByCardholder, "GHOST HOLDER")
	assert.NotContains(t, combined.SummaryByCardholder, "GHOST HOLDER")
	assert.Equal(t, []string{"JANE DOE"}, combined.SummaryByBank["Bank A"].Cardholders)
}

func TestCombineCategoryDefaults(t *testing.T) {
	combined := Combine([]StatementDocument{bankADoc()})

	assert.InDelta(t, 54.10, combined.CategoryTotals["Food & Dining"], 1e-9)
	assert.InDelta(t, -200.00, combined.CategoryTotals[UncategorizedCategory], 1e-9)

	jane := combined.SummaryByCardholder["JANE DOE"]
	require.NotNil(t, jane)
	assert.InDelta(t, -200.00, jane.CategoryTotals[UncategorizedCategory], 1e-9)
}

func TestCombineUnknownBank(t *testing.T) {
	doc := bankADoc()
	delete(doc.Result.Summary, "bank_name")

	combined := Combine([]StatementDocument{doc})

	require.Contains(t, combined.SummaryByBank, domain.UnknownBank)
	assert.Equal(t, 1, combined.SummaryByBank[domain.UnknownBank].TotalStatements)
}

func TestCombineOrderIndependent(t *testing.T) {
	docs := []StatementDocument{bankADoc(), bankBDoc()}
	want, err := json.Marshal(Combine(docs))
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		shuffled := []StatementDocument{bankADoc(), bankBDoc()}
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		got, err := json.Marshal(Combine(shuffled))
		require.NoError(t, err)
		assert.JSONEq(t, string(want), string(got))
	}
}

func TestCombineStatementsSortedByFilename(t *testing.T) {
	combined := Combine([]StatementDocument{bankBDoc(), bankADoc()})

	require.Len(t, combined.IndividualStatements, 2)
	assert.Equal(t, "statement1.txt", combined.IndividualStatements[0].Filename)
	assert.Equal(t, "statement2.txt", combined.IndividualStatements[1].Filename)
}
