// Package aggregate rolls cleaned statement parses up into the combined
// report: merged transactions per cardholder, per-bank and per-cardholder
// summaries, category totals, and a grand total. Combine is pure and its
// output does not depend on the order documents arrive in.
package aggregate

import (
	"math"
	"sort"

	"github.com/dvloznov/statement-insights/internal/domain"
)

// UncategorizedCategory buckets transactions the categorizer never labeled.
const UncategorizedCategory = "Uncategorized"

// Combine aggregates a batch of cleaned statement documents. Nil results
// are skipped; an empty batch yields an empty report with zeroed totals.
func Combine(docs []StatementDocument) *Combined {
	out := &Combined{
		CombinedTransactionsByCardholder: make(map[string][]domain.Transaction),
		SummaryByBank:                    make(map[string]*BankSummary),
		SummaryByCardholder:              make(map[string]*CardholderSummary),
		CategoryTotals:                   make(map[string]float64),
		IndividualStatements:             make([]StatementRecord, 0, len(docs)),
	}

	bankHolders := make(map[string]map[string]struct{})

	for _, doc := range docs {
		if doc.Result == nil {
			continue
		}
		out.CombinedSummary.TotalFilesProcessed++
		out.IndividualStatements = append(out.IndividualStatements, StatementRecord{
			Filename:                 doc.Filename,
			TransactionsByCardholder: doc.Result.TransactionsByCardholder,
			Summary:                  doc.Result.Summary,
		})

		bank := doc.Result.BankName()
		bankSum := out.SummaryByBank[bank]
		if bankSum == nil {
			bankSum = &BankSummary{}
			out.SummaryByBank[bank] = bankSum
			bankHolders[bank] = make(map[string]struct{})
		}
		bankSum.TotalStatements++
		// Bank and grand-total rollups trust the statement's own summary
		// block; the per-cardholder totals below are recomputed from the
		// transactions themselves.
		if n, ok := domain.ToInt(doc.Result.Summary["total_transactions"]); ok {
			bankSum.TotalTransactions += n
			out.CombinedSummary.TotalTransactions += n
		}
		if f, ok := domain.ToFloat(doc.Result.Summary["total_amount"]); ok {
			bankSum.TotalAmount += f
			out.CombinedSummary.TotalAmount += f
		}
		if f, ok := domain.ToFloat(doc.Result.Summary["purchases"]); ok {
			bankSum.TotalPurchases += f
			out.CombinedSummary.TotalPurchases += f
		}
		if f, ok := domain.ToFloat(doc.Result.Summary["payments"]); ok {
			bankSum.TotalPayments += f
			out.CombinedSummary.TotalPayments += f
		}

		for holder, txs := range doc.Result.TransactionsByCardholder {
			// Holders with no surviving transactions stay out of every rollup.
			if len(txs) == 0 {
				continue
			}
			out.CombinedTransactionsByCardholder[holder] = append(out.CombinedTransactionsByCardholder[holder], txs...)
			bankHolders[bank][holder] = struct{}{}

			holderSum := out.SummaryByCardholder[holder]
			if holderSum == nil {
				holderSum = &CardholderSummary{
					Banks:          make(map[string]BankTotals),
					CategoryTotals: make(map[string]float64),
				}
				out.SummaryByCardholder[holder] = holderSum
			}

			for _, tx := range txs {
				holderSum.TotalTransactions++
				holderSum.TotalAmount += tx.Amount

				totals := holderSum.Banks[bank]
				totals.TotalTransactions++
				totals.TotalAmount += tx.Amount
				if tx.Amount < 0 {
					paid := math.Abs(tx.Amount)
					holderSum.TotalPayments += paid
					totals.TotalPayments += paid
				} else {
					holderSum.TotalPurchases += tx.Amount
					totals.TotalPurchases += tx.Amount
				}
				holderSum.Banks[bank] = totals

				cat := tx.Category
				if cat == "" {
					cat = UncategorizedCategory
				}
				holderSum.CategoryTotals[cat] += tx.Amount
				out.CategoryTotals[cat] += tx.Amount
			}
		}
	}

	for bank, sum := range out.SummaryByBank {
		sum.Cardholders = sortedKeys(bankHolders[bank])
	}
	for _, txs := range out.CombinedTransactionsByCardholder {
		sortTransactions(txs)
	}
	sort.Slice(out.IndividualStatements, func(i, j int) bool {
		return out.IndividualStatements[i].Filename < out.IndividualStatements[j].Filename
	})

	return out
}

// sortTransactions orders merged transaction lists so the combined report is
// byte-identical regardless of document arrival order.
func sortTransactions(txs []domain.Transaction) {
	sort.Slice(txs, func(i, j int) bool {
		a, b := txs[i], txs[j]
		if a.SaleDate != b.SaleDate {
			return a.SaleDate < b.SaleDate
		}
		if a.PostDate != b.PostDate {
			return a.PostDate < b.PostDate
		}
		if a.Description != b.Description {
			return a.Description < b.Description
		}
		if a.Amount != b.Amount {
			return a.Amount < b.Amount
		}
		return a.Category < b.Category
	})
}
