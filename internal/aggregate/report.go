package aggregate

import (
	"fmt"
	"sort"
	"strings"
)

// RenderReport formats a combined report as a plain-text summary. Map
// sections are printed in sorted key order so the output is stable.
func RenderReport(c *Combined) string {
	var b strings.Builder

	fmt.Fprintf(&b, "PROCESSING SUMMARY\n")
	fmt.Fprintf(&b, "==================\n")
	fmt.Fprintf(&b, "Files processed:    %d\n", c.CombinedSummary.TotalFilesProcessed)
	fmt.Fprintf(&b, "Transactions:       %d\n", c.CombinedSummary.TotalTransactions)
	fmt.Fprintf(&b, "Total amount:       $%.2f\n", c.CombinedSummary.TotalAmount)
	fmt.Fprintf(&b, "Total purchases:    $%.2f\n", c.CombinedSummary.TotalPurchases)
	fmt.Fprintf(&b, "Total payments:     $%.2f\n", c.CombinedSummary.TotalPayments)

	if len(c.SummaryByBank) > 0 {
		fmt.Fprintf(&b, "\nBY BANK\n")
		fmt.Fprintf(&b, "-------\n")
		for _, bank := range sortedKeys(c.SummaryByBank) {
			s := c.SummaryByBank[bank]
			fmt.Fprintf(&b, "%s: %d statements, %d transactions, $%.2f\n",
				bank, s.TotalStatements, s.TotalTransactions, s.TotalAmount)
		}
	}

	if len(c.SummaryByCardholder) > 0 {
		fmt.Fprintf(&b, "\nBY CARDHOLDER\n")
		fmt.Fprintf(&b, "-------------\n")
		for _, holder := range sortedKeys(c.SummaryByCardholder) {
			s := c.SummaryByCardholder[holder]
			fmt.Fprintf(&b, "%s: %d transactions, $%.2f (purchases $%.2f, payments $%.2f)\n",
				holder, s.TotalTransactions, s.TotalAmount, s.TotalPurchases, s.TotalPayments)
		}
	}

	if len(c.CategoryTotals) > 0 {
		fmt.Fprintf(&b, "\nBY CATEGORY\n")
		fmt.Fprintf(&b, "-----------\n")
		for _, cat := range sortedKeys(c.CategoryTotals) {
			fmt.Fprintf(&b, "%s: $%.2f\n", cat, c.CategoryTotals[cat])
		}
	}

	return b.String()
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
