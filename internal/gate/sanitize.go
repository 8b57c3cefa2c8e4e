package gate

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/dvloznov/statement-insights/internal/domain"
)

var saneDateRe = regexp.MustCompile(`^\d{1,2}/\d{1,2}(?:/\d{2,4})?$`)

// maxAmount caps a single transaction. Anything at or above it is a parsing
// artifact (account numbers, phone numbers) rather than money.
const maxAmount = 1e8

// headingSnippets flag descriptions that are really table headers or footer
// boilerplate swept up by the extractor.
var headingSnippets = []string{
	"summary", "amount", "description", "sale", "post",
	"fees charged", "interest charged", "rewards", "total",
	"card by", "billing inquiries", "customer service",
	"minimum payment", "payment due date", "credit limit",
}

func validDate(s string) bool {
	return saneDateRe.MatchString(strings.TrimSpace(s))
}

func isHeadingLike(desc string) bool {
	lowered := strings.ToLower(strings.TrimSpace(desc))
	if len(lowered) < 3 {
		return true
	}
	for _, snippet := range headingSnippets {
		if strings.Contains(lowered, snippet) {
			return true
		}
	}
	return false
}

// fieldString pulls the first present key from raw as a string. Non-string
// values are stringified rather than dropped since extractors occasionally
// emit dates as numbers.
func fieldString(raw map[string]any, keys ...string) string {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
		return strings.TrimSpace(fmt.Sprint(v))
	}
	return ""
}

// sanitizeTransaction promotes one raw candidate transaction to a typed
// Transaction, or rejects it. requireBothDates controls whether a missing
// sale or post date may be mirrored from its counterpart.
func sanitizeTransaction(raw map[string]any, requireBothDates bool) (domain.Transaction, bool) {
	var tx domain.Transaction

	saleDate := fieldString(raw, "sale_date", "date")
	postDate := fieldString(raw, "post_date", "date")

	saleOK := validDate(saleDate)
	postOK := validDate(postDate)
	if requireBothDates {
		if !saleOK || !postOK {
			return tx, false
		}
	} else {
		switch {
		case saleOK && !postOK:
			postDate = saleDate
		case postOK && !saleOK:
			saleDate = postDate
		case !saleOK && !postOK:
			return tx, false
		}
	}

	desc := fieldString(raw, "description")
	if isHeadingLike(desc) {
		return tx, false
	}

	amount, ok := domain.ToFloat(raw["amount"])
	if !ok || amount == 0 || math.Abs(amount) >= maxAmount {
		return tx, false
	}

	tx.SaleDate = strings.TrimSpace(saleDate)
	tx.PostDate = strings.TrimSpace(postDate)
	tx.Description = strings.TrimSpace(desc)
	tx.Amount = amount
	if cat, ok := raw["category"].(string); ok {
		tx.Category = strings.TrimSpace(cat)
	}
	return tx, true
}
