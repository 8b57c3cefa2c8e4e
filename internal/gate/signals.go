package gate

import (
	"regexp"
	"strings"
)

// Signals are the statement-likeness heuristics computed from raw source
// text. They are ephemeral: computed once per evaluation, never persisted.
type Signals struct {
	HasBrand       bool
	HasStructure   bool
	HasAccountMask bool
	DateHits       int
	MoneyHits      int
}

var (
	brandRe       = regexp.MustCompile(`(?i)\b(visa|master ?card|amex|discover|citi|chase|bank of america|wells fargo)\b`)
	accountMaskRe = regexp.MustCompile(`(?i)(?:ending in|acct.*ending\s*in)\s*\d{3,4}`)
	dateTokenRe   = regexp.MustCompile(`\b\d{1,2}/\d{1,2}(?:/\d{2,4})?\b`)
	moneyTokenRe  = regexp.MustCompile(`\$\s?\d[\d,]*\.\d{2}`)
)

var structurePhrases = []string{"statement", "account summary", "new balance", "payment due date"}

// Detect scans raw statement text for evidence that it really is a
// financial statement. Pure; empty input yields zero signals.
func Detect(rawText string) Signals {
	sig := Signals{
		HasBrand:       brandRe.MatchString(rawText),
		HasAccountMask: accountMaskRe.MatchString(rawText),
		DateHits:       len(dateTokenRe.FindAllString(rawText, -1)),
		MoneyHits:      len(moneyTokenRe.FindAllString(rawText, -1)),
	}
	lower := strings.ToLower(rawText)
	for _, phrase := range structurePhrases {
		if strings.Contains(lower, phrase) {
			sig.HasStructure = true
			break
		}
	}
	return sig
}

// Score counts how many of the five signals clear the given thresholds.
func (s Signals) Score(minDateHits, minMoneyHits int) int {
	score := 0
	if s.HasBrand {
		score++
	}
	if s.HasStructure {
		score++
	}
	if s.HasAccountMask {
		score++
	}
	if s.DateHits >= minDateHits {
		score++
	}
	if s.MoneyHits >= minMoneyHits {
		score++
	}
	return score
}
