package gate

import (
	"regexp"
	"strings"
)

// PlaceholderHolder is the redaction placeholder some issuers print instead
// of a real name. It never corroborates a candidate cardholder.
const PlaceholderHolder = "PRIMARY ACCOUNT HOLDER"

var (
	// An all-caps multi-word name on its own line, immediately followed by a
	// "Card ending in NNNN" style line.
	holderNearMaskRe = regexp.MustCompile(`\n\s*([A-Z][A-Z]+(?:\s+[A-Z][A-Z]+)+)\s*\n\s*(?:Card|Account)\s+ending\s+in\s+\d{3,4}`)
	// An all-caps multi-word name inside a CARDHOLDER SUMMARY block.
	holderInSummaryRe = regexp.MustCompile(`(?s)CARDHOLDER SUMMARY.*?\n\s*([A-Z][A-Z]+(?:\s+[A-Z][A-Z]+)+)\s*(?:\n|$)`)
)

// CandidateHolders extracts the cardholder names actually present in the raw
// statement text. An empty set means the text offers no corroboration, which
// strict evaluation treats as permissive rather than fatal.
func CandidateHolders(rawText string) map[string]struct{} {
	allowed := make(map[string]struct{})
	for _, re := range []*regexp.Regexp{holderNearMaskRe, holderInSummaryRe} {
		for _, m := range re.FindAllStringSubmatch(rawText, -1) {
			name := strings.TrimSpace(m[1])
			if name != "" {
				allowed[name] = struct{}{}
			}
		}
	}
	delete(allowed, PlaceholderHolder)
	return allowed
}

// holderMatches reports whether a candidate cardholder is corroborated by
// the allowlist. Exact match first, then a whitespace-insensitive
// containment check in both directions so "JOHNQ DOE" still matches
// "JOHN Q DOE" when the extractor mangled spacing.
func holderMatches(holder string, allowed map[string]struct{}) bool {
	if _, ok := allowed[holder]; ok {
		return true
	}
	h := squash(holder)
	if h == "" {
		return false
	}
	for name := range allowed {
		n := squash(name)
		if strings.Contains(n, h) || strings.Contains(h, n) {
			return true
		}
	}
	return false
}

func squash(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "")
}
