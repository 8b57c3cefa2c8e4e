package gate

import "testing"

func TestValidDate(t *testing.T) {
	valid := []string{"1/2", "01/02", "12/31/24", "12/31/2024", " 1/5 "}
	for _, s := range valid {
		if !validDate(s) {
			t.Errorf("validDate(%q) = false, want true", s)
		}
	}
	invalid := []string{"", "2024-01-05", "Jan 5", "1/2/3/4", "1/2 extra", "13:45"}
	for _, s := range invalid {
		if validDate(s) {
			t.Errorf("validDate(%q) = true, want false", s)
		}
	}
}

func TestIsHeadingLike(t *testing.T) {
	heading := []string{
		"", "AB", "  x ",
		"Account Summary",
		"AMOUNT",
		"Total Fees Charged",
		"Payment Due Date",
		"Sale Date Post Date",
	}
	for _, s := range heading {
		if !isHeadingLike(s) {
			t.Errorf("isHeadingLike(%q) = false, want true", s)
		}
	}
	real := []string{"GROCERY MART", "COFFEE SHOP #42", "ONLINE PAYMENT THANK YOU"}
	for _, s := range real {
		if isHeadingLike(s) {
			t.Errorf("isHeadingLike(%q) = true, want false", s)
		}
	}
}

func TestSanitizeTransaction(t *testing.T) {
	base := func() map[string]any {
		return map[string]any{
			"sale_date":   "01/03",
			"post_date":   "01/04",
			"description": "GROCERY MART",
			"amount":      54.10,
		}
	}

	tests := []struct {
		name             string
		mutate           func(map[string]any)
		requireBothDates bool
		wantOK           bool
	}{
		{"clean transaction strict", func(m map[string]any) {}, true, true},
		{"missing post date strict", func(m map[string]any) { delete(m, "post_date") }, true, false},
		{"missing post date relaxed mirrors sale", func(m map[string]any) { delete(m, "post_date") }, false, true},
		{"missing sale date relaxed mirrors post", func(m map[string]any) { delete(m, "sale_date") }, false, true},
		{"no dates at all", func(m map[string]any) { delete(m, "sale_date"); delete(m, "post_date") }, false, false},
		{"garbage dates", func(m map[string]any) { m["sale_date"] = "soon"; m["post_date"] = "later" }, false, false},
		{"heading description", func(m map[string]any) { m["description"] = "Fees Charged" }, true, false},
		{"short description", func(m map[string]any) { m["description"] = "ab" }, true, false},
		{"zero amount", func(m map[string]any) { m["amount"] = 0.0 }, true, false},
		{"huge amount", func(m map[string]any) { m["amount"] = 1e8 }, true, false},
		{"negative huge amount", func(m map[string]any) { m["amount"] = -2e8 }, true, false},
		{"string amount", func(m map[string]any) { m["amount"] = "54.10" }, true, true},
		{"non numeric amount", func(m map[string]any) { m["amount"] = "a lot" }, true, false},
		{"missing amount", func(m map[string]any) { delete(m, "amount") }, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := base()
			tt.mutate(raw)
			_, ok := sanitizeTransaction(raw, tt.requireBothDates)
			if ok != tt.wantOK {
				t.Errorf("sanitizeTransaction() ok = %v, want %v", ok, tt.wantOK)
			}
		})
	}
}

func TestSanitizeTransactionDateFallback(t *testing.T) {
	raw := map[string]any{
		"date":        "02/10",
		"description": "COFFEE SHOP",
		"amount":      4.75,
	}
	tx, ok := sanitizeTransaction(raw, true)
	if !ok {
		t.Fatal("expected transaction with shared date key to survive")
	}
	if tx.SaleDate != "02/10" || tx.PostDate != "02/10" {
		t.Errorf("dates = %q/%q, want 02/10 for both", tx.SaleDate, tx.PostDate)
	}
}

func TestSanitizeTransactionMirroredDates(t *testing.T) {
	raw := map[string]any{
		"sale_date":   "03/01",
		"description": "ONLINE RETAILER",
		"amount":      120.99,
	}
	tx, ok := sanitizeTransaction(raw, false)
	if !ok {
		t.Fatal("expected relaxed sanitize to accept")
	}
	if tx.PostDate != "03/01" {
		t.Errorf("PostDate = %q, want mirrored 03/01", tx.PostDate)
	}
}

func TestCandidateHolders(t *testing.T) {
	text := `Statement of Account

JOHN DOE
Card ending in 1234

CARDHOLDER SUMMARY
JANE DOE
Purchases $100.00

PRIMARY ACCOUNT HOLDER
Account ending in 9999
`
	allowed := CandidateHolders(text)

	if _, ok := allowed["JOHN DOE"]; !ok {
		t.Error("missing JOHN DOE from allowlist")
	}
	if _, ok := allowed["JANE DOE"]; !ok {
		t.Error("missing JANE DOE from allowlist")
	}
	if _, ok := allowed[PlaceholderHolder]; ok {
		t.Error("placeholder holder must be excluded")
	}
}

func TestCandidateHoldersSingleLetterWord(t *testing.T) {
	// Every word of a name must carry at least two capitals, so a bare
	// middle initial keeps the whole name out of the allowlist.
	text := "\nJOHN Q DOE\nCard ending in 1234\n"
	if got := CandidateHolders(text); len(got) != 0 {
		t.Errorf("CandidateHolders() = %v, want empty", got)
	}
}

func TestCandidateHoldersEmpty(t *testing.T) {
	if got := CandidateHolders("no names here 01/02 $1.00"); len(got) != 0 {
		t.Errorf("CandidateHolders() = %v, want empty", got)
	}
}

func TestHolderMatches(t *testing.T) {
	allowed := map[string]struct{}{
		"JOHN Q DOE": {},
		"JANE DOE":   {},
	}

	tests := []struct {
		holder string
		want   bool
	}{
		{"JOHN Q DOE", true},
		{"john q doe", true},
		{"JOHNQ DOE", true},
		{"JOHN Q DOE JR", true},
		{"JANE", true},
		{"ALICE SMITH", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := holderMatches(tt.holder, allowed); got != tt.want {
			t.Errorf("holderMatches(%q) = %v, want %v", tt.holder, got, tt.want)
		}
	}
}
