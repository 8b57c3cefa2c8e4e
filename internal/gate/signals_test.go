package gate

import "testing"

const sampleStatement = `CHASE VISA
Account Summary
JOHN Q DOE
Card ending in 1234

Previous Balance $1,200.00
New Balance $950.25
Payment Due Date 02/15/2024

01/03 01/04 GROCERY MART $54.10
01/05 01/06 COFFEE SHOP $4.75
01/09/2024 01/10/2024 ONLINE RETAILER $120.99
`

func TestDetect(t *testing.T) {
	sig := Detect(sampleStatement)

	if !sig.HasBrand {
		t.Error("expected brand signal")
	}
	if !sig.HasStructure {
		t.Error("expected structure signal")
	}
	if !sig.HasAccountMask {
		t.Error("expected account mask signal")
	}
	if sig.DateHits < 5 {
		t.Errorf("DateHits = %d, want >= 5", sig.DateHits)
	}
	if sig.MoneyHits != 5 {
		t.Errorf("MoneyHits = %d, want 5", sig.MoneyHits)
	}
}

func TestDetectEmpty(t *testing.T) {
	sig := Detect("")
	if sig != (Signals{}) {
		t.Errorf("Detect(\"\") = %+v, want zero value", sig)
	}
}

func TestDetectCases(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Signals
	}{
		{
			name: "brand is case insensitive",
			text: "paid with mastercard",
			want: Signals{HasBrand: true},
		},
		{
			name: "masterCard with space",
			text: "MASTER CARD member since 1999",
			want: Signals{HasBrand: true},
		},
		{
			name: "acct ending variant",
			text: "Acct no. ending in 987",
			want: Signals{HasAccountMask: true},
		},
		{
			name: "money requires cents",
			text: "$100 and $2,345.67",
			want: Signals{MoneyHits: 1},
		},
		{
			name: "dates with and without year",
			text: "1/2 and 12/31/2024 but not 13:45",
			want: Signals{DateHits: 2},
		},
		{
			name: "structure phrase in prose",
			text: "your new balance is shown below",
			want: Signals{HasStructure: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.text); got != tt.want {
				t.Errorf("Detect() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name         string
		sig          Signals
		minDate      int
		minMoney     int
		want         int
	}{
		{"all clear", Signals{true, true, true, 10, 10}, 5, 3, 5},
		{"none clear", Signals{}, 5, 3, 0},
		{"counts at threshold", Signals{DateHits: 5, MoneyHits: 3}, 5, 3, 2},
		{"counts below threshold", Signals{DateHits: 4, MoneyHits: 2}, 5, 3, 0},
		{"relaxed thresholds", Signals{DateHits: 2, MoneyHits: 1}, 2, 1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sig.Score(tt.minDate, tt.minMoney); got != tt.want {
				t.Errorf("Score(%d, %d) = %d, want %d", tt.minDate, tt.minMoney, got, tt.want)
			}
		})
	}
}
