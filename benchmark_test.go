package returns

import (
	"math"
	"testing"
)

func TestBenchmarkReturns(t *testing.T) {
	on := MustParseDate("2024-06-14")
	var h History[Money]
	h.Append(MustParseDate("2022-06-13"), USD(300)) // before the 2 years start
	h.Append(MustParseDate("2022-06-15"), USD(320)) // first close after it
	h.Append(MustParseDate("2023-06-14"), USD(400))

	got := BenchmarkReturns(&h, USD(440), on, 3)
	if len(got) != 2 {
		t.Fatalf("BenchmarkReturns() = %+v, want 2 periods", got)
	}

	if r, want := got[0].Return, 0.10; got[0].Years != 1 || !approx(r, want, 1e-9) {
		t.Errorf("1 year return = %v, want %v", r, want)
	}
	two := got[1]
	if two.Years != 2 || two.Start != MustParseDate("2022-06-15") {
		t.Errorf("2 years period = %d years from %v, want 2 years from 2022-06-15", two.Years, two.Start)
	}
	if want := math.Sqrt(440.0/320) - 1; !approx(two.Annualized, want, 1e-9) {
		t.Errorf("2 years annualized = %v, want %v", two.Annualized, want)
	}

	if got := BenchmarkReturns(nil, USD(440), on, 3); len(got) != 0 {
		t.Errorf("BenchmarkReturns(nil) = %v, want none", got)
	}
}

func TestBenchmarkReturns_Coverage(t *testing.T) {
	on := MustParseDate("2024-06-14")
	var h History[Money]
	// The first close is 2 years old: a 3 years period is not covered.
	h.Append(MustParseDate("2022-06-20"), USD(300))
	h.Append(MustParseDate("2023-06-14"), USD(400))

	got := BenchmarkReturns(&h, USD(440), on, 3)
	if len(got) != 1 || got[0].Years != 1 {
		t.Errorf("BenchmarkReturns() = %+v, want only the 1 year period", got)
	}

	if got := BenchmarkReturns(&History[Money]{}, USD(440), on, 3); len(got) != 0 {
		t.Errorf("BenchmarkReturns(empty) = %v, want none", got)
	}
}

func TestAnnualize(t *testing.T) {
	tests := []struct {
		r, days float64
		want    float64
		wantOK  bool
	}{
		{0.10, 365, 0.10, true},
		{0.21, 730, 0.10, true},
		{0.10, 0, 0, false},
		{-1.5, 365, 0, false},
	}
	for _, tt := range tests {
		got, ok := Annualize(tt.r, tt.days)
		if ok != tt.wantOK || (ok && !approx(got, tt.want, 1e-9)) {
			t.Errorf("Annualize(%v, %v) = %v, %v, want %v, %v", tt.r, tt.days, got, ok, tt.want, tt.wantOK)
		}
	}
}
