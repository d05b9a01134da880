package returns

import (
	"errors"
	"math"
	"testing"
)

func TestXIRR(t *testing.T) {
	tests := []struct {
		name  string
		flows CashFlows
		want  float64
	}{
		{
			name: "ten percent over a year",
			flows: CashFlows{
				{Date: day(0), Amount: NO(-1000)},
				{Date: day(365), Amount: NO(1100)},
			},
			want: 0.10,
		},
		{
			name: "loss",
			flows: CashFlows{
				{Date: day(0), Amount: NO(-1000)},
				{Date: day(365), Amount: NO(900)},
			},
			want: -0.10,
		},
		{
			name: "two years compounding",
			flows: CashFlows{
				{Date: day(0), Amount: NO(-1000)},
				{Date: day(730), Amount: NO(1210)},
			},
			want: 0.10,
		},
		{
			name: "unsorted with same day flows",
			flows: CashFlows{
				{Date: day(365), Amount: NO(1000)},
				{Date: day(0), Amount: NO(-600)},
				{Date: day(365), Amount: NO(100)},
				{Date: day(0), Amount: NO(-400)},
			},
			want: 0.10,
		},
		{
			name: "doubling in half a year",
			flows: CashFlows{
				{Date: day(0), Amount: NO(-100)},
				{Date: day(73), Amount: NO(200)}, // 73 days is 1/5 year
			},
			want: math.Pow(2, 5) - 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := XIRR(tt.flows)
			if err != nil {
				t.Fatalf("XIRR() unexpected error: %v", err)
			}
			if !approx(got, tt.want, 1e-4) {
				t.Errorf("XIRR() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestXIRR_Ledger buys 10 units at 100 and values them at 110 a year later.
func TestXIRR_Ledger(t *testing.T) {
	ledger := mustLedger(t, NewBuy(day(0), "ACME", Q(10), USD(100)))
	quotes := NewQuotes().SetPrice("ACME", USD(110))
	flows := ProjectCashFlows(ledger, mustValuation(t, ledger, quotes, day(365)))

	got, err := XIRR(flows)
	if err != nil {
		t.Fatalf("XIRR() unexpected error: %v", err)
	}
	if !approx(got, 0.10, 1e-4) {
		t.Errorf("XIRR() = %v, want 0.10", got)
	}
}

func TestXIRR_InsufficientData(t *testing.T) {
	ledger := mustLedger(t,
		NewBuy(day(0), "ACME", Q(10), USD(100)),
		NewBuy(day(30), "ACME", Q(10), USD(110)),
	)
	tests := []struct {
		name  string
		flows CashFlows
	}{
		{"empty", nil},
		{"single flow", CashFlows{{Date: day(0), Amount: NO(-100)}}},
		{"same day flows", CashFlows{{Date: day(0), Amount: NO(-100)}, {Date: day(0), Amount: NO(50)}}},
		{"all buys without terminal value", ProjectCashFlows(ledger, mustValuation(t, ledger, nil, day(365)))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := XIRR(tt.flows)
			if !errors.Is(err, ErrInsufficientData) {
				t.Errorf("XIRR() error = %v, want %v", err, ErrInsufficientData)
			}
		})
	}
}

// TestXIRR_Divergence uses flows whose NPV never reaches zero:
// -100 + 50x - 100x² < 0 for any discount factor x.
func TestXIRR_Divergence(t *testing.T) {
	flows := CashFlows{
		{Date: day(0), Amount: NO(-100)},
		{Date: day(365), Amount: NO(50)},
		{Date: day(730), Amount: NO(-100)},
	}
	_, err := XIRR(flows)
	if !errors.Is(err, ErrXIRRDivergence) {
		t.Errorf("XIRR() error = %v, want %v", err, ErrXIRRDivergence)
	}
}

// TestSolver_SeedFallback checks that the second seed is tried when the
// first one does not converge.
func TestSolver_SeedFallback(t *testing.T) {
	// with a single iteration, 0.1 only reaches -1% but 0.0 is the root.
	solver := Solver{MaxIterations: 1}
	flows := CashFlows{
		{Date: day(0), Amount: NO(-100)},
		{Date: day(365), Amount: NO(100)},
	}

	if _, ok := solver.Solve(flows, 0.1); ok {
		t.Fatalf("Solve(seed 0.1) converged in a single iteration, the test is useless")
	}
	got, err := solver.XIRR(flows)
	if err != nil {
		t.Fatalf("XIRR() unexpected error: %v", err)
	}
	if !approx(got, 0, 1e-9) {
		t.Errorf("XIRR() = %v, want 0", got)
	}
}

func TestSolver_Domain(t *testing.T) {
	if got := npv(-1, []float64{0, 1}, []float64{-100, 1}); !math.IsInf(got, 1) {
		t.Errorf("npv(-100%%) = %v, want +Inf", got)
	}
	// a near total loss: Newton steps from the seeds overshoot below -100%.
	flows := CashFlows{
		{Date: day(0), Amount: NO(-1000)},
		{Date: day(365), Amount: NO(1)},
	}
	got, err := XIRR(flows)
	if err != nil {
		t.Fatalf("XIRR() unexpected error: %v", err)
	}
	if !approx(got, -0.999, 1e-4) {
		t.Errorf("XIRR() = %v, want -0.999", got)
	}
}

func TestXIRR_CurrencyMismatch(t *testing.T) {
	// same-day flows in different currencies cannot be summed.
	flows := CashFlows{
		{Date: day(0), Amount: M(-100, "EUR")},
		{Date: day(365), Amount: USD(60)},
		{Date: day(365), Amount: M(60, "EUR")},
	}
	if _, err := XIRR(flows); !errors.Is(err, ErrCurrencyMismatch) {
		t.Errorf("XIRR() error = %v, want %v", err, ErrCurrencyMismatch)
	}
	if _, ok := DefaultSolver().Solve(flows, 0.1); ok {
		t.Errorf("Solve() converged on flows in different currencies")
	}
	if _, ok := MIRR(flows, DefaultFinanceRate, DefaultReinvestRate); ok {
		t.Errorf("MIRR() is defined on flows in different currencies")
	}
}
