package returns

import (
	"math"
	"testing"
)

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// NO is a helper for test to create money from const without currency set
func NO(v float64) Money { return M(v, "") }

// mustLedger creates a ledger or fails the test.
func mustLedger(t *testing.T, txs ...Transaction) *Ledger {
	t.Helper()
	l, err := LedgerOf(txs...)
	if err != nil {
		t.Fatalf("LedgerOf() unexpected error: %v", err)
	}
	return l
}

// day returns the n-th day after 2023-01-01, a non leap year start.
func day(n int) Date { return NewDate(2023, 1, 1).Add(n) }

func approx(got, want, precision float64) bool { return math.Abs(got-want) <= precision }

func mustValuation(t *testing.T, ledger *Ledger, quotes *Quotes, on Date) Valuation {
	t.Helper()
	v, err := NewValuation(ledger, quotes, on)
	if err != nil {
		t.Fatalf("NewValuation() unexpected error: %v", err)
	}
	return v
}
