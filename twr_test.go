package returns

import (
	"errors"
	"testing"
)

func TestTimeWeightedReturn(t *testing.T) {
	tests := []struct {
		name        string
		txs         []Transaction
		closes      map[int]float64 // ACME closes by day
		until       Date
		want        float64
		wantPeriods int
	}{
		{
			// no cash flow after the first purchase: TWR is the price change.
			name:        "buy and hold",
			txs:         []Transaction{NewBuy(day(0), "ACME", Q(10), USD(100))},
			closes:      map[int]float64{0: 100, 90: 95, 180: 120},
			until:       day(180),
			want:        0.20,
			wantPeriods: 1,
		},
		{
			// contributions do not change the time-weighted return.
			name: "contribution",
			txs: []Transaction{
				NewBuy(day(0), "ACME", Q(10), USD(100)),
				NewBuy(day(30), "ACME", Q(10), USD(110)),
			},
			closes:      map[int]float64{0: 100, 30: 110, 60: 121},
			until:       day(60),
			want:        0.21,
			wantPeriods: 2,
		},
		{
			name: "period from zero is skipped",
			txs: []Transaction{
				NewBuy(day(0), "ACME", Q(10), USD(100)),
				NewSell(day(10), "ACME", Q(10), USD(110)),
				NewBuy(day(20), "ACME", Q(10), USD(120)),
			},
			closes:      map[int]float64{0: 100, 10: 110, 20: 120, 30: 132},
			until:       day(30),
			want:        0.21,
			wantPeriods: 2,
		},
		{
			// contribution is buys minus sells, so the 550 sale counts as
			// -550 and the period return is (550 + 550)/1000 - 1.
			name: "partial sale",
			txs: []Transaction{
				NewBuy(day(0), "ACME", Q(10), USD(100)),
				NewSell(day(30), "ACME", Q(5), USD(110)),
			},
			closes:      map[int]float64{0: 100, 30: 110, 60: 121},
			until:       day(60),
			want:        0.21,
			wantPeriods: 2,
		},
		{
			// without closes, positions are valued at their last transaction price.
			name: "last transaction price",
			txs: []Transaction{
				NewBuy(day(0), "ACME", Q(10), USD(100)),
				NewBuy(day(30), "ACME", Q(10), USD(150)),
			},
			until:       day(60),
			want:        0.50,
			wantPeriods: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := mustLedger(t, tt.txs...)
			quotes := NewQuotes()
			for n, price := range tt.closes {
				quotes.AddClose("ACME", day(n), USD(price))
			}

			got, err := TimeWeightedReturn(ledger, quotes, tt.until)
			if err != nil {
				t.Fatalf("TimeWeightedReturn() unexpected error: %v", err)
			}
			if !approx(got.Return, tt.want, 1e-9) {
				t.Errorf("TimeWeightedReturn() = %v, want %v", got.Return, tt.want)
			}
			if len(got.Periods) != tt.wantPeriods {
				t.Errorf("TimeWeightedReturn() got %d periods, want %d: %+v", len(got.Periods), tt.wantPeriods, got.Periods)
			}
		})
	}
}

func TestTimeWeightedReturn_InsufficientPeriods(t *testing.T) {
	ledger := mustLedger(t,
		NewBuy(day(0), "ACME", Q(10), USD(100)),
		NewBuy(day(0), "OTHER", Q(10), USD(100)),
	)

	// a single valued date, until is not after it.
	_, err := TimeWeightedReturn(ledger, nil, day(0))
	if !errors.Is(err, ErrInsufficientPeriods) {
		t.Errorf("TimeWeightedReturn() error = %v, want %v", err, ErrInsufficientPeriods)
	}
	if !errors.Is(err, ErrInsufficientData) {
		t.Errorf("TimeWeightedReturn() error = %v, want it to match %v", err, ErrInsufficientData)
	}

	_, err = TimeWeightedReturn(NewLedger(), nil, day(10))
	if !errors.Is(err, ErrInsufficientPeriods) {
		t.Errorf("TimeWeightedReturn(empty) error = %v, want %v", err, ErrInsufficientPeriods)
	}
}

func TestTimeWeightedReturn_CurrencyMismatch(t *testing.T) {
	ledger := mustLedger(t,
		NewBuy(day(0), "SAP", Q(10), M(100, "EUR")),
		NewBuy(day(30), "SAP", Q(10), M(110, "EUR")),
	)
	quotes := NewQuotes().AddClose("SAP", day(30), USD(120))

	_, err := TimeWeightedReturn(ledger, quotes, day(60))
	if !errors.Is(err, ErrCurrencyMismatch) {
		t.Errorf("TimeWeightedReturn() error = %v, want %v", err, ErrCurrencyMismatch)
	}
}
