package returns

import (
	"errors"
	"testing"
)

func TestHoldings(t *testing.T) {
	ledger := mustLedger(t,
		NewBuy(day(0), "AAPL", Q(100), USD(150)),
		NewBuy(day(5), "GOOG", Q(50), USD(2800)),
		NewSell(day(31), "AAPL", Q(25), USD(160)),
		NewBuy(day(40), "AAPL", Q(10), USD(155)),
		NewSell(day(59), "GOOG", Q(50), USD(2900)), // closed
		NewBuy(day(60), "MSFT", Q(3), USD(300)),    // no quote
		NewSell(day(61), "TSLA", Q(2), USD(200)),   // short, not modeled
	)
	quotes := NewQuotes().
		SetPrice("AAPL", USD(170)).
		SetPrice("GOOG", USD(3000))

	got := Holdings(ledger, quotes)
	want := []Holding{
		{Symbol: "AAPL", Quantity: Q(85), Price: USD(170), Value: USD(14450)},
		{Symbol: "MSFT", Quantity: Q(3), Price: USD(0), Value: USD(0)},
	}
	if len(got) != len(want) {
		t.Fatalf("Holdings() = %v, want %v", got, want)
	}
	for i := range want {
		g, w := got[i], want[i]
		if g.Symbol != w.Symbol || !g.Quantity.Equal(w.Quantity) || !g.Price.Equal(w.Price) || !g.Value.Equal(w.Value) {
			t.Errorf("Holdings()[%d] = %+v, want %+v", i, g, w)
		}
	}
}

// TestValuation_Total checks the total against an independent computation
// of Σ net quantity × price over symbols.
func TestValuation_Total(t *testing.T) {
	ledger := mustLedger(t,
		NewBuy(day(0), "A", Q(10), USD(10)),
		NewBuy(day(1), "B", Q(7.5), USD(20)),
		NewSell(day(2), "A", Q(4), USD(12)),
		NewBuy(day(3), "C", Q(1), USD(99)),
		NewSell(day(4), "C", Q(1), USD(98)),
		NewBuy(day(5), "A", Q(0.5), USD(11)),
	)
	prices := map[string]float64{"A": 13, "B": 21.1, "C": 97}
	quotes := NewQuotes()
	for symbol, p := range prices {
		quotes.SetPrice(symbol, USD(p))
	}

	net := make(map[string]float64)
	for _, tx := range ledger.Transactions() {
		net[tx.Symbol] += tx.Delta().Float()
	}
	var want float64
	for symbol, quantity := range net {
		if quantity > 0 {
			want += quantity * prices[symbol]
		}
	}

	v := mustValuation(t, ledger, quotes, day(10))
	if got := v.Total().Float(); !approx(got, want, 1e-9) {
		t.Errorf("Total() = %v, want %v", got, want)
	}
	if got, want := len(v.Holdings), 2; got != want {
		t.Errorf("len(Holdings) = %d, want %d", got, want)
	}
}

func TestValuation_Only(t *testing.T) {
	v := Valuation{On: day(10), Holdings: []Holding{
		{Symbol: "A", Quantity: Q(1), Price: USD(10), Value: USD(10)},
		{Symbol: "B", Quantity: Q(2), Price: USD(10), Value: USD(20)},
	}}
	only := v.Only("B")
	if got, want := only.Total(), USD(20); !got.Equal(want) {
		t.Errorf("Only(B).Total() = %v, want %v", got, want)
	}
	if got := v.Only("C"); len(got.Holdings) != 0 || got.On != v.On {
		t.Errorf("Only(C) = %+v, want no holdings on %v", got, v.On)
	}

	sells := v.liquidation()
	if len(sells) != 2 {
		t.Fatalf("liquidation() = %v, want 2 virtual sells", sells)
	}
	for _, s := range sells {
		if s.Type != VirtualSell || s.Date != v.On {
			t.Errorf("liquidation() = %v, want virtual sells on %v", s, v.On)
		}
	}
}

func TestNewValuation_CurrencyMismatch(t *testing.T) {
	ledger := mustLedger(t, NewBuy(day(0), "SAP", Q(10), M(100, "EUR")))

	_, err := NewValuation(ledger, NewQuotes().SetPrice("SAP", USD(120)), day(10))
	if !errors.Is(err, ErrCurrencyMismatch) {
		t.Errorf("NewValuation() error = %v, want %v", err, ErrCurrencyMismatch)
	}

	// prices without currency are in the ledger's.
	v := mustValuation(t, ledger, NewQuotes().SetPrice("SAP", NO(120)), day(10))
	if got, want := v.Total(), M(1200, "EUR"); !got.Equal(want) {
		t.Errorf("Total() = %v, want %v", got, want)
	}
}

func TestValueOverTime(t *testing.T) {
	ledger := mustLedger(t,
		NewBuy(day(0), "A", Q(10), USD(10)),
		NewBuy(day(0), "B", Q(1), USD(5)),
		NewSell(day(20), "A", Q(4), USD(12)),
		NewSell(day(30), "B", Q(1), USD(6)),
	)
	quotes := NewQuotes().SetPrice("A", USD(15)).SetPrice("B", USD(8))

	got, err := ValueOverTime(ledger, quotes)
	if err != nil {
		t.Fatalf("ValueOverTime() unexpected error: %v", err)
	}
	want := []ValuePoint{
		{On: day(0), Value: USD(158)},
		{On: day(20), Value: USD(98)},
		{On: day(30), Value: USD(90)},
	}
	if len(got) != len(want) {
		t.Fatalf("ValueOverTime() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i].On != want[i].On || !got[i].Value.Equal(want[i].Value) {
			t.Errorf("ValueOverTime()[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if _, err := ValueOverTime(ledger, NewQuotes().SetPrice("A", M(15, "EUR"))); !errors.Is(err, ErrCurrencyMismatch) {
		t.Errorf("ValueOverTime() error = %v, want %v", err, ErrCurrencyMismatch)
	}
}
