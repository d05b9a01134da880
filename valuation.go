package returns

import (
	"slices"
	"strings"
)

// Holding is an open position priced with the current quote.
type Holding struct {
	Symbol   string   `json:"symbol"`
	Quantity Quantity `json:"quantity"` // Quantity is the net quantity, always positive.
	Price    Money    `json:"price"`    // Price is the current quote, zero when unknown.
	Value    Money    `json:"value"`
}

// Holdings computes the open positions of the ledger, priced with quotes.
//
// Symbols whose net quantity is zero or negative are excluded. A symbol
// without quote is priced at zero, so its value is zero. Holdings are sorted
// by symbol.
func Holdings(ledger *Ledger, quotes *Quotes) []Holding {
	net := make(map[string]Quantity)
	for _, tx := range ledger.transactions {
		net[tx.Symbol] = net[tx.Symbol].Add(tx.Delta())
	}

	holdings := make([]Holding, 0, len(net))
	for symbol, quantity := range net {
		if !quantity.IsPositive() {
			continue
		}
		price, ok := quotes.Price(symbol)
		if !ok {
			price = M(0, ledger.currency)
		}
		if price.Currency() == "" {
			price = price.WithCurrency(ledger.currency)
		}
		holdings = append(holdings, Holding{
			Symbol:   symbol,
			Quantity: quantity,
			Price:    price,
			Value:    price.Mul(quantity),
		})
	}
	slices.SortFunc(holdings, func(a, b Holding) int { return strings.Compare(a.Symbol, b.Symbol) })
	return holdings
}

// Valuation is the priced portfolio at a single evaluation date. The same
// Valuation must be used for every metric of an analysis so that they agree
// on the value of open positions.
type Valuation struct {
	On       Date      `json:"on"`
	Holdings []Holding `json:"holdings"`
}

// NewValuation values the ledger's open positions on a day.
//
// It fails with ErrCurrencyMismatch when quotes are in another currency than
// the ledger.
func NewValuation(ledger *Ledger, quotes *Quotes, on Date) (Valuation, error) {
	if err := quotes.CheckCurrency(ledger.currency); err != nil {
		return Valuation{On: on}, err
	}
	return Valuation{On: on, Holdings: Holdings(ledger, quotes)}, nil
}

// Total returns the sum of all holding values.
func (v Valuation) Total() Money {
	var total Money
	for _, h := range v.Holdings {
		total = total.Add(h.Value)
	}
	return total
}

// Holding returns the holding of symbol, if any.
func (v Valuation) Holding(symbol string) (Holding, bool) {
	for _, h := range v.Holdings {
		if h.Symbol == symbol {
			return h, true
		}
	}
	return Holding{}, false
}

// Only returns the valuation restricted to symbol.
func (v Valuation) Only(symbol string) Valuation {
	only := Valuation{On: v.On}
	if h, ok := v.Holding(symbol); ok {
		only.Holdings = []Holding{h}
	}
	return only
}

// liquidation returns one virtual sell per open position, closing it at the
// valuation date and price.
func (v Valuation) liquidation() []Transaction {
	sells := make([]Transaction, 0, len(v.Holdings))
	for _, h := range v.Holdings {
		sells = append(sells, Transaction{
			Symbol:   h.Symbol,
			Date:     v.On,
			Type:     VirtualSell,
			Quantity: h.Quantity,
			Price:    h.Price,
		})
	}
	return sells
}

// ValuePoint is the value of the portfolio on a day.
type ValuePoint struct {
	On    Date  `json:"on"`
	Value Money `json:"value"`
}

// ValueOverTime values the positions held after each transaction date with
// the current quotes. With constant prices the value only changes on those
// dates, so the points describe the value on every day since the first
// transaction.
//
// It fails with ErrCurrencyMismatch when quotes are in another currency than
// the ledger.
func ValueOverTime(ledger *Ledger, quotes *Quotes) ([]ValuePoint, error) {
	if err := quotes.CheckCurrency(ledger.currency); err != nil {
		return nil, err
	}
	var points []ValuePoint
	txs := ledger.transactions
	for i := 0; i < len(txs); {
		on := txs[i].Date
		for i < len(txs) && txs[i].Date == on {
			i++
		}
		held := &Ledger{transactions: txs[:i], currency: ledger.currency}
		v := Valuation{On: on, Holdings: Holdings(held, quotes)}
		points = append(points, ValuePoint{On: on, Value: M(0, ledger.currency).Add(v.Total())})
	}
	return points, nil
}
