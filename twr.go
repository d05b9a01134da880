package returns

import "fmt"

// PriceSource provides the price of a symbol on a day, typically the most
// recent close on or before that day. *Quotes is a PriceSource.
type PriceSource interface {
	PriceAsOf(symbol string, on Date) (Money, bool)
}

// SubPeriod is the interval between two consecutive valued dates.
type SubPeriod struct {
	From         Date    `json:"from"`
	To           Date    `json:"to"`
	Start        Money   `json:"start"`        // Start is the portfolio value at From.
	End          Money   `json:"end"`          // End is the portfolio value at To, after its transactions.
	Contribution Money   `json:"contribution"` // Contribution is the money added on To (purchases minus sales).
	Return       float64 `json:"return"`
}

// TWR is a time-weighted return with the sub-periods it chains.
type TWR struct {
	Return  float64     `json:"return"`
	Periods []SubPeriod `json:"periods"`
}

// valuePoint is the portfolio value after the transactions of a day.
type valuePoint struct {
	on           Date
	value        Money
	contribution Money
}

// TimeWeightedReturn computes the time-weighted return of the ledger.
//
// The portfolio is valued after the transactions of each transaction date,
// and on until when it is after the last one. Positions are priced with the
// most recent price from prices on or before the date, or with the last
// transaction price of the symbol when prices has none. prices may be nil.
//
// Each sub-period return is (End - Contribution)/Start - 1, sub-periods
// starting from a zero value are skipped, and the results are chained:
// TWR = Π(1+rᵢ) - 1. It fails with ErrInsufficientPeriods when there are
// fewer than two valued dates or no computable sub-period, and with
// ErrCurrencyMismatch when a price is in another currency than the ledger.
func TimeWeightedReturn(ledger *Ledger, prices PriceSource, until Date) (TWR, error) {
	points, err := valuePoints(ledger, prices, until)
	if err != nil {
		return TWR{}, err
	}
	if len(points) < 2 {
		return TWR{}, fmt.Errorf("%w: %d valued dates", ErrInsufficientPeriods, len(points))
	}

	twr := TWR{Return: 1}
	for i := 1; i < len(points); i++ {
		prev, cur := points[i-1], points[i]
		ratio, ok := cur.value.Sub(cur.contribution).Ratio(prev.value)
		if !ok {
			continue
		}
		period := SubPeriod{
			From:         prev.on,
			To:           cur.on,
			Start:        prev.value,
			End:          cur.value,
			Contribution: cur.contribution,
			Return:       ratio - 1,
		}
		twr.Periods = append(twr.Periods, period)
		twr.Return *= ratio
	}
	if len(twr.Periods) == 0 {
		return TWR{}, fmt.Errorf("%w: every period starts from a zero value", ErrInsufficientPeriods)
	}
	twr.Return--
	return twr, nil
}

func valuePoints(ledger *Ledger, prices PriceSource, until Date) ([]valuePoint, error) {
	positions := make(map[string]Quantity)
	lastPrice := make(map[string]Money)

	value := func(on Date) (Money, error) {
		total := M(0, ledger.currency)
		for symbol, quantity := range positions {
			if !quantity.IsPositive() {
				continue
			}
			price, ok := Money{}, false
			if prices != nil {
				price, ok = prices.PriceAsOf(symbol, on)
			}
			if !ok {
				price = lastPrice[symbol]
			}
			if !compatible(total.Currency(), price.Currency()) {
				return Money{}, fmt.Errorf("%w: %s on %s is priced in %s, expected %s", ErrCurrencyMismatch, symbol, on, price.Currency(), total.Currency())
			}
			total = total.Add(price.Mul(quantity))
		}
		return total, nil
	}

	var points []valuePoint
	txs := ledger.transactions
	for i := 0; i < len(txs); {
		on := txs[i].Date
		contribution := M(0, ledger.currency)
		for ; i < len(txs) && txs[i].Date == on; i++ {
			tx := txs[i]
			positions[tx.Symbol] = positions[tx.Symbol].Add(tx.Delta())
			lastPrice[tx.Symbol] = tx.Price
			contribution = contribution.Sub(tx.CashFlow().Amount)
		}
		v, err := value(on)
		if err != nil {
			return nil, err
		}
		points = append(points, valuePoint{on: on, value: v, contribution: contribution})
	}

	if len(points) > 0 && until.After(points[len(points)-1].on) {
		v, err := value(until)
		if err != nil {
			return nil, err
		}
		points = append(points, valuePoint{on: until, value: v, contribution: M(0, ledger.currency)})
	}
	return points, nil
}
