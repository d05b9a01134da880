package returns

import (
	"slices"

	"github.com/shopspring/decimal"
)

// lot represents a single purchase of a security, still (partially) held.
type lot struct {
	opened    Date
	remaining Quantity
}

// lotQueue is a FIFO of lots. Lots are values consumed through the head
// index, never aliased.
type lotQueue struct {
	lots []lot
	head int
}

func (q *lotQueue) push(l lot) { q.lots = append(q.lots, l) }

func (q *lotQueue) empty() bool { return q.head >= len(q.lots) }

// match consumes up to quantity units from the oldest lots, calling fn for
// each lot matched with the quantity taken from it.
func (q *lotQueue) match(quantity Quantity, fn func(opened Date, matched Quantity)) {
	for quantity.IsPositive() && !q.empty() {
		oldest := q.lots[q.head]
		matched := oldest.remaining.Min(quantity)
		fn(oldest.opened, matched)

		quantity = quantity.Sub(matched)
		oldest.remaining = oldest.remaining.Sub(matched)
		if oldest.remaining.IsPositive() {
			q.lots[q.head] = oldest
		} else {
			q.head++
		}
	}
}

// HoldingPeriod returns the cash-weighted average number of days money was
// invested in the ledger's positions.
//
// Purchases open lots; sales, and the virtual sells liquidating the
// valuation's open positions at its date, close them in FIFO order. Each
// match weighs its holding days with its cash amount (matched quantity ×
// sale price). It reports false when no cash was matched.
//
// Restrict both the ledger and the valuation to a symbol (Ledger.Symbol and
// Valuation.Only) to get the holding period of that symbol.
func HoldingPeriod(ledger *Ledger, v Valuation) (float64, bool) {
	events := slices.Concat(ledger.transactions, v.liquidation())
	slices.SortStableFunc(events, func(a, b Transaction) int { return compareDates(a.Date, b.Date) })

	// lots are matched within their own symbol only.
	queues := make(map[string]*lotQueue)
	weighted, cash := decimal.Zero, decimal.Zero
	for _, tx := range events {
		q, ok := queues[tx.Symbol]
		if !ok {
			q = new(lotQueue)
			queues[tx.Symbol] = q
		}
		switch tx.Type {
		case Buy:
			q.push(lot{opened: tx.Date, remaining: tx.Quantity})
		case Sell, VirtualSell:
			q.match(tx.Quantity, func(opened Date, matched Quantity) {
				amount := tx.Price.Mul(matched).Decimal()
				days := decimal.NewFromInt(int64(tx.Date.DaysSince(opened)))
				weighted = weighted.Add(amount.Mul(days))
				cash = cash.Add(amount)
			})
		}
	}
	if cash.IsZero() {
		return 0, false
	}
	return weighted.Div(cash).InexactFloat64(), true
}
