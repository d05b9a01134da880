package returns

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

// CashFlow is an amount of money exchanged with the investor on a day.
//
// It is negative when money leaves the investor (a purchase) and positive
// when money comes back (a sale, or the liquidation of open positions).
type CashFlow struct {
	Date   Date
	Amount Money
}

// CashFlows is a series of cash flows.
type CashFlows []CashFlow

// ProjectCashFlows converts the ledger into a cash-flow series: one flow per
// transaction, in ledger order and with its own date, plus a terminal flow
// liquidating the valuation at its date when its total is positive.
func ProjectCashFlows(ledger *Ledger, v Valuation) CashFlows {
	flows := make(CashFlows, 0, len(ledger.transactions)+1)
	for _, tx := range ledger.transactions {
		flows = append(flows, tx.CashFlow())
	}
	if terminal, ok := v.terminalFlow(); ok {
		flows = append(flows, terminal)
	}
	return flows
}

// terminalFlow sums the virtual sells of the valuation into a single flow.
func (v Valuation) terminalFlow() (CashFlow, bool) {
	var total Money
	for _, sell := range v.liquidation() {
		total = total.Add(sell.CashFlow().Amount)
	}
	if !total.IsPositive() {
		return CashFlow{}, false
	}
	return CashFlow{Date: v.On, Amount: total}, true
}

// Currency returns the currency shared by every flow, "" if none has one.
// It fails with ErrCurrencyMismatch when flows are in different currencies.
func (f CashFlows) Currency() (string, error) {
	var currency string
	for _, flow := range f {
		c := flow.Amount.Currency()
		if !compatible(currency, c) {
			return "", fmt.Errorf("%w: flow on %s is in %s, others in %s", ErrCurrencyMismatch, flow.Date, c, currency)
		}
		if currency == "" {
			currency = c
		}
	}
	return currency, nil
}

// Normalize returns a copy of the series sorted by date, where flows on the
// same day are summed into one. Flows must share a currency, see Currency.
func (f CashFlows) Normalize() CashFlows {
	sorted := slices.Clone(f)
	slices.SortStableFunc(sorted, func(a, b CashFlow) int { return compareDates(a.Date, b.Date) })

	merged := make(CashFlows, 0, len(sorted))
	for _, flow := range sorted {
		if n := len(merged); n > 0 && merged[n-1].Date == flow.Date {
			merged[n-1].Amount = merged[n-1].Amount.Add(flow.Amount)
			continue
		}
		merged = append(merged, flow)
	}
	return merged
}

// Sum returns the sum of all amounts.
func (f CashFlows) Sum() Money {
	var sum Money
	for _, flow := range f {
		sum = sum.Add(flow.Amount)
	}
	return sum
}

// mixedSigns reports whether the series has both a negative and a positive flow.
func (f CashFlows) mixedSigns() bool {
	var positive, negative bool
	for _, flow := range f {
		positive = positive || flow.Amount.IsPositive()
		negative = negative || flow.Amount.IsNegative()
	}
	return positive && negative
}

// series returns, for each flow, the time in years since the first flow
// (actual/365) and the amount. f must be sorted.
func (f CashFlows) series() (years, amounts []float64) {
	if len(f) == 0 {
		return nil, nil
	}
	start := f[0].Date
	years = make([]float64, len(f))
	amounts = make([]float64, len(f))
	for i, flow := range f {
		years[i] = float64(flow.Date.DaysSince(start)) / daysPerYear
		amounts[i] = flow.Amount.Float()
	}
	return years, amounts
}

type cashFlowJSON struct {
	Date     Date            `json:"date"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency,omitempty"`
}

func (c CashFlow) MarshalJSON() ([]byte, error) {
	return json.Marshal(cashFlowJSON{Date: c.Date, Amount: c.Amount.Decimal(), Currency: c.Amount.Currency()})
}

func (c *CashFlow) UnmarshalJSON(data []byte) error {
	var temp cashFlowJSON
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	*c = CashFlow{Date: temp.Date, Amount: M(temp.Amount, temp.Currency)}
	return nil
}
