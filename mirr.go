package returns

import "math"

// Default MIRR rates.
const (
	DefaultFinanceRate  = 0.10
	DefaultReinvestRate = 0.10
)

// MIRR returns the modified internal rate of return of flows.
//
// Positive flows are compounded to the last flow's date at reinvestRate,
// negative flows are discounted to the first flow's date at financeRate and
//
//	MIRR = (terminal value / |present value|)^(1/years) - 1
//
// where years is the span of the series (actual/365).
//
// It reports false when the rate is not defined: flows of a single sign,
// a zero aggregate, or a series spanning a single day. Flows in different
// currencies have no rate either, callers needing the reason check
// CashFlows.Currency first.
func MIRR(flows CashFlows, financeRate, reinvestRate float64) (float64, bool) {
	if _, err := flows.Currency(); err != nil {
		return 0, false
	}
	flows = flows.Normalize()
	if len(flows) < 2 || !flows.mixedSigns() {
		return 0, false
	}
	years, amounts := flows.series()
	span := years[len(years)-1]
	if span <= 0 {
		return 0, false
	}

	var terminal, present float64
	for i, a := range amounts {
		switch {
		case a > 0:
			terminal += a * math.Pow(1+reinvestRate, span-years[i])
		case a < 0:
			present += a / math.Pow(1+financeRate, years[i])
		}
	}
	if terminal == 0 || present == 0 {
		return 0, false
	}
	return math.Pow(terminal/math.Abs(present), 1/span) - 1, true
}
