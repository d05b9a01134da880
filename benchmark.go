package returns

import "math"

// BenchmarkReturn is the return of a benchmark over a number of whole years.
type BenchmarkReturn struct {
	Years      int     `json:"years"`
	Start      Date    `json:"start"`      // Start is the date of the first close used.
	StartPrice Money   `json:"startPrice"`
	EndPrice   Money   `json:"endPrice"`
	Return     float64 `json:"return"`
	Annualized float64 `json:"annualized"`
}

// BenchmarkReturns computes the 1..years year returns of a benchmark whose
// current price is current on a day.
//
// Each period starts at the first close on or after the same day, n years
// earlier. Periods the history does not cover, because its earliest close
// is after the start day, are omitted.
func BenchmarkReturns(history *History[Money], current Money, on Date, years int) []BenchmarkReturn {
	var returns []BenchmarkReturn
	if history == nil {
		return returns
	}
	earliest, ok := history.Earliest()
	if !ok {
		return returns
	}
	for n := 1; n <= years; n++ {
		from := on.AddYears(-n)
		if earliest.After(from) {
			break
		}
		start, price, ok := history.ValueSince(from)
		if !ok || !start.Before(on) {
			continue
		}
		ratio, ok := current.Ratio(price)
		if !ok {
			continue
		}
		returns = append(returns, BenchmarkReturn{
			Years:      n,
			Start:      start,
			StartPrice: price,
			EndPrice:   current,
			Return:     ratio - 1,
			Annualized: math.Pow(ratio, 1/float64(n)) - 1,
		})
	}
	return returns
}

// Annualize converts a total return r earned over a number of days into an
// annual rate (actual/365). It reports false when days is not positive or
// r is below -100%.
func Annualize(r float64, days float64) (float64, bool) {
	if days <= 0 || 1+r < 0 {
		return 0, false
	}
	return math.Pow(1+r, daysPerYear/days) - 1, true
}
