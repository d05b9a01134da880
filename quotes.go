package returns

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

// Quotes is a snapshot of market data owned by the caller: the current
// price of each symbol and, optionally, a history of closing prices.
//
// The engine only reads it. A nil *Quotes has no price at all.
type Quotes struct {
	prices  map[string]Money
	history map[string]*History[Money]
}

// NewQuotes returns an empty snapshot.
func NewQuotes() *Quotes {
	return &Quotes{
		prices:  make(map[string]Money),
		history: make(map[string]*History[Money]),
	}
}

// SetPrice sets the current price of symbol.
func (q *Quotes) SetPrice(symbol string, price Money) *Quotes {
	q.prices[symbol] = price
	return q
}

// AddClose records the closing price of symbol on a day.
func (q *Quotes) AddClose(symbol string, on Date, price Money) *Quotes {
	h, ok := q.history[symbol]
	if !ok {
		h = new(History[Money])
		q.history[symbol] = h
	}
	h.Append(on, price)
	return q
}

// Price returns the current price of symbol.
func (q *Quotes) Price(symbol string) (Money, bool) {
	if q == nil {
		return Money{}, false
	}
	p, ok := q.prices[symbol]
	return p, ok
}

// History returns the closing prices of symbol, or nil if there are none.
func (q *Quotes) History(symbol string) *History[Money] {
	if q == nil {
		return nil
	}
	return q.history[symbol]
}

// PriceAsOf returns the most recent closing price of symbol on or before a day.
func (q *Quotes) PriceAsOf(symbol string, on Date) (Money, bool) {
	h := q.History(symbol)
	if h == nil {
		return Money{}, false
	}
	return h.ValueAsOf(on)
}

// Symbols returns the sorted list of symbols with a current price or a history.
func (q *Quotes) Symbols() []string {
	if q == nil {
		return nil
	}
	symbols := slices.Collect(maps.Keys(q.prices))
	for s := range q.history {
		if _, ok := q.prices[s]; !ok {
			symbols = append(symbols, s)
		}
	}
	slices.Sort(symbols)
	return symbols
}

// CheckCurrency verifies that every price of the snapshot is compatible with
// currency. When currency is empty, prices must share a single currency.
func (q *Quotes) CheckCurrency(currency string) error {
	check := func(what string, p Money) error {
		if !compatible(currency, p.Currency()) {
			return fmt.Errorf("%w: %s is in %s, expected %s", ErrCurrencyMismatch, what, p.Currency(), currency)
		}
		if currency == "" {
			currency = p.Currency()
		}
		return nil
	}
	for _, symbol := range q.Symbols() {
		if p, ok := q.prices[symbol]; ok {
			if err := check(symbol+" quote", p); err != nil {
				return err
			}
		}
		if h := q.history[symbol]; h != nil {
			for on, p := range h.Values() {
				if err := check(fmt.Sprintf("%s close on %s", symbol, on), p); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Until returns a PriceSource quoting the current prices from the day on,
// and the close history before it.
func (q *Quotes) Until(on Date) PriceSource { return pricesUntil{quotes: q, on: on} }

type pricesUntil struct {
	quotes *Quotes
	on     Date
}

func (p pricesUntil) PriceAsOf(symbol string, day Date) (Money, bool) {
	if !day.Before(p.on) {
		if price, ok := p.quotes.Price(symbol); ok {
			return price, true
		}
	}
	return p.quotes.PriceAsOf(symbol, day)
}

// QuoteFormat locates the quotes inside an arbitrary JSON document.
type QuoteFormat struct {
	// Prices is a JSONPath expression to an object mapping symbols to their current price.
	Prices string
	// History is a JSONPath expression to an object mapping symbols to
	// their closing prices, either as {"2024-01-02": 101.2} objects or as
	// lists of {"date": "2024-01-02", "close": 101.2}. It is optional: a
	// path matching nothing means no history.
	History string
	// Currency of all prices, possibly empty.
	Currency string
}

// DefaultQuoteFormat reads {"prices": {...}, "history": {...}} documents.
var DefaultQuoteFormat = QuoteFormat{Prices: "$.prices", History: "$.history"}

// DecodeQuotes reads a quote snapshot from a JSON document.
func DecodeQuotes(r io.Reader, format QuoteFormat) (*Quotes, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var jobj any
	if err := dec.Decode(&jobj); err != nil {
		return nil, fmt.Errorf("could not decode quotes: %w", err)
	}

	q := NewQuotes()
	if format.Prices != "" {
		jval, err := jsonpath.Get(format.Prices, jobj)
		if err != nil {
			return nil, fmt.Errorf("error reading prices at %q: %w", format.Prices, err)
		}
		prices, ok := first(jval).(map[string]any)
		if !ok {
			return nil, fmt.Errorf("prices at %q is not an object: %v", format.Prices, jval)
		}
		for symbol, v := range prices {
			d, err := toDecimal(v)
			if err != nil {
				return nil, fmt.Errorf("invalid price for %s: %w", symbol, err)
			}
			q.SetPrice(symbol, M(d, format.Currency))
		}
	}

	if format.History == "" {
		return q, nil
	}
	jval, err := jsonpath.Get(format.History, jobj)
	if err != nil {
		// no history in this document
		return q, nil
	}
	history, ok := first(jval).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("history at %q is not an object: %v", format.History, jval)
	}
	for symbol, v := range history {
		if err := decodeCloses(q, symbol, v, format.Currency); err != nil {
			return nil, fmt.Errorf("invalid history for %s: %w", symbol, err)
		}
	}
	return q, nil
}

func decodeCloses(q *Quotes, symbol string, v any, currency string) error {
	add := func(day, value any) error {
		s, ok := day.(string)
		if !ok {
			return fmt.Errorf("date is not a string: %v", day)
		}
		on, err := ParseDate(s)
		if err != nil {
			return err
		}
		d, err := toDecimal(value)
		if err != nil {
			return err
		}
		q.AddClose(symbol, on, M(d, currency))
		return nil
	}

	switch closes := v.(type) {
	case map[string]any:
		for day, value := range closes {
			if err := add(day, value); err != nil {
				return err
			}
		}
	case []any:
		for _, item := range closes {
			point, ok := item.(map[string]any)
			if !ok {
				return fmt.Errorf("history point is not an object: %v", item)
			}
			if err := add(point["date"], point["close"]); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("unsupported history %T", v)
	}
	return nil
}

// first keeps the first answer when jsonpath returns a list of answers.
func first(jval any) any {
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		return jlist[0]
	}
	return jval
}

func toDecimal(v any) (decimal.Decimal, error) {
	switch x := v.(type) {
	case json.Number:
		return decimal.NewFromString(x.String())
	case float64:
		return decimal.NewFromFloat(x), nil
	case string:
		return decimal.NewFromString(x)
	default:
		return decimal.Decimal{}, fmt.Errorf("not a number: %v", v)
	}
}

type quotesJSON struct {
	Prices  map[string]decimal.Decimal            `json:"prices"`
	History map[string]map[string]decimal.Decimal `json:"history,omitempty"`
}

// MarshalJSON writes the snapshot in the DefaultQuoteFormat.
func (q *Quotes) MarshalJSON() ([]byte, error) {
	v := quotesJSON{Prices: make(map[string]decimal.Decimal)}
	for symbol, p := range q.prices {
		v.Prices[symbol] = p.Decimal()
	}
	for symbol, h := range q.history {
		if v.History == nil {
			v.History = make(map[string]map[string]decimal.Decimal)
		}
		closes := make(map[string]decimal.Decimal)
		for on, p := range h.Values() {
			closes[on.String()] = p.Decimal()
		}
		v.History[symbol] = closes
	}
	return json.Marshal(v)
}

// UnmarshalJSON reads a snapshot in the DefaultQuoteFormat.
func (q *Quotes) UnmarshalJSON(data []byte) error {
	decoded, err := DecodeQuotes(bytes.NewReader(data), DefaultQuoteFormat)
	if err != nil {
		return err
	}
	*q = *decoded
	return nil
}
