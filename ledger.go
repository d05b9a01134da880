package returns

import (
	"fmt"
	"iter"
	"slices"
	"sort"
)

// Ledger represents a list of transactions.
//
// In a Ledger transactions are always in chronological order. Transactions
// on the same day keep the order in which they were appended.
type Ledger struct {
	transactions []Transaction
	currency     string // currency of all prices, possibly empty
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{transactions: make([]Transaction, 0)}
}

// LedgerOf creates a ledger from a list of transactions, in any order.
// The list is not modified.
func LedgerOf(txs ...Transaction) (*Ledger, error) {
	l := NewLedger()
	if err := l.Append(txs...); err != nil {
		return nil, err
	}
	return l, nil
}

// Currency returns the currency shared by all prices, or "" when none was given.
func (l *Ledger) Currency() string { return l.currency }

// Len returns the number of transactions.
func (l *Ledger) Len() int { return len(l.transactions) }

// Append validates transactions and adds them to this ledger, maintaining
// the chronological order.
//
// Prices without a currency adopt the ledger's. Nothing is appended if any
// transaction is invalid.
func (l *Ledger) Append(txs ...Transaction) error {
	currency := l.currency
	valid := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		if err := tx.Validate(); err != nil {
			return err
		}
		c := tx.Price.Currency()
		if !compatible(currency, c) {
			return fmt.Errorf("%w: %s price is in %s, ledger is in %s", ErrCurrencyMismatch, tx.Symbol, c, currency)
		}
		if currency == "" {
			currency = c
		}
		valid = append(valid, tx)
	}
	for i := range valid {
		valid[i].Price = valid[i].Price.WithCurrency(currency)
	}
	// earlier transactions may have been recorded without currency.
	for i := range l.transactions {
		l.transactions[i].Price = l.transactions[i].Price.WithCurrency(currency)
	}
	l.currency = currency
	l.transactions = append(l.transactions, valid...)
	l.stableSort()
	return nil
}

// Remove deletes the i-th transaction, in chronological order.
func (l *Ledger) Remove(i int) error {
	if i < 0 || i >= len(l.transactions) {
		return fmt.Errorf("no transaction at index %d, ledger has %d", i, len(l.transactions))
	}
	l.transactions = slices.Delete(l.transactions, i, i+1)
	return nil
}

// At returns the i-th transaction, in chronological order.
func (l *Ledger) At(i int) Transaction { return l.transactions[i] }

// Transactions returns an iterator that yields each transaction in chronological order.
func (l *Ledger) Transactions() iter.Seq2[int, Transaction] {
	return func(yield func(int, Transaction) bool) {
		for i, tx := range l.transactions {
			if !yield(i, tx) {
				return
			}
		}
	}
}

// Symbols returns the sorted list of symbols traded in the ledger.
func (l *Ledger) Symbols() []string {
	var symbols []string
	for _, tx := range l.transactions {
		symbols = append(symbols, tx.Symbol)
	}
	slices.Sort(symbols)
	return slices.Compact(symbols)
}

// Symbol returns a new Ledger with only the transactions on symbol.
func (l *Ledger) Symbol(symbol string) *Ledger {
	sub := &Ledger{currency: l.currency, transactions: make([]Transaction, 0)}
	for _, tx := range l.transactions {
		if tx.Symbol == symbol {
			sub.transactions = append(sub.transactions, tx)
		}
	}
	return sub
}

// Until returns a new Ledger with only the transactions on or before a day.
func (l *Ledger) Until(on Date) *Ledger {
	sub := &Ledger{currency: l.currency, transactions: make([]Transaction, 0)}
	for _, tx := range l.transactions {
		if tx.Date.After(on) {
			// The ledger is sorted by date, so it's safe to break.
			break
		}
		sub.transactions = append(sub.transactions, tx)
	}
	return sub
}

// OldestTransactionDate returns the date of the earliest transaction in the
// ledger, or the zero Date for an empty ledger.
func (l *Ledger) OldestTransactionDate() Date {
	if len(l.transactions) == 0 {
		return Date{}
	}
	return l.transactions[0].Date
}

// NewestTransactionDate returns the date of the latest transaction in the
// ledger, or the zero Date for an empty ledger.
func (l *Ledger) NewestTransactionDate() Date {
	if len(l.transactions) == 0 {
		return Date{}
	}
	return l.transactions[len(l.transactions)-1].Date
}

// stableSort sorts the ledger by transaction date. The sort is stable, meaning
// transactions on the same day maintain their original relative order.
func (l *Ledger) stableSort() {
	sort.SliceStable(l.transactions, func(i, j int) bool {
		return l.transactions[i].Date.Before(l.transactions[j].Date)
	})
}
