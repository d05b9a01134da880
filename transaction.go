package returns

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TxType identifies the direction of a transaction.
type TxType string

const (
	Buy  TxType = "BUY"
	Sell TxType = "SELL"
	// VirtualSell closes an open position at the valuation date. It is
	// synthesized by the engine and never recorded in a Ledger.
	VirtualSell TxType = "VIRTUAL_SELL"
)

// ParseTxType parses "buy" or "sell", case-insensitively.
func ParseTxType(s string) (TxType, error) {
	switch TxType(strings.ToUpper(strings.TrimSpace(s))) {
	case Buy:
		return Buy, nil
	case Sell:
		return Sell, nil
	default:
		return "", fmt.Errorf("transaction type must be either %q or %q, got %q", Buy, Sell, s)
	}
}

// Transaction is a dated purchase or sale of a quantity of a security at a unit price.
type Transaction struct {
	Symbol   string
	Date     Date
	Type     TxType
	Quantity Quantity // Quantity is the number of units exchanged.
	Price    Money    // Price is the unit price.
}

// NewBuy creates a new Buy transaction.
func NewBuy(on Date, symbol string, quantity Quantity, price Money) Transaction {
	return Transaction{Symbol: symbol, Date: on, Type: Buy, Quantity: quantity, Price: price}
}

// NewSell creates a new Sell transaction.
func NewSell(on Date, symbol string, quantity Quantity, price Money) Transaction {
	return Transaction{Symbol: symbol, Date: on, Type: Sell, Quantity: quantity, Price: price}
}

// Amount returns the total amount exchanged (quantity × price), always positive.
func (t Transaction) Amount() Money { return t.Price.Mul(t.Quantity) }

// Delta returns the change in position caused by the transaction.
func (t Transaction) Delta() Quantity {
	if t.Type == Buy {
		return t.Quantity
	}
	return t.Quantity.Neg()
}

// CashFlow returns the flow seen by the investor: negative when money is
// invested, positive when it comes back.
func (t Transaction) CashFlow() CashFlow {
	amount := t.Amount()
	if t.Type == Buy {
		amount = amount.Neg()
	}
	return CashFlow{Date: t.Date, Amount: amount}
}

// Validate checks that the transaction is economically meaningful.
func (t Transaction) Validate() error {
	switch {
	case strings.TrimSpace(t.Symbol) == "":
		return fmt.Errorf("%w: symbol is missing", ErrInvalidTransaction)
	case t.Date.IsZero():
		return fmt.Errorf("%w: %s date is missing", ErrInvalidTransaction, t.Symbol)
	case t.Type != Buy && t.Type != Sell:
		return fmt.Errorf("%w: %s unsupported type %q", ErrInvalidTransaction, t.Symbol, t.Type)
	case !t.Quantity.IsPositive():
		return fmt.Errorf("%w: on %s, %s quantity must be positive, got %s", ErrInvalidTransaction, t.Date, t.Symbol, t.Quantity)
	case !t.Price.IsPositive():
		return fmt.Errorf("%w: on %s, %s price must be positive, got %s", ErrInvalidTransaction, t.Date, t.Symbol, t.Price)
	}
	return nil
}

func (t Transaction) String() string {
	return fmt.Sprintf("%s %s %s %s @ %s", t.Date, t.Type, t.Symbol, t.Quantity, t.Price)
}

// txJSON is the flat persisted form: price and currency are separate fields.
type txJSON struct {
	Date     Date            `json:"date"`
	Type     TxType          `json:"type"`
	Symbol   string          `json:"symbol"`
	Quantity Quantity        `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency,omitempty"`
}

func (t Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(txJSON{
		Date:     t.Date,
		Type:     t.Type,
		Symbol:   t.Symbol,
		Quantity: t.Quantity,
		Price:    t.Price.Decimal(),
		Currency: t.Price.Currency(),
	})
}

func (t *Transaction) UnmarshalJSON(data []byte) error {
	var temp txJSON
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	typ, err := ParseTxType(string(temp.Type))
	if err != nil {
		return err
	}
	*t = Transaction{
		Symbol:   temp.Symbol,
		Date:     temp.Date,
		Type:     typ,
		Quantity: temp.Quantity,
		Price:    M(temp.Price, temp.Currency),
	}
	return nil
}
