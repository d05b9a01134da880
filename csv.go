package returns

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// csvColumns are the columns required in a transaction CSV file, in any order.
var csvColumns = []string{"Symbol", "Date", "Type", "Quantity", "Price"}

// DecodeCSV reads transactions from a CSV file with a header row containing
// the columns Symbol, Date, Type, Quantity and Price. Extra columns are ignored.
//
// Prices are in currency, which may be empty.
func DecodeCSV(r io.Reader, currency string) (*Ledger, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return NewLedger(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read csv header: %w", err)
	}
	index := make(map[string]int)
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	cols := make([]int, len(csvColumns))
	for i, name := range csvColumns {
		j, ok := index[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("csv file must contain columns: %s", strings.Join(csvColumns, ", "))
		}
		cols[i] = j
	}

	var txs []Transaction
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("could not read csv record: %w", err)
		}
		line, _ := reader.FieldPos(0)
		tx, err := parseCSVRecord(record, cols, currency)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		txs = append(txs, tx)
	}
	return LedgerOf(txs...)
}

func parseCSVRecord(record []string, cols []int, currency string) (Transaction, error) {
	field := func(i int) string { return strings.TrimSpace(record[cols[i]]) }

	on, err := ParseDate(field(1))
	if err != nil {
		return Transaction{}, err
	}
	typ, err := ParseTxType(field(2))
	if err != nil {
		return Transaction{}, err
	}
	quantity, err := ParseQuantity(field(3))
	if err != nil {
		return Transaction{}, fmt.Errorf("quantity must be a numeric value: %w", err)
	}
	price, err := ParseMoney(field(4), currency)
	if err != nil {
		return Transaction{}, fmt.Errorf("price must be a numeric value: %w", err)
	}
	return Transaction{Symbol: field(0), Date: on, Type: typ, Quantity: quantity, Price: price}, nil
}

// EncodeCSV writes the ledger as a CSV file readable by DecodeCSV.
func EncodeCSV(w io.Writer, ledger *Ledger) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvColumns); err != nil {
		return err
	}
	for _, tx := range ledger.transactions {
		record := []string{tx.Symbol, tx.Date.String(), string(tx.Type), tx.Quantity.String(), tx.Price.Decimal().String()}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
