package returns

import (
	"bytes"
	"strings"
	"testing"
)

func TestLedger_EncodeDecode(t *testing.T) {
	// lines are in chronological order and in canonical form.
	input := `{"date":"2024-01-02","type":"BUY","symbol":"AAPL","quantity":10,"price":185.2,"currency":"USD"}
{"date":"2024-01-03","type":"BUY","symbol":"GOOG","quantity":2.5,"price":140,"currency":"USD"}
{"date":"2024-03-15","type":"SELL","symbol":"AAPL","quantity":4,"price":172.62,"currency":"USD"}
`
	ledger, err := DecodeLedger(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeLedger() unexpected error: %v", err)
	}
	if got, want := ledger.Len(), 3; got != want {
		t.Fatalf("DecodeLedger() got %d transactions, want %d", got, want)
	}
	if got, want := ledger.At(2).Type, Sell; got != want {
		t.Errorf("third transaction type = %q, want %q", got, want)
	}

	var buf bytes.Buffer
	if err := EncodeLedger(&buf, ledger); err != nil {
		t.Fatalf("EncodeLedger() unexpected error: %v", err)
	}
	if got := buf.String(); got != input {
		t.Errorf("EncodeLedger() mismatch:\ngot:\n%s\nwant:\n%s", got, input)
	}
}

func TestDecodeLedger_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", `buy AAPL`},
		{"unknown type", `{"date":"2024-01-02","type":"DIVIDEND","symbol":"AAPL","quantity":1,"price":1}`},
		{"invalid quantity", `{"date":"2024-01-02","type":"buy","symbol":"AAPL","quantity":0,"price":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeLedger(strings.NewReader(tt.input)); err == nil {
				t.Errorf("DecodeLedger(%q) must fail", tt.input)
			}
		})
	}
}
