package returns

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestAnalyzer_Analyze(t *testing.T) {
	ledger := mustLedger(t,
		NewBuy(day(0), "ACME", Q(10), USD(100)),
		NewBuy(day(0), "GONE", Q(5), USD(50)),
		NewSell(day(100), "GONE", Q(5), USD(60)),
		NewBuy(day(400), "LATER", Q(1), USD(1)), // after the analysis date
	)
	quotes := NewQuotes().SetPrice("ACME", USD(110))

	a, err := DefaultAnalyzer().Analyze(context.Background(), ledger, quotes, day(365))
	if err != nil {
		t.Fatalf("Analyze() unexpected error: %v", err)
	}

	if a.ID == uuid.Nil {
		t.Errorf("Analyze() did not set an ID")
	}
	if got, want := a.TotalValue, USD(1100); !got.Equal(want) {
		t.Errorf("TotalValue = %v, want %v", got, want)
	}
	if got, want := a.TotalInvestment, USD(1250); !got.Equal(want) {
		t.Errorf("TotalInvestment = %v, want %v", got, want)
	}
	if got, want := a.SellProceeds, USD(300); !got.Equal(want) {
		t.Errorf("SellProceeds = %v, want %v", got, want)
	}
	if want := 1400.0/1250 - 1; !a.TotalReturn.Valid || !approx(a.TotalReturn.Value, want, 1e-9) {
		t.Errorf("TotalReturn = %+v, want %v", a.TotalReturn, want)
	}
	for name, m := range map[string]Metric{"XIRR": a.XIRR, "MIRR": a.MIRR, "TWR": a.TWR, "HoldingDays": a.HoldingDays, "AnnualizedReturn": a.AnnualizedReturn} {
		if !m.Valid {
			t.Errorf("%s = %+v, want a valid metric", name, m)
		}
	}

	if got, want := len(a.Symbols), 2; got != want {
		t.Fatalf("len(Symbols) = %d, want %d", got, want)
	}
	acme, gone := a.Symbols[0], a.Symbols[1]
	if acme.Symbol != "ACME" || !approx(acme.XIRR.Value, 0.10, 1e-4) || !approx(acme.HoldingDays.Value, 365, 1e-9) {
		t.Errorf("ACME = %+v, want 10%% XIRR over 365 days", acme)
	}
	if !approx(acme.TotalReturn.Value, 0.10, 1e-9) || !approx(acme.AnnualizedReturn.Value, 0.10, 1e-9) {
		t.Errorf("ACME returns = %v, %v, want 10%%", acme.TotalReturn, acme.AnnualizedReturn)
	}
	if !gone.Quantity.IsZero() || !gone.AverageCost.Equal(USD(50)) {
		t.Errorf("GONE = %+v, want a closed position with an average cost of 50", gone)
	}
	if gone.TotalReturn.Valid {
		t.Errorf("GONE TotalReturn = %+v, want N/A without quote", gone.TotalReturn)
	}
	if !gone.XIRR.Valid || !approx(gone.HoldingDays.Value, 100, 1e-9) {
		t.Errorf("GONE = %+v, want a valid XIRR over 100 days", gone)
	}
}

func TestAnalyzer_Failures(t *testing.T) {
	ledger := mustLedger(t, NewBuy(day(0), "ACME", Q(10), USD(100)))

	t.Run("metrics", func(t *testing.T) {
		// no quote: nothing comes back to the investor.
		a, err := DefaultAnalyzer().Analyze(context.Background(), ledger, nil, day(365))
		if err != nil {
			t.Fatalf("Analyze() unexpected error: %v", err)
		}
		if !errors.Is(a.XIRR.Err, ErrInsufficientData) {
			t.Errorf("XIRR = %+v, want %v", a.XIRR, ErrInsufficientData)
		}
		if a.MIRR.Valid || a.MIRR.Err != nil {
			t.Errorf("MIRR = %+v, want N/A", a.MIRR)
		}
		if got, want := a.XIRR.Percent(), "N/A"; got != want {
			t.Errorf("XIRR.Percent() = %q, want %q", got, want)
		}

		data, err := json.Marshal(a.XIRR)
		if err != nil {
			t.Fatalf("Marshal() unexpected error: %v", err)
		}
		if got := string(data); !strings.HasPrefix(got, `{"value":null,"error":"insufficient data`) {
			t.Errorf("Marshal(XIRR) = %s, want a null value with an error", got)
		}
	})

	t.Run("currency", func(t *testing.T) {
		quotes := NewQuotes().SetPrice("ACME", M(110, "EUR"))
		if _, err := DefaultAnalyzer().Analyze(context.Background(), ledger, quotes, day(365)); !errors.Is(err, ErrCurrencyMismatch) {
			t.Errorf("Analyze() error = %v, want %v", err, ErrCurrencyMismatch)
		}
	})

	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := DefaultAnalyzer().Analyze(ctx, ledger, nil, day(365)); !errors.Is(err, context.Canceled) {
			t.Errorf("Analyze() error = %v, want %v", err, context.Canceled)
		}
	})
}
