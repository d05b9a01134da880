package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/etnz/returns"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(returns.DefaultAnalyzer(), logger).Router([]string{"*"})
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	h := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/system/health", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var response HealthResponse
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if response.Status != "healthy" {
		t.Errorf("Expected status 'healthy', got '%s'", response.Status)
	}
}

func TestAnalysis(t *testing.T) {
	h := newTestRouter(t)

	t.Run("analyzes a one year position", func(t *testing.T) {
		w := post(t, h, "/api/analysis", `{
			"on": "2024-01-01",
			"transactions": [
				{"date": "2023-01-01", "type": "BUY", "symbol": "ACME", "quantity": 10, "price": 100, "currency": "USD"}
			],
			"quotes": {"prices": {"ACME": 110}}
		}`)
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		var response struct {
			XIRR struct {
				Value *float64 `json:"value"`
			} `json:"xirr"`
			Symbols []struct {
				Symbol string `json:"symbol"`
			} `json:"symbols"`
		}
		if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
			t.Fatalf("invalid response: %v", err)
		}
		if response.XIRR.Value == nil || math.Abs(*response.XIRR.Value-0.10) > 1e-4 {
			t.Errorf("xirr = %v, want 0.10", response.XIRR.Value)
		}
		if len(response.Symbols) != 1 || response.Symbols[0].Symbol != "ACME" {
			t.Errorf("symbols = %+v, want [ACME]", response.Symbols)
		}
	})

	t.Run("rejects an invalid transaction", func(t *testing.T) {
		w := post(t, h, "/api/analysis", `{
			"transactions": [
				{"date": "2023-01-01", "type": "BUY", "symbol": "ACME", "quantity": -1, "price": 100}
			]
		}`)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("rejects a malformed body", func(t *testing.T) {
		w := post(t, h, "/api/analysis", `{"transactions": [`)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestXIRR(t *testing.T) {
	h := newTestRouter(t)
	tests := []struct {
		name   string
		body   string
		status int
		rate   float64
	}{
		{
			name:   "one year at 10%",
			body:   `{"cashFlows": [{"date": "2023-01-01", "amount": -1000}, {"date": "2024-01-01", "amount": 1100}]}`,
			status: http.StatusOK,
			rate:   0.10,
		},
		{
			name:   "single flow",
			body:   `{"cashFlows": [{"date": "2023-01-01", "amount": -1000}]}`,
			status: http.StatusUnprocessableEntity,
		},
		{
			name:   "single sign",
			body:   `{"cashFlows": [{"date": "2023-01-01", "amount": 10}, {"date": "2024-01-01", "amount": 20}]}`,
			status: http.StatusUnprocessableEntity,
		},
		{
			name:   "mixed currencies",
			body:   `{"cashFlows": [{"date": "2023-01-01", "amount": -1000, "currency": "EUR"}, {"date": "2024-01-01", "amount": 600, "currency": "USD"}, {"date": "2024-01-01", "amount": 600, "currency": "EUR"}]}`,
			status: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(t, h, "/api/xirr", tt.body)
			if w.Code != tt.status {
				t.Fatalf("Expected %d, got %d: %s", tt.status, w.Code, w.Body.String())
			}
			if tt.status != http.StatusOK {
				var response ErrorResponse
				if err := json.NewDecoder(w.Body).Decode(&response); err != nil || response.Details == "" {
					t.Errorf("error response = %+v, %v, want details", response, err)
				}
				return
			}
			var response RateResponse
			if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
				t.Fatalf("invalid response: %v", err)
			}
			if response.Rate == nil || math.Abs(*response.Rate-tt.rate) > 1e-4 {
				t.Errorf("rate = %v, want %v", response.Rate, tt.rate)
			}
		})
	}
}

func TestMIRR(t *testing.T) {
	h := newTestRouter(t)

	t.Run("defaults rates", func(t *testing.T) {
		w := post(t, h, "/api/mirr", `{"cashFlows": [{"date": "2023-01-01", "amount": -1000}, {"date": "2024-01-01", "amount": 1100}]}`)
		var response RateResponse
		if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
			t.Fatalf("invalid response: %v", err)
		}
		if response.Rate == nil || math.Abs(*response.Rate-0.10) > 1e-4 {
			t.Errorf("rate = %v, want 0.10", response.Rate)
		}
	})

	t.Run("undefined rate is null", func(t *testing.T) {
		w := post(t, h, "/api/mirr", `{"cashFlows": [{"date": "2023-01-01", "amount": 1000}], "financeRate": 0.05}`)
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if got, want := strings.TrimSpace(w.Body.String()), `{"rate":null}`; got != want {
			t.Errorf("body = %s, want %s", got, want)
		}
	})

	t.Run("mixed currencies", func(t *testing.T) {
		w := post(t, h, "/api/mirr", `{"cashFlows": [{"date": "2023-01-01", "amount": -1000, "currency": "EUR"}, {"date": "2024-01-01", "amount": 1100, "currency": "USD"}]}`)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestCORS(t *testing.T) {
	h := newTestRouter(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/xirr", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, "*")
	}
}
