package server

import (
	"encoding/json"
	"net/http"

	"github.com/etnz/returns"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status string `json:"status"`
}

// Health reports that the server is up.
//
// Endpoint: GET /api/system/health
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, HealthResponse{Status: "healthy"})
}

// AnalysisRequest is the body of an analysis request. On defaults to today.
type AnalysisRequest struct {
	On           returns.Date          `json:"on"`
	Transactions []returns.Transaction `json:"transactions"`
	Quotes       *returns.Quotes       `json:"quotes"`
}

// Analysis runs every metric on the posted ledger and quotes.
//
// Endpoint: POST /api/analysis
// Response: 200 OK with returns.Analysis
// Error: 400 Bad Request for an invalid body or an invalid ledger
func (s *Server) Analysis(w http.ResponseWriter, r *http.Request) {
	var req AnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	ledger, err := returns.LedgerOf(req.Transactions...)
	if err != nil {
		RespondError(w, statusOf(err), "invalid transactions", err)
		return
	}
	if req.On.IsZero() {
		req.On = returns.Today()
	}
	if req.Quotes == nil {
		req.Quotes = returns.NewQuotes()
	}

	a, err := s.analyzer.Analyze(r.Context(), ledger, req.Quotes, req.On)
	if err != nil {
		RespondError(w, statusOf(err), "analysis failed", err)
		return
	}
	RespondJSON(w, http.StatusOK, a)
}

// RateRequest is the body of a rate request. Rates default to the server
// settings.
type RateRequest struct {
	CashFlows    returns.CashFlows `json:"cashFlows"`
	FinanceRate  *float64          `json:"financeRate,omitempty"`
	ReinvestRate *float64          `json:"reinvestRate,omitempty"`
}

// RateResponse holds a rate, null when the rate does not exist.
type RateResponse struct {
	Rate *float64 `json:"rate"`
}

// XIRR solves the internal rate of return of a series of cash flows.
//
// Endpoint: POST /api/xirr
// Response: 200 OK with RateResponse
// Error: 400 Bad Request when flows are in different currencies, 422
// Unprocessable Entity when no rate can be found
func (s *Server) XIRR(w http.ResponseWriter, r *http.Request) {
	var req RateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	rate, err := s.analyzer.Solver.XIRR(req.CashFlows)
	if err != nil {
		RespondError(w, statusOf(err), "xirr failed", err)
		return
	}
	RespondJSON(w, http.StatusOK, RateResponse{Rate: &rate})
}

// MIRR computes the modified internal rate of return of a series of cash
// flows.
//
// Endpoint: POST /api/mirr
// Response: 200 OK with RateResponse, rate is null when undefined
// Error: 400 Bad Request when flows are in different currencies
func (s *Server) MIRR(w http.ResponseWriter, r *http.Request) {
	finance, reinvest := s.analyzer.FinanceRate, s.analyzer.ReinvestRate
	req := RateRequest{FinanceRate: &finance, ReinvestRate: &reinvest}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if _, err := req.CashFlows.Currency(); err != nil {
		RespondError(w, statusOf(err), "mirr failed", err)
		return
	}
	var res RateResponse
	if rate, ok := returns.MIRR(req.CashFlows, *req.FinanceRate, *req.ReinvestRate); ok {
		res.Rate = &rate
	}
	RespondJSON(w, http.StatusOK, res)
}
