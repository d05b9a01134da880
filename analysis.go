package returns

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Metric is the outcome of a metric computation.
//
// A Metric is either valid, not applicable (Valid false, Err nil), or
// failed (Valid false, Err set).
type Metric struct {
	Value float64
	Valid bool
	Err   error
}

func metricOf(v float64, err error) Metric {
	if err != nil {
		return Metric{Err: err}
	}
	return Metric{Value: v, Valid: true}
}

func optional(v float64, ok bool) Metric {
	if !ok {
		return Metric{}
	}
	return Metric{Value: v, Valid: true}
}

// Percent formats a rate metric, "N/A" when not valid.
func (m Metric) Percent() string {
	if !m.Valid {
		return "N/A"
	}
	return Rate(m.Value).String()
}

// Days formats a duration metric, "N/A" when not valid.
func (m Metric) Days() string {
	if !m.Valid {
		return "N/A"
	}
	return strconv.FormatFloat(m.Value, 'f', 1, 64) + " days"
}

func (m Metric) MarshalJSON() ([]byte, error) {
	var v struct {
		Value *float64 `json:"value"`
		Error string   `json:"error,omitempty"`
	}
	if m.Valid {
		v.Value = &m.Value
	}
	if m.Err != nil {
		v.Error = m.Err.Error()
	}
	return json.Marshal(v)
}

// SymbolAnalysis is the breakdown of an analysis for a single symbol.
type SymbolAnalysis struct {
	Symbol           string   `json:"symbol"`
	Quantity         Quantity `json:"quantity"` // Quantity is the net quantity, zero for closed positions.
	Price            Money    `json:"price"`
	Value            Money    `json:"value"`
	AverageCost      Money    `json:"averageCost"` // AverageCost is the average purchase price.
	TotalReturn      Metric   `json:"totalReturn"` // TotalReturn is the current price over the average cost.
	XIRR             Metric   `json:"xirr"`
	HoldingDays      Metric   `json:"holdingDays"`
	AnnualizedReturn Metric   `json:"annualizedReturn"`
}

// Analysis is the result of an analysis run.
type Analysis struct {
	ID               uuid.UUID        `json:"id"`
	On               Date             `json:"on"`
	Currency         string           `json:"currency,omitempty"`
	Holdings         []Holding        `json:"holdings"`
	TotalValue       Money            `json:"totalValue"`
	TotalInvestment  Money            `json:"totalInvestment"`
	SellProceeds     Money            `json:"sellProceeds"`
	TotalReturn      Metric           `json:"totalReturn"`
	XIRR             Metric           `json:"xirr"`
	MIRR             Metric           `json:"mirr"`
	TWR              Metric           `json:"twr"`
	Periods          []SubPeriod      `json:"periods,omitempty"`
	HoldingDays      Metric           `json:"holdingDays"`
	AnnualizedReturn Metric           `json:"annualizedReturn"`
	Symbols          []SymbolAnalysis `json:"symbols"`
	Values           []ValuePoint     `json:"values"` // Values is the value over time, at the current quotes.
}

// Analyzer computes every metric of a portfolio at once.
type Analyzer struct {
	Solver       Solver
	FinanceRate  float64 // FinanceRate discounts outflows in MIRR.
	ReinvestRate float64 // ReinvestRate compounds inflows in MIRR.
	// Workers limits the number of symbols analyzed concurrently, no limit if <= 0.
	Workers int
}

// DefaultAnalyzer returns an Analyzer with the default parameters.
func DefaultAnalyzer() *Analyzer {
	return &Analyzer{
		Solver:       DefaultSolver(),
		FinanceRate:  DefaultFinanceRate,
		ReinvestRate: DefaultReinvestRate,
	}
}

// Analyze values the ledger with quotes on a day and computes the portfolio
// and per-symbol metrics. Transactions after that day are ignored.
//
// Metric failures are reported in the metrics themselves. Analyze only fails
// when quotes are in another currency than the ledger or ctx is done.
func (a *Analyzer) Analyze(ctx context.Context, ledger *Ledger, quotes *Quotes, on Date) (*Analysis, error) {
	ledger = ledger.Until(on)
	v, err := NewValuation(ledger, quotes, on)
	if err != nil {
		return nil, err
	}
	flows := ProjectCashFlows(ledger, v)
	res := &Analysis{
		ID:       uuid.New(),
		On:       on,
		Currency: ledger.Currency(),
		Holdings: v.Holdings,
	}

	res.TotalValue = M(0, ledger.Currency()).Add(v.Total())
	if res.Values, err = ValueOverTime(ledger, quotes); err != nil {
		return nil, err
	}
	res.TotalInvestment, res.SellProceeds = amounts(ledger)
	if ratio, ok := res.TotalValue.Add(res.SellProceeds).Ratio(res.TotalInvestment); ok {
		res.TotalReturn = Metric{Value: ratio - 1, Valid: true}
	}

	res.XIRR = metricOf(a.Solver.XIRR(flows))
	res.MIRR = optional(MIRR(flows, a.FinanceRate, a.ReinvestRate))
	twr, err := TimeWeightedReturn(ledger, quotes.Until(on), on)
	res.TWR = metricOf(twr.Return, err)
	res.Periods = twr.Periods
	res.HoldingDays = optional(HoldingPeriod(ledger, v))
	res.AnnualizedReturn = annualized(res.TotalReturn, res.HoldingDays)

	symbols := ledger.Symbols()
	res.Symbols = make([]SymbolAnalysis, len(symbols))
	g, ctx := errgroup.WithContext(ctx)
	if a.Workers > 0 {
		g.SetLimit(a.Workers)
	}
	for i, symbol := range symbols {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res.Symbols[i] = a.analyzeSymbol(ledger.Symbol(symbol), v.Only(symbol), quotes, symbol)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("analysis interrupted: %w", err)
	}
	return res, nil
}

func (a *Analyzer) analyzeSymbol(ledger *Ledger, v Valuation, quotes *Quotes, symbol string) SymbolAnalysis {
	zero := M(0, ledger.Currency())
	res := SymbolAnalysis{Symbol: symbol, Price: zero, Value: zero, AverageCost: zero}
	if h, ok := v.Holding(symbol); ok {
		res.Quantity, res.Price, res.Value = h.Quantity, h.Price, h.Value
	} else if price, ok := quotes.Price(symbol); ok {
		res.Price = price
	}

	var bought Quantity
	var cost Money
	for _, tx := range ledger.transactions {
		if tx.Type == Buy {
			bought = bought.Add(tx.Quantity)
			cost = cost.Add(tx.Amount())
		}
	}
	if bought.IsPositive() {
		res.AverageCost = cost.Div(bought)
		if _, quoted := quotes.Price(symbol); quoted {
			if ratio, ok := res.Price.Ratio(res.AverageCost); ok {
				res.TotalReturn = Metric{Value: ratio - 1, Valid: true}
			}
		}
	}

	res.XIRR = metricOf(a.Solver.XIRR(ProjectCashFlows(ledger, v)))
	res.HoldingDays = optional(HoldingPeriod(ledger, v))
	res.AnnualizedReturn = annualized(res.TotalReturn, res.HoldingDays)
	return res
}

// amounts returns the total amount of purchases and of sales.
func amounts(ledger *Ledger) (invested, proceeds Money) {
	invested, proceeds = M(0, ledger.currency), M(0, ledger.currency)
	for _, tx := range ledger.transactions {
		switch tx.Type {
		case Buy:
			invested = invested.Add(tx.Amount())
		case Sell:
			proceeds = proceeds.Add(tx.Amount())
		}
	}
	return invested, proceeds
}

func annualized(total, days Metric) Metric {
	if !total.Valid || !days.Valid {
		return Metric{}
	}
	return optional(Annualize(total.Value, days.Value))
}
