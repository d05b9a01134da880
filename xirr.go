package returns

import (
	"fmt"
	"math"
)

// daysPerYear is the actual/365 day count used by every rate of the package.
const daysPerYear = 365.0

// Default Solver parameters.
const (
	DefaultTolerance     = 1e-5
	DefaultMaxIterations = 1000
)

// DefaultSeeds are the initial guesses tried in order by the XIRR solver.
var DefaultSeeds = []float64{0.1, 0.0, 0.2, -0.1, 0.5}

// maxHalvings bounds the damping of a Newton step landing on a rate <= -100%.
const maxHalvings = 60

// Solver finds the annualized rate r such that the net present value
//
//	NPV(r) = Σ amountᵢ / (1+r)^(daysᵢ/365)
//
// of a cash-flow series is zero, using Newton-Raphson iterations.
//
// The zero Solver uses the default parameters. A Solver is stateless and
// safe for concurrent use.
type Solver struct {
	Tolerance     float64   // Tolerance on |NPV| for convergence.
	MaxIterations int       // MaxIterations per seed.
	Seeds         []float64 // Seeds are tried in order until one converges.
}

// DefaultSolver returns a Solver with the default parameters.
func DefaultSolver() Solver {
	return Solver{
		Tolerance:     DefaultTolerance,
		MaxIterations: DefaultMaxIterations,
		Seeds:         DefaultSeeds,
	}
}

func (s Solver) withDefaults() Solver {
	if s.Tolerance <= 0 {
		s.Tolerance = DefaultTolerance
	}
	if s.MaxIterations <= 0 {
		s.MaxIterations = DefaultMaxIterations
	}
	if len(s.Seeds) == 0 {
		s.Seeds = DefaultSeeds
	}
	return s
}

// XIRR returns the money-weighted annualized return of flows using the
// default solver.
func XIRR(flows CashFlows) (float64, error) {
	return DefaultSolver().XIRR(flows)
}

// XIRR returns the money-weighted annualized return of flows.
//
// Flows are sorted and same-day flows summed first. It fails with
// ErrInsufficientData if fewer than two flows remain or if they are all of
// the same sign, with ErrCurrencyMismatch if flows are in different
// currencies, and with ErrXIRRDivergence if no seed converges.
func (s Solver) XIRR(flows CashFlows) (float64, error) {
	s = s.withDefaults()
	if _, err := flows.Currency(); err != nil {
		return 0, err
	}
	flows = flows.Normalize()
	if len(flows) < 2 || !flows.mixedSigns() {
		return 0, fmt.Errorf("%w: xirr needs at least two flows of opposite signs", ErrInsufficientData)
	}
	years, amounts := flows.series()
	for _, seed := range s.Seeds {
		if rate, ok := s.solve(years, amounts, seed); ok {
			return rate, nil
		}
	}
	return 0, fmt.Errorf("%w after trying seeds %v", ErrXIRRDivergence, s.Seeds)
}

// Solve runs a single Newton-Raphson attempt from seed. It reports false if
// the iterations did not converge or flows are in different currencies.
func (s Solver) Solve(flows CashFlows, seed float64) (float64, bool) {
	s = s.withDefaults()
	if _, err := flows.Currency(); err != nil {
		return 0, false
	}
	years, amounts := flows.Normalize().series()
	return s.solve(years, amounts, seed)
}

func (s Solver) solve(years, amounts []float64, seed float64) (float64, bool) {
	rate := seed
	for range s.MaxIterations {
		value := npv(rate, years, amounts)
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return 0, false
		}
		if math.Abs(value) <= s.Tolerance {
			return rate, true
		}
		slope := dnpv(rate, years, amounts)
		if slope == 0 || math.IsNaN(slope) || math.IsInf(slope, 0) {
			return 0, false
		}
		next := rate - value/slope
		// NPV is +Inf beyond -100%, come back toward the last valid rate.
		for i := 0; next <= -1 && i < maxHalvings; i++ {
			next = (rate + next) / 2
		}
		if next <= -1 || math.IsNaN(next) {
			return 0, false
		}
		rate = next
	}
	if value := npv(rate, years, amounts); math.Abs(value) <= s.Tolerance {
		return rate, true
	}
	return 0, false
}

// npv is the net present value of the series at rate. It is +Inf for rates
// at or below -100% where discount factors are not defined.
func npv(rate float64, years, amounts []float64) float64 {
	if rate <= -1 {
		return math.Inf(1)
	}
	var sum float64
	for i, a := range amounts {
		sum += a / math.Pow(1+rate, years[i])
	}
	return sum
}

// dnpv is the derivative of npv with respect to rate.
func dnpv(rate float64, years, amounts []float64) float64 {
	var sum float64
	for i, a := range amounts {
		sum -= years[i] * a / math.Pow(1+rate, years[i]+1)
	}
	return sum
}
