package returns

import "errors"

// Metric errors. They mean a metric cannot be computed from the inputs and
// are never retried by the engine.
var (
	// ErrInsufficientData indicates a cash-flow series with fewer than two
	// flows, or with flows of a single sign, for which no rate exists.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrInsufficientPeriods indicates fewer than two valued dates for a
	// time-weighted return. It matches ErrInsufficientData with errors.Is.
	ErrInsufficientPeriods = &periodsError{}

	// ErrXIRRDivergence indicates that no seed made the XIRR solver converge.
	ErrXIRRDivergence = errors.New("xirr: no solution found")
)

// Input errors.
var (
	// ErrInvalidTransaction indicates a transaction that is not economically meaningful.
	ErrInvalidTransaction = errors.New("invalid transaction")

	// ErrCurrencyMismatch indicates amounts in different currencies were combined.
	ErrCurrencyMismatch = errors.New("currency mismatch")
)

type periodsError struct{}

func (*periodsError) Error() string        { return "insufficient periods" }
func (*periodsError) Is(target error) bool { return target == ErrInsufficientData }
