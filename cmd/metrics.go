package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/returns"
	"github.com/etnz/returns/renderer"
	"github.com/google/subcommands"
)

// xirrCmd holds the flags for the 'xirr' subcommand.
type xirrCmd struct {
	scope
	verbose bool
}

func (*xirrCmd) Name() string     { return "xirr" }
func (*xirrCmd) Synopsis() string { return "compute the extended internal rate of return" }
func (*xirrCmd) Usage() string {
	return `pret xirr [-d <date>] [-s <symbol>] [-v]

  Computes the annual rate at which the net present value of the cash flows
  is zero. Open positions are sold virtually on the date at their current
  quote.
`
}

func (c *xirrCmd) SetFlags(f *flag.FlagSet) {
	c.scope.SetFlags(f)
	f.BoolVar(&c.verbose, "v", false, "Print the cash flows")
}

func (c *xirrCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, ledger, quotes, status := c.load()
	if status != subcommands.ExitSuccess {
		return status
	}
	v, status := valuation(ledger, quotes, on)
	if status != subcommands.ExitSuccess {
		return status
	}
	flows := returns.ProjectCashFlows(ledger, v)
	if c.verbose {
		printFlows(flows)
	}

	rate, err := cfg.Analyzer().Solver.XIRR(flows)
	switch {
	case errors.Is(err, returns.ErrInsufficientData):
		fmt.Fprintln(stdout, "XIRR: N/A (insufficient data)")
	case err != nil:
		fmt.Fprintf(os.Stderr, "Error computing XIRR: %v\n", err)
		return subcommands.ExitFailure
	default:
		fmt.Fprintf(stdout, "XIRR: %s\n", returns.Rate(rate))
	}
	return subcommands.ExitSuccess
}

func printFlows(flows returns.CashFlows) {
	for _, f := range flows.Normalize() {
		fmt.Fprintf(stdout, "%s %12s\n", f.Date, f.Amount.SignedString())
	}
}

// mirrCmd holds the flags for the 'mirr' subcommand.
type mirrCmd struct {
	scope
	finance, reinvest float64
}

func (*mirrCmd) Name() string     { return "mirr" }
func (*mirrCmd) Synopsis() string { return "compute the modified internal rate of return" }
func (*mirrCmd) Usage() string {
	return `pret mirr [-d <date>] [-s <symbol>] [-finance <rate>] [-reinvest <rate>]

  Computes the modified internal rate of return: purchases are discounted at
  the finance rate, sales are compounded at the reinvestment rate.
`
}

func (c *mirrCmd) SetFlags(f *flag.FlagSet) {
	c.scope.SetFlags(f)
	f.Float64Var(&c.finance, "finance", cfg.Engine.FinanceRate, "Finance rate, 0.1 for 10%")
	f.Float64Var(&c.reinvest, "reinvest", cfg.Engine.ReinvestRate, "Reinvestment rate, 0.1 for 10%")
}

func (c *mirrCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, ledger, quotes, status := c.load()
	if status != subcommands.ExitSuccess {
		return status
	}
	v, status := valuation(ledger, quotes, on)
	if status != subcommands.ExitSuccess {
		return status
	}
	flows := returns.ProjectCashFlows(ledger, v)
	rate, ok := returns.MIRR(flows, c.finance, c.reinvest)
	if !ok {
		fmt.Fprintln(stdout, "MIRR: N/A")
		return subcommands.ExitSuccess
	}
	fmt.Fprintf(stdout, "MIRR: %s\n", returns.Rate(rate))
	return subcommands.ExitSuccess
}

// twrCmd holds the flags for the 'twr' subcommand.
type twrCmd struct {
	scope
}

func (*twrCmd) Name() string     { return "twr" }
func (*twrCmd) Synopsis() string { return "compute the time-weighted return" }
func (*twrCmd) Usage() string {
	return `pret twr [-d <date>] [-s <symbol>]

  Computes the time-weighted return, chaining the returns of the periods
  between transaction dates. Positions are valued with the close history of
  the quotes file, and with the current quotes on the date.
`
}

func (c *twrCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, ledger, quotes, status := c.load()
	if status != subcommands.ExitSuccess {
		return status
	}
	twr, err := returns.TimeWeightedReturn(ledger, quotes.Until(on), on)
	if errors.Is(err, returns.ErrInsufficientData) {
		fmt.Fprintln(stdout, "TWR: N/A (insufficient periods)")
		return subcommands.ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing TWR: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.RenderTWR(twr, on))
	return subcommands.ExitSuccess
}

// holdingTimeCmd holds the flags for the 'holding-time' subcommand.
type holdingTimeCmd struct {
	scope
}

func (*holdingTimeCmd) Name() string { return "holding-time" }
func (*holdingTimeCmd) Synopsis() string {
	return "compute the average holding period, weighted by cash"
}
func (*holdingTimeCmd) Usage() string {
	return `pret holding-time [-d <date>] [-s <symbol>]

  Computes the average number of days money stayed invested. Sales are
  matched with purchases first in, first out, and open positions are sold
  virtually on the date.
`
}

func (c *holdingTimeCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, ledger, quotes, status := c.load()
	if status != subcommands.ExitSuccess {
		return status
	}
	v, status := valuation(ledger, quotes, on)
	if status != subcommands.ExitSuccess {
		return status
	}
	days, ok := returns.HoldingPeriod(ledger, v)
	if !ok {
		fmt.Fprintln(stdout, "Average holding time: N/A")
		return subcommands.ExitSuccess
	}
	fmt.Fprintf(stdout, "Average holding time: %.1f days\n", days)
	return subcommands.ExitSuccess
}
