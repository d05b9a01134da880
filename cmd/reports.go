package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/returns"
	"github.com/etnz/returns/renderer"
	"github.com/etnz/returns/xlsx"
	"github.com/google/subcommands"
)

// holdingsCmd holds the flags for the 'holdings' subcommand.
type holdingsCmd struct {
	scope
}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "display the positions held on a date" }
func (*holdingsCmd) Usage() string {
	return `pret holdings [-d <date>] [-s <symbol>]

  Displays the positions held on a date, priced with the current quotes.
  Positions without a quote are worth nothing.
`
}

func (c *holdingsCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, ledger, quotes, status := c.load()
	if status != subcommands.ExitSuccess {
		return status
	}
	v, status := valuation(ledger, quotes, on)
	if status != subcommands.ExitSuccess {
		return status
	}
	printMarkdown(renderer.RenderHoldings(v))
	return subcommands.ExitSuccess
}

// analyzeCmd holds the flags for the 'analyze' subcommand.
type analyzeCmd struct {
	scope
	json bool
	xlsx string
}

func (*analyzeCmd) Name() string     { return "analyze" }
func (*analyzeCmd) Synopsis() string { return "compute every return metric of the portfolio" }
func (*analyzeCmd) Usage() string {
	return `pret analyze [-d <date>] [-s <symbol>] [-json] [-xlsx <file>]

  Computes the value, simple return, XIRR, MIRR, time-weighted return and
  average holding period of the portfolio, and the same figures for each
  symbol.

Usage Examples:
# Report on today's value.
$ pret analyze

# Export last year's analysis as a workbook.
$ pret analyze -d 2024-12-31 -xlsx 2024.xlsx
`
}

func (c *analyzeCmd) SetFlags(f *flag.FlagSet) {
	c.scope.SetFlags(f)
	f.BoolVar(&c.json, "json", false, "Print the analysis as JSON")
	f.StringVar(&c.xlsx, "xlsx", "", "Write the analysis to an Excel workbook")
}

func (c *analyzeCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, ledger, quotes, status := c.load()
	if status != subcommands.ExitSuccess {
		return status
	}

	a, err := cfg.Analyzer().Analyze(ctx, ledger, quotes, on)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error analyzing portfolio: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.xlsx != "" {
		if err := exportXLSX(c.xlsx, a); err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting analysis: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Fprintf(os.Stderr, "Analysis written to %s\n", c.xlsx)
		return subcommands.ExitSuccess
	}

	if c.json {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(a); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding analysis: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	printMarkdown(renderer.RenderAnalysis(a))
	return subcommands.ExitSuccess
}

func exportXLSX(name string, a *returns.Analysis) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := xlsx.Export(f, a); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// benchmarkCmd holds the flags for the 'benchmark' subcommand.
type benchmarkCmd struct {
	date  string
	years int
}

func (*benchmarkCmd) Name() string     { return "benchmark" }
func (*benchmarkCmd) Synopsis() string { return "display the yearly returns of a benchmark symbol" }
func (*benchmarkCmd) Usage() string {
	return `pret benchmark [-d <date>] [-y <years>] <symbol>

  Displays the total and annualized returns of a symbol over the last 1 to
  <years> years, from its close history in the quotes file.
`
}

func (c *benchmarkCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", returns.Today().String(), "End date of the periods")
	f.IntVar(&c.years, "y", cfg.Engine.BenchmarkYears, "Number of years")
}

func (c *benchmarkCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: benchmark takes exactly one symbol")
		return subcommands.ExitUsageError
	}
	symbol := f.Arg(0)
	on, err := returns.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	quotes, err := DecodeQuotes()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading quotes: %v\n", err)
		return subcommands.ExitFailure
	}

	current, ok := quotes.Price(symbol)
	if on.Before(returns.Today()) {
		// past periods end on the close of that day.
		current, ok = quotes.PriceAsOf(symbol, on)
	}
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: no price for %q on %s\n", symbol, on)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.RenderBenchmark(symbol, on, returns.BenchmarkReturns(quotes.History(symbol), current, on, c.years)))
	return subcommands.ExitSuccess
}
