// Package cmd implements the CLI application to analyze the returns of a
// portfolio.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/returns"
	"github.com/etnz/returns/config"
	"github.com/google/subcommands"
)

// group is a named list of subcommands.
type group struct {
	name     string
	commands []subcommands.Command
}

// groups lists the subcommands by group, in help order.
func groups() []group {
	return []group{
		{"reports", []subcommands.Command{&holdingsCmd{}, &analyzeCmd{}, &benchmarkCmd{}}},
		{"metrics", []subcommands.Command{&xirrCmd{}, &mirrCmd{}, &twrCmd{}, &holdingTimeCmd{}}},
		{"ledger", []subcommands.Command{&importCSVCmd{}, &removeCmd{}}},
		{"services", []subcommands.Command{&serveCmd{}, &AssistCmd{}}},
	}
}

// Names returns the names of all subcommands and their flags.
func Names() map[string][]string {
	names := make(map[string][]string)
	for _, g := range groups() {
		for _, c := range g.commands {
			fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
			c.SetFlags(fs)
			var flags []string
			fs.VisitAll(func(f *flag.Flag) { flags = append(flags, f.Name) })
			names[c.Name()] = flags
		}
	}
	return names
}

// Register the subcommands and the global flags, defaulting to the
// configuration.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander, conf *config.Config) {
	cfg = conf
	flag.StringVar(ledgerFile, "ledger", conf.LedgerFile, "Path to the ledger file (JSONL, or CSV with a .csv extension)")
	flag.StringVar(quotesFile, "quotes", conf.Quotes.File, "Path to the quotes JSON file")
	flag.StringVar(currency, "currency", conf.Currency, "Currency of prices recorded without one")
	flag.BoolVar(raw, "raw", false, "Print reports as raw markdown")
	c.ImportantFlag("ledger")
	c.ImportantFlag("quotes")

	for _, g := range groups() {
		for _, cmd := range g.commands {
			c.Register(cmd, g.name)
		}
	}
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.
var (
	cfg        *config.Config
	ledgerFile = new(string)
	quotesFile = new(string)
	currency   = new(string)
	raw        = new(bool)

	stdout io.Writer = os.Stdout
)

// DecodeLedger decodes the ledger from the application's ledger file.
// If the file does not exist, it returns a new empty ledger.
func DecodeLedger() (*returns.Ledger, error) {
	f, err := os.Open(*ledgerFile)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("warning, ledger %q does not exist, using an empty ledger instead", *ledgerFile)
		return returns.NewLedger(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open ledger file %q: %w", *ledgerFile, err)
	}
	defer f.Close()

	var ledger *returns.Ledger
	if strings.EqualFold(filepath.Ext(*ledgerFile), ".csv") {
		ledger, err = returns.DecodeCSV(f, *currency)
	} else {
		ledger, err = returns.DecodeLedger(f)
	}
	if err != nil {
		return nil, fmt.Errorf("could not decode ledger file %q: %w", *ledgerFile, err)
	}
	return ledger, nil
}

// EncodeLedger writes the ledger into the application's ledger file.
func EncodeLedger(ledger *returns.Ledger) error {
	f, err := os.Create(*ledgerFile)
	if err != nil {
		return fmt.Errorf("could not create ledger file %q: %w", *ledgerFile, err)
	}
	if strings.EqualFold(filepath.Ext(*ledgerFile), ".csv") {
		err = returns.EncodeCSV(f, ledger)
	} else {
		err = returns.EncodeLedger(f, ledger)
	}
	if err != nil {
		f.Close()
		return fmt.Errorf("could not write ledger file %q: %w", *ledgerFile, err)
	}
	return f.Close()
}

// DecodeQuotes decodes the quotes from the application's quotes file.
// If the file does not exist, it returns empty quotes.
func DecodeQuotes() (*returns.Quotes, error) {
	f, err := os.Open(*quotesFile)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("warning, quotes %q do not exist, positions are worth nothing", *quotesFile)
		return returns.NewQuotes(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open quotes file %q: %w", *quotesFile, err)
	}
	defer f.Close()

	format := cfg.QuoteFormat()
	format.Currency = *currency
	q, err := returns.DecodeQuotes(f, format)
	if err != nil {
		return nil, fmt.Errorf("could not decode quotes file %q: %w", *quotesFile, err)
	}
	return q, nil
}

// printMarkdown prints a markdown report, rendered for the terminal unless
// -raw is set.
func printMarkdown(md string) {
	if *raw {
		fmt.Fprint(stdout, md)
		return
	}
	out, err := renderMarkdown(md)
	if err != nil {
		log.Printf("warning, could not render markdown: %v", err)
		out = md
	}
	fmt.Fprint(stdout, out)
}

func renderMarkdown(md string) (string, error) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		return "", err
	}
	return r.Render(md)
}

// scope holds the flags shared by the commands computing on the ledger.
type scope struct {
	date   string
	symbol string
}

func (s *scope) SetFlags(f *flag.FlagSet) {
	f.StringVar(&s.date, "d", returns.Today().String(), "Valuation date. Accepts YYYY-MM-DD and relative dates like -1d, -2w, -3m or -1y.")
	f.StringVar(&s.symbol, "s", "", "Restrict to a single symbol")
}

// load parses the scope and loads the ledger restricted to it, with the quotes.
func (s *scope) load() (on returns.Date, ledger *returns.Ledger, quotes *returns.Quotes, status subcommands.ExitStatus) {
	on, err := returns.ParseDate(s.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return on, nil, nil, subcommands.ExitUsageError
	}
	ledger, err = DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return on, nil, nil, subcommands.ExitFailure
	}
	quotes, err = DecodeQuotes()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading quotes: %v\n", err)
		return on, nil, nil, subcommands.ExitFailure
	}
	if s.symbol != "" {
		ledger = ledger.Symbol(s.symbol)
		if ledger.Len() == 0 {
			fmt.Fprintf(os.Stderr, "Error: no transaction on %q\n", s.symbol)
			return on, nil, nil, subcommands.ExitFailure
		}
	}
	if err := quotes.CheckCurrency(ledger.Currency()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: quotes do not match the ledger: %v\n", err)
		return on, nil, nil, subcommands.ExitFailure
	}
	return on, ledger.Until(on), quotes, subcommands.ExitSuccess
}

// valuation values the ledger on a day, reporting failures on stderr.
func valuation(ledger *returns.Ledger, quotes *returns.Quotes, on returns.Date) (returns.Valuation, subcommands.ExitStatus) {
	v, err := returns.NewValuation(ledger, quotes, on)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error valuing the ledger: %v\n", err)
		return v, subcommands.ExitFailure
	}
	return v, subcommands.ExitSuccess
}
