package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/returns"
	"github.com/google/subcommands"
)

// importCSVCmd holds the flags for the 'import-csv' subcommand.
type importCSVCmd struct{}

func (*importCSVCmd) Name() string     { return "import-csv" }
func (*importCSVCmd) Synopsis() string { return "append transactions from CSV files to the ledger" }
func (*importCSVCmd) Usage() string {
	return `pret import-csv <file.csv>...

  Appends the transactions of CSV files to the ledger. Files must have a
  header row with the columns Symbol, Date, Type, Quantity and Price, in any
  order. Other columns are ignored. Nothing is written if any row is invalid.
`
}

func (*importCSVCmd) SetFlags(_ *flag.FlagSet) {}

func (c *importCSVCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: import-csv needs at least one file")
		return subcommands.ExitUsageError
	}
	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	count := 0
	for _, name := range f.Args() {
		imported, err := decodeCSVFile(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error importing %q: %v\n", name, err)
			return subcommands.ExitFailure
		}
		var txs []returns.Transaction
		for _, tx := range imported.Transactions() {
			txs = append(txs, tx)
		}
		if err := ledger.Append(txs...); err != nil {
			fmt.Fprintf(os.Stderr, "Error importing %q: %v\n", name, err)
			return subcommands.ExitFailure
		}
		count += len(txs)
	}

	if err := EncodeLedger(ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Successfully imported %d transactions into %s\n", count, *ledgerFile)
	return subcommands.ExitSuccess
}

func decodeCSVFile(name string) (*returns.Ledger, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return returns.DecodeCSV(f, *currency)
}

// removeCmd holds the flags for the 'rm' subcommand.
type removeCmd struct {
	index int
}

func (*removeCmd) Name() string     { return "rm" }
func (*removeCmd) Synopsis() string { return "remove a transaction from the ledger" }
func (*removeCmd) Usage() string {
	return `pret rm -i <index>

  Removes the transaction at index (0 is the oldest) from the ledger.
`
}

func (c *removeCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.index, "i", -1, "Index of the transaction to remove, in chronological order")
}

func (c *removeCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.index < 0 || c.index >= ledger.Len() {
		fmt.Fprintf(os.Stderr, "Error: -i must be between 0 and %d\n", ledger.Len()-1)
		return subcommands.ExitUsageError
	}
	removed := ledger.At(c.index)
	if err := ledger.Remove(c.index); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := EncodeLedger(ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Removed %s\n", removed)
	return subcommands.ExitSuccess
}
