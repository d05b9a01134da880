// Command pret analyzes the returns of a portfolio from a ledger of
// purchases and sales and a quotes file.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/returns/cmd"
	"github.com/etnz/returns/config"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	name := path.Base(os.Args[0])
	commander := subcommands.NewCommander(flag.CommandLine, name)
	cmd.Register(commander, config.MustLoad())

	completion(name).Complete(name)

	flag.Parse()

	// Unknown subcommands are looked up as pret-<subcommand> extensions.
	if sub := flag.Arg(0); sub != "" && !registered(commander, sub) {
		if found, code := cmd.RunExtension(sub, flag.Args()[1:]); found {
			os.Exit(code)
		}
	}
	os.Exit(int(commander.Execute(context.Background())))
}

// completion describes the command line for shell completion. Install it
// with COMP_INSTALL=1 pret.
func completion(name string) *complete.Command {
	predictors := map[string]complete.Predictor{
		"d":      predict.Something,
		"s":      predict.Something,
		"xlsx":   predict.Files("*.xlsx"),
		"addr":   predict.Something,
		"i":      predict.Something,
		"y":      predict.Something,
		"json":   predict.Nothing,
		"v":      predict.Nothing,
		"search": predict.Nothing,
	}
	c := &complete.Command{
		Sub: make(map[string]*complete.Command),
		Flags: map[string]complete.Predictor{
			"ledger":   predict.Files("*.jsonl"),
			"quotes":   predict.Files("*.json"),
			"currency": predict.Set{"USD", "EUR", "GBP", "JPY", "CHF"},
			"raw":      predict.Nothing,
		},
	}
	for sub, flags := range cmd.Names() {
		s := &complete.Command{Flags: make(map[string]complete.Predictor)}
		for _, f := range flags {
			p, ok := predictors[f]
			if !ok {
				p = predict.Something
			}
			s.Flags[f] = p
		}
		if sub == "import-csv" {
			s.Args = predict.Files("*.csv")
		}
		c.Sub[sub] = s
	}
	return c
}

func registered(commander *subcommands.Commander, name string) bool {
	found := false
	commander.VisitCommands(func(_ *subcommands.CommandGroup, c subcommands.Command) {
		found = found || c.Name() == name
	})
	return found
}
