package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/returns/agent"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

// AssistCmd is the subcommand for the AI assistant.
type AssistCmd struct {
	scope
	search bool
}

// Name returns the name of the command.
func (*AssistCmd) Name() string { return "assist" }

// Synopsis returns a short-one line synopsis of the command.
func (*AssistCmd) Synopsis() string {
	return "start an interactive session with the AI assistant"
}

// Usage returns a long-form usage string.
func (*AssistCmd) Usage() string {
	return `pret assist [-s <symbol>] [-search] [<question>...]

  Starts an interactive session with the AI assistant, about the ledger and
  quotes. The Gemini API key is read from GEMINI_API_KEY.
`
}

// SetFlags sets the flags for the command.
func (c *AssistCmd) SetFlags(f *flag.FlagSet) {
	c.scope.SetFlags(f)
	f.BoolVar(&c.search, "search", false, "Add an expert grounded in Google Search for market news")
}

// Execute executes the command.
func (c *AssistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	_, ledger, quotes, status := c.load()
	if status != subcommands.ExitSuccess {
		return status
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	model := cfg.Assist.Model
	experts := []*agent.Expert{
		agent.NewAnalyst(model, &agent.Portfolio{Ledger: ledger, Quotes: quotes, Analyzer: cfg.Analyzer()}),
	}
	if c.search {
		experts = append(experts, agent.NewTrader(model))
	}
	a := agent.New(stdout, os.Stdin, model, experts...)
	if !*raw {
		a.Render = renderMarkdown
	}

	if err := a.Run(ctx, client, strings.Join(f.Args(), " ")); err != nil {
		fmt.Fprintln(os.Stderr, "Agent failed:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
