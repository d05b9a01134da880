package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/etnz/returns/server"
	"github.com/google/subcommands"
)

// serveCmd holds the flags for the 'serve' subcommand.
type serveCmd struct {
	addr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the return engine as a JSON HTTP API" }
func (*serveCmd) Usage() string {
	return `pret serve [-addr <host:port>]

  Serves the return engine over HTTP until interrupted:

    GET  /api/system/health
    POST /api/analysis  {"on", "transactions", "quotes"}
    POST /api/xirr      {"cashFlows"}
    POST /api/mirr      {"cashFlows", "financeRate", "reinvestRate"}
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", cfg.Server.Addr, "Address to listen on")
}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conf := *cfg
	conf.Server.Addr = c.addr
	logger := conf.Logger()
	srv := server.New(conf.Analyzer(), logger)
	if err := server.ListenAndServe(ctx, &conf, srv.Router(conf.Server.CORSOrigins), logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error serving: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
