package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/scott-cotton/cli"
	"github.com/signadot/objbrowse/repl"
)

func runRepl(cfg *ReplConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Repl.Parse(cc, args)
	if err != nil {
		cfg.Repl.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	b, err := cfg.browser(args)
	if err != nil {
		return err
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	return repl.New(b, cc.Out, cfg.colors(cc)).Run(ctx, cc.In)
}
