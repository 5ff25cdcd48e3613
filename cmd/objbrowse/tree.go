package main

import (
	"github.com/scott-cotton/cli"
	"github.com/signadot/objbrowse/render"
)

func tree(cfg *TreeConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Tree.Parse(cc, args)
	if err != nil {
		cfg.Tree.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	b, err := cfg.browser(args)
	if err != nil {
		return err
	}
	b.Filter(cfg.Filter)
	if err := b.Query(cfg.Query); err != nil {
		return err
	}
	if cfg.Yaml {
		return b.ExportTree(cc.Out)
	}
	return render.Tree(cc.Out, b.Tree(), render.For(cfg.colors(cc)), nil)
}
