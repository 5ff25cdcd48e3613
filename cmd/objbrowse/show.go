package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
	"github.com/signadot/objbrowse/render"
)

func show(cfg *ShowConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Show.Parse(cc, args)
	if err != nil {
		cfg.Show.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: show requires one argument, an object path", cli.ErrUsage)
	}
	b, err := cfg.browser(args[1:])
	if err != nil {
		return err
	}
	if err := b.SelectString(args[0]); err != nil {
		return err
	}
	enabled := cfg.colors(cc)
	theme := b.Settings.Appearance.Theme
	if cfg.Code {
		return render.Code(cc.Out, b.Code(), theme, enabled)
	}
	c := render.For(enabled)
	fmt.Fprintln(cc.Out, b.Status())
	fmt.Fprintln(cc.Out)
	if err := render.Members(cc.Out, b.Members(), c); err != nil {
		return err
	}
	fmt.Fprintln(cc.Out)
	if err := render.Metadata(cc.Out, b.Info(), c); err != nil {
		return err
	}
	fmt.Fprintln(cc.Out)
	return render.Code(cc.Out, b.Code(), theme, enabled)
}
