package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Main, "objbrowse").
		WithSynopsis("objbrowse [opts] command [opts]").
		WithDescription("objbrowse browses the structure of values and data documents.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return objbrowseMain(cfg, cc, args)
		}).
		WithSubs(
			TreeCommand(cfg),
			ShowCommand(cfg),
			ReplCommand(cfg),
			SettingsCommand(cfg))
}

func TreeCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &TreeConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Tree, "tree").
		WithAliases("t").
		WithSynopsis("tree [-f text] [-q expr] [-y] [files]").
		WithDescription("show the tree of the anchors and of the data files").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return tree(cfg, cc, args)
		})
}

func ShowCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ShowConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Show, "show").
		WithAliases("s").
		WithSynopsis("show [-code] <path> [files]").
		WithDescription("show the members, metadata and code of the value at path").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return show(cfg, cc, args)
		})
}

func ReplCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ReplConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Repl, "repl").
		WithAliases("r").
		WithSynopsis("repl [files]").
		WithDescription("browse interactively").
		WithRun(func(cc *cli.Context, args []string) error {
			return runRepl(cfg, cc, args)
		})
}

func SettingsCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &SettingsConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.SettingsCmd, "settings").
		WithSynopsis("settings [get <key> | set <key> <value> | path]").
		WithDescription("show or change the settings file").
		WithRun(func(cc *cli.Context, args []string) error {
			return settingsMain(cfg, cc, args)
		})
}
