package main

import (
	"github.com/fatih/color"
	"github.com/scott-cotton/cli"
	"github.com/signadot/objbrowse/browser"
	"github.com/signadot/objbrowse/render"
)

type MainConfig struct {
	Settings string `cli:"name=settings desc='settings file (default in the user config dir)'"`
	Depth    int    `cli:"name=depth desc='max tree depth, overrides browser.max_depth'"`
	Color    bool   `cli:"name=color desc='output with color'"`
	Cycles   bool   `cli:"name=cycles desc='mark values already seen on the way down'"`
	Gops     bool   `cli:"name=gops desc='start a gops agent'"`
	Debug    bool   `cli:"name=debug desc='log skipped items and loaded files'"`

	Main *cli.Command
}

// colors reports whether output goes out in color. -color wins when given,
// otherwise terminals get colors.
func (cfg *MainConfig) colors(cc *cli.Context) bool {
	var explicit *bool
	for _, opt := range cfg.Main.Opts {
		if opt.Name != "color" {
			continue
		}
		if opt.Value != nil {
			explicit = &cfg.Color
		}
		break
	}
	res := render.Enabled(cc.Out, explicit)
	if res {
		color.NoColor = false
	}
	return res
}

// browser creates a Browser with the data files loaded as anchors.
func (cfg *MainConfig) browser(files []string) (*browser.Browser, error) {
	b := browser.New(
		browser.WithLogger(theLog),
		browser.WithSettingsPath(cfg.Settings),
		browser.WithDepth(cfg.Depth),
		browser.WithCycles(cfg.Cycles),
	)
	for _, file := range files {
		if err := b.Load(file, ""); err != nil {
			return nil, err
		}
		theLog.Debug("loaded", "file", file, "anchors", b.Registry.Len())
	}
	return b, nil
}

type TreeConfig struct {
	*MainConfig
	Filter string `cli:"name=f desc='filter labels by text'"`
	Query  string `cli:"name=q desc='filter nodes by expression'"`
	Yaml   bool   `cli:"name=y aliases=yaml desc='export the tree as yaml'"`

	Tree *cli.Command
}

type ShowConfig struct {
	*MainConfig
	Code bool `cli:"name=code desc='show only the code view'"`

	Show *cli.Command
}

type ReplConfig struct {
	*MainConfig

	Repl *cli.Command
}

type SettingsConfig struct {
	*MainConfig

	SettingsCmd *cli.Command
}
