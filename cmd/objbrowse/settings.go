package main

import (
	"errors"
	"fmt"

	"github.com/scott-cotton/cli"
	"github.com/signadot/objbrowse/settings"
)

func settingsMain(cfg *SettingsConfig, cc *cli.Context, args []string) error {
	args, err := cfg.SettingsCmd.Parse(cc, args)
	if err != nil {
		cfg.SettingsCmd.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	path := cfg.Settings
	if path == "" {
		path, err = settings.DefaultPath()
		if err != nil {
			return err
		}
	}
	s, err := settings.Load(path)
	var w *settings.Warning
	if errors.As(err, &w) {
		theLog.Warn("settings", "error", w)
	}
	if len(args) == 0 {
		for _, k := range settings.Keys() {
			v, err := s.Get(k)
			if err != nil {
				return err
			}
			fmt.Fprintf(cc.Out, "%s = %s\n", k, v)
		}
		return nil
	}
	switch args[0] {
	case "path":
		fmt.Fprintln(cc.Out, path)
		return nil
	case "get":
		if len(args) != 2 {
			return fmt.Errorf("%w: settings get <key>", cli.ErrUsage)
		}
		v, err := s.Get(args[1])
		if err != nil {
			return err
		}
		fmt.Fprintln(cc.Out, v)
		return nil
	case "set":
		if len(args) != 3 {
			return fmt.Errorf("%w: settings set <key> <value>", cli.ErrUsage)
		}
		if err := s.Set(args[1], args[2]); err != nil {
			return err
		}
		return settings.Save(path, s)
	default:
		return fmt.Errorf("%w: unknown settings command %q", cli.ErrUsage, args[0])
	}
}
