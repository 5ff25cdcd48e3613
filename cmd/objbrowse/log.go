package main

import (
	"log/slog"
	"os"

	"github.com/signadot/objbrowse/debug"
)

var (
	logLevel = new(slog.LevelVar)

	theLog = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			if a.Key == slog.LevelKey {
				if a.Value.String() == "INFO" {
					return slog.Attr{}
				}
			}
			return a
		},
	}))
)

func init() {
	if debug.Any() {
		logLevel.Set(slog.LevelDebug)
	}
}

// setDebug turns on the walk log and debug level logging.
func setDebug() {
	debug.SetWalk(true)
	logLevel.Set(slog.LevelDebug)
}
