package debug

import (
	"fmt"
	"os"
	"strconv"

	"github.com/goccy/go-yaml"
)

type debug struct {
	Walk     bool
	Resolve  bool
	Settings bool
}

var d *debug

func init() {
	d = &debug{}
	d.Walk = boolEnv("OBROWSE_DEBUG_WALK")
	d.Resolve = boolEnv("OBROWSE_DEBUG_RESOLVE")
	d.Settings = boolEnv("OBROWSE_DEBUG_SETTINGS")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

// Walk reports whether items skipped while building trees are logged.
func Walk() bool {
	return d.Walk
}

// Resolve reports whether every path resolution is logged.
func Resolve() bool {
	return d.Resolve
}

// Settings reports whether settings loads and applies are logged in full.
func Settings() bool {
	return d.Settings
}

// SetWalk overrides Walk. objbrowse -debug turns it on.
func SetWalk(v bool) {
	d.Walk = v
}

// Any reports whether any switch is on.
func Any() bool {
	return d.Walk || d.Resolve || d.Settings
}

// LogAny writes v to stderr as yaml.
func LogAny(v any) {
	y, err := yaml.Marshal(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", v)
		return
	}
	os.Stderr.Write(y)
}
