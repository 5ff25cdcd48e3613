// Package repl is a line oriented front end for a browser.Browser.
package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/mattn/go-shellwords"
	"github.com/signadot/objbrowse/browser"
	"github.com/signadot/objbrowse/render"
	"github.com/signadot/objbrowse/settings"
)

// ErrQuit is returned by Exec for the quit command.
var ErrQuit = errors.New("quit")

type Session struct {
	B      *browser.Browser
	Out    io.Writer
	Colors *render.Colors

	// Highlight turns on syntax highlighting of code.
	Highlight bool
	Prompt    string
}

func New(b *browser.Browser, out io.Writer, colors bool) *Session {
	return &Session{
		B:         b,
		Out:       out,
		Colors:    render.For(colors),
		Highlight: colors,
		Prompt:    "objbrowse> ",
	}
}

// Run reads commands from in until end of input, quit or cancellation of
// ctx. Lines have no length limit. Failing commands print their error and
// the session goes on.
func (s *Session) Run(ctx context.Context, in io.Reader) error {
	rd := bufio.NewReader(in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(s.Out, s.Prompt)
		line, err := rd.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(s.Out)
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		args, err := shellwords.Parse(strings.TrimRight(line, "\r\n"))
		if err != nil {
			fmt.Fprintf(s.Out, "error: %v\n", err)
			continue
		}
		if len(args) == 0 {
			continue
		}
		err = s.Exec(args)
		if errors.Is(err, ErrQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(s.Out, "error: %v\n", err)
		}
	}
}

type command struct {
	args string
	desc string
	min  int
	run  func(s *Session, args []string) error
}

var commands map[string]*command

func init() {
	commands = map[string]*command{
		"tree":     {desc: "show the tree", run: (*Session).tree},
		"select":   {args: "<path>", desc: "select the value at path", min: 1, run: (*Session).selectPath},
		"up":       {desc: "select the parent of the selection", run: (*Session).up},
		"status":   {desc: "show the status line", run: (*Session).status},
		"members":  {desc: "show the members of the selection", run: (*Session).members},
		"code":     {desc: "show the code view", run: (*Session).code},
		"info":     {desc: "show the metadata of the selection", run: (*Session).info},
		"filter":   {args: "[text]", desc: "filter tree labels, no text clears", run: (*Session).filter},
		"query":    {args: "[expr]", desc: "filter the tree by expression, no expr clears", run: (*Session).query},
		"refresh":  {desc: "rebuild the tree", run: (*Session).refresh},
		"load":     {args: "<file> [alias]", desc: "load a yaml, json or toml document as an anchor", min: 1, run: (*Session).load},
		"save":     {args: "[file]", desc: "save the code view", run: (*Session).save},
		"open":     {args: "<file>", desc: "load a file into the code view", min: 1, run: (*Session).open},
		"edit":     {desc: "open the selection in the editor", run: (*Session).edit},
		"settings": {args: "[reload|save]", desc: "show, reload or save settings", run: (*Session).settings},
		"set":      {args: "<key> <value>", desc: "change a setting", min: 2, run: (*Session).set},
		"export":   {args: "[file]", desc: "export the tree as yaml", run: (*Session).export},
		"help":     {desc: "list commands", run: (*Session).help},
		"quit":     {desc: "leave", run: func(*Session, []string) error { return ErrQuit }},
	}
}

// Exec runs one command line split into words.
func (s *Session) Exec(args []string) error {
	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("unknown command %q, try help", args[0])
	}
	if len(args)-1 < cmd.min {
		return fmt.Errorf("usage: %s %s", args[0], cmd.args)
	}
	return cmd.run(s, args[1:])
}

func (s *Session) tree([]string) error {
	return render.Tree(s.Out, s.B.Tree(), s.Colors, s.B.Selected())
}

func (s *Session) selectPath(args []string) error {
	if err := s.B.SelectString(strings.Join(args, " ")); err != nil {
		return err
	}
	return s.status(nil)
}

func (s *Session) up([]string) error {
	p := s.B.Selected()
	if p == nil || p.Parent() == nil {
		return errors.New("nothing above the selection")
	}
	if err := s.B.Select(p.Parent()); err != nil {
		return err
	}
	return s.status(nil)
}

func (s *Session) status([]string) error {
	_, err := fmt.Fprintln(s.Out, s.B.Status())
	return err
}

func (s *Session) members([]string) error {
	ms := s.B.Members()
	if ms == nil {
		return browser.ErrNoSelection
	}
	return render.Members(s.Out, ms, s.Colors)
}

func (s *Session) code([]string) error {
	return render.Code(s.Out, s.B.Code(), s.B.Settings.Appearance.Theme, s.Highlight)
}

func (s *Session) info([]string) error {
	info := s.B.Info()
	if info == nil {
		return browser.ErrNoSelection
	}
	return render.Metadata(s.Out, info, s.Colors)
}

func (s *Session) filter(args []string) error {
	s.B.Filter(strings.Join(args, " "))
	return s.tree(nil)
}

func (s *Session) query(args []string) error {
	if err := s.B.Query(strings.Join(args, " ")); err != nil {
		return err
	}
	return s.tree(nil)
}

func (s *Session) refresh([]string) error {
	s.B.Refresh()
	return s.tree(nil)
}

func (s *Session) load(args []string) error {
	alias := ""
	if len(args) > 1 {
		alias = args[1]
	}
	return s.B.Load(args[0], alias)
}

func (s *Session) save(args []string) error {
	path := ""
	if len(args) > 0 {
		path = args[0]
	}
	saved, err := s.B.SaveCode(path)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(s.Out, saved)
	return err
}

func (s *Session) open(args []string) error {
	f, err := s.B.LoadCode(args[0])
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(s.Out, "loaded %s: %d bytes, %d lines\n", f.Path, f.Size, f.Lines)
	return err
}

func (s *Session) edit([]string) error {
	file, err := s.B.EditCurrent()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(s.Out, "opened %s\n", file)
	return err
}

func (s *Session) settings(args []string) error {
	if len(args) > 0 {
		switch args[0] {
		case "reload":
			if err := s.B.ReloadSettings(); err != nil {
				return err
			}
		case "save":
			if err := s.B.SaveSettings(); err != nil {
				return err
			}
			_, err := fmt.Fprintf(s.Out, "saved %s\n", s.B.SettingsPath())
			return err
		default:
			return fmt.Errorf("usage: settings [reload|save]")
		}
	}
	for _, k := range settings.Keys() {
		v, err := s.B.Settings.Get(k)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.Out, "%s = %s\n", k, v)
	}
	return nil
}

func (s *Session) set(args []string) error {
	var err error
	if cerr := s.B.EditSettings(func(cp *settings.Settings) bool {
		err = cp.Set(args[0], strings.Join(args[1:], " "))
		return err == nil
	}); cerr != nil {
		return cerr
	}
	return err
}

func (s *Session) export(args []string) error {
	if len(args) == 0 {
		return s.B.ExportTree(s.Out)
	}
	f, err := os.Create(args[0])
	if err != nil {
		return err
	}
	if err := s.B.ExportTree(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (s *Session) help([]string) error {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c := commands[name]
		fmt.Fprintf(s.Out, "  %-24s %s\n", strings.TrimSpace(name+" "+c.args), c.desc)
	}
	return nil
}
