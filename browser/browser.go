// Package browser holds the root controller of the object browser. A
// Browser owns the settings, the registry of anchors, the current tree, the
// selection and the detail panels of the selection. Every user action is a
// method on it. A Browser is not safe for concurrent use.
package browser

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/signadot/objbrowse/detail"
	"github.com/signadot/objbrowse/editor"
	"github.com/signadot/objbrowse/inspect"
	"github.com/signadot/objbrowse/opath"
	"github.com/signadot/objbrowse/registry"
	"github.com/signadot/objbrowse/settings"
)

// SelfAnchor is the anchor under which a Browser registers itself.
const SelfAnchor = "self"

type Browser struct {
	Settings *settings.Settings
	Registry *registry.Registry

	settingsPath string
	depth        int
	cycles       bool
	log          *slog.Logger
	loader       *detail.Loader
	launch       func(template, filename string) error

	roots []*inspect.Node
	view  []*inspect.Node
	text  string
	query string

	selected *opath.Path
	value    reflect.Value
	members  *detail.MemberSet
	info     *detail.Info
	code     string
	warned   map[string]bool
}

type Option func(*Browser)

// WithLogger sets the logger for warnings; the default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(b *Browser) { b.log = l }
}

// WithSettingsPath sets the settings document used by New, ReloadSettings
// and SaveSettings. The default is settings.DefaultPath().
func WithSettingsPath(path string) Option {
	return func(b *Browser) { b.settingsPath = path }
}

// WithDepth overrides browser.max_depth from the settings when n > 0.
func WithDepth(n int) Option {
	return func(b *Browser) { b.depth = n }
}

// WithCycles turns on cycle detection in tree building.
func WithCycles(v bool) Option {
	return func(b *Browser) { b.cycles = v }
}

// WithLoader sets the package loader used for source lookups.
func WithLoader(l *detail.Loader) Option {
	return func(b *Browser) { b.loader = l }
}

// WithLauncher replaces editor.Launch for opening files.
func WithLauncher(f func(template, filename string) error) Option {
	return func(b *Browser) { b.launch = f }
}

// New creates a Browser, loads its settings and registers the Browser
// itself as SelfAnchor. A settings document that cannot be used is logged
// and replaced by the defaults.
func New(opts ...Option) *Browser {
	b := &Browser{
		Registry: registry.New(),
		log:      slog.Default(),
		launch:   editor.Launch,
		warned:   map[string]bool{},
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.settingsPath == "" {
		p, err := settings.DefaultPath()
		if err != nil {
			b.log.Warn("no settings location", "error", err)
		}
		b.settingsPath = p
	}
	b.Settings = b.loadSettings()
	_ = b.Registry.Add(SelfAnchor, b)
	b.Refresh()
	return b
}

func (b *Browser) loadSettings() *settings.Settings {
	if b.settingsPath == "" {
		return settings.Default()
	}
	s, err := settings.Load(b.settingsPath)
	if err != nil {
		b.log.Warn("settings", "error", err)
	}
	return s
}

// SettingsPath returns the location of the settings document.
func (b *Browser) SettingsPath() string {
	return b.settingsPath
}

// Depth returns the max depth trees are built to.
func (b *Browser) Depth() int {
	if b.depth > 0 {
		return b.depth
	}
	return b.Settings.Browser.MaxDepth
}

// Register adds v as an anchor and refreshes the tree.
func (b *Browser) Register(name string, v any) error {
	if err := b.Registry.Add(name, v); err != nil {
		return err
	}
	b.Refresh()
	return nil
}

// Refresh rebuilds the tree of every anchor from the current state of the
// values, reapplies the filter and updates the panels of the selection.
func (b *Browser) Refresh() {
	opts := []inspect.BuildOption{
		inspect.WithLogger(b.log),
		inspect.DetectCycles(b.cycles),
	}
	b.roots = make([]*inspect.Node, 0, b.Registry.Len())
	for _, name := range b.Registry.Names() {
		v, _ := b.Registry.Lookup(name)
		b.roots = append(b.roots, inspect.Build(v, opath.New(name), b.Depth(), opts...))
	}
	if err := b.applyFilter(); err != nil {
		b.log.Warn("query", "query", b.query, "error", err)
		b.query = ""
		b.view = inspect.Filter(b.roots, b.text)
	}
	if b.selected != nil {
		_ = b.Select(b.selected)
	}
}

func (b *Browser) applyFilter() error {
	view := inspect.Filter(b.roots, b.text)
	if b.query != "" {
		var err error
		view, err = inspect.Query(view, b.query)
		if err != nil {
			return err
		}
	}
	b.view = view
	return nil
}

// Tree returns the tree as shown: the anchors' trees pruned by the filter
// text and query.
func (b *Browser) Tree() []*inspect.Node {
	return b.view
}

// Roots returns the unfiltered trees.
func (b *Browser) Roots() []*inspect.Node {
	return b.roots
}

// Filter sets the case-insensitive label filter. Empty text clears it.
func (b *Browser) Filter(text string) {
	b.text = text
	_ = b.applyFilter()
}

// Query sets the query expression (see inspect.Query). An invalid query
// is rejected and the previous one kept.
func (b *Browser) Query(q string) error {
	if q != "" {
		if _, err := inspect.CompileQuery(q); err != nil {
			return err
		}
	}
	b.query = q
	return b.applyFilter()
}

// Select makes p the selection and fills the detail panels from the
// current value at p. When p no longer resolves the panels are cleared,
// the path is logged once and the *inspect.ResolutionError is returned.
func (b *Browser) Select(p *opath.Path) error {
	b.selected = p
	b.clearPanels()
	v, err := inspect.Resolve(b.Registry, p)
	if err != nil {
		if key := p.String(); !b.warned[key] {
			b.warned[key] = true
			b.log.Warn("stale path", "path", key, "error", err)
		}
		return err
	}
	opts := b.detailOptions(p)
	b.value = v
	b.members = detail.Members(v)
	b.info = detail.Metadata(v, opts)
	b.code = detail.Source(v, opts)
	return nil
}

// SelectString parses s as a path and selects it.
func (b *Browser) SelectString(s string) error {
	p, err := opath.Parse(s)
	if err != nil {
		return err
	}
	return b.Select(p)
}

func (b *Browser) clearPanels() {
	b.value = reflect.Value{}
	b.members = nil
	b.info = nil
	b.code = ""
}

// detailOptions names the method behind p when p ends in a method of its
// parent, which the method value alone cannot tell.
func (b *Browser) detailOptions(p *opath.Path) *detail.Options {
	opts := &detail.Options{Name: p.String(), Loader: b.loader}
	last, parent := p.Last(), p.Parent()
	if last.StepKind() != opath.AttrStep || parent == nil {
		return opts
	}
	pv, err := inspect.Resolve(b.Registry, parent)
	if err != nil {
		return opts
	}
	if _, ok := inspect.AttributerOf(pv); ok {
		return opts
	}
	sv, recv := inspect.StructOf(pv)
	if sv.IsValid() {
		if _, ok := sv.Type().FieldByName(*last.Field); ok {
			return opts
		}
	}
	if recv.IsValid() && recv.MethodByName(*last.Field).IsValid() {
		opts.Receiver = recv.Type()
		opts.Method = *last.Field
	}
	return opts
}

// Selected returns the selected path, nil when there is none.
func (b *Browser) Selected() *opath.Path {
	return b.selected
}

// SelectedNode returns the tree node of the selection, nil when the
// selection is not in the tree.
func (b *Browser) SelectedNode() *inspect.Node {
	if b.selected == nil {
		return nil
	}
	return inspect.Find(b.roots, b.selected)
}

// Value returns the resolved value of the selection, invalid when there is
// none.
func (b *Browser) Value() reflect.Value {
	return b.value
}

// Members returns the members panel, nil without a resolved selection.
func (b *Browser) Members() *detail.MemberSet {
	return b.members
}

// Info returns the metadata panel, nil without a resolved selection.
func (b *Browser) Info() *detail.Info {
	return b.info
}

// Code returns the text of the code view.
func (b *Browser) Code() string {
	return b.code
}

// SetCode replaces the text of the code view.
func (b *Browser) SetCode(text string) {
	b.code = text
}

// Status returns the status line: "path (type) | file:line", or "Ready"
// without a selection.
func (b *Browser) Status() string {
	if b.selected == nil {
		return "Ready"
	}
	if b.info == nil {
		return fmt.Sprintf("%s (stale)", b.selected)
	}
	res := fmt.Sprintf("%s (%s)", b.selected, b.info.Type)
	if b.info.File != "" {
		res += " | " + b.info.File
		if b.info.Line > 0 {
			res += fmt.Sprintf(":%d", b.info.Line)
		}
	}
	return res
}

// ErrNoSelection is returned by actions that need a selected value.
var ErrNoSelection = errors.New("no selection")
