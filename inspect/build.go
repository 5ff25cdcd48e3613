package inspect

import (
	"fmt"
	"log/slog"
	"reflect"
	"strconv"
	"strings"

	"github.com/signadot/objbrowse/debug"
	"github.com/signadot/objbrowse/opath"
)

// BuildOption configures Build.
type BuildOption func(*buildConfig)

type buildConfig struct {
	cycles  bool
	methods bool
	log     *slog.Logger
}

// DetectCycles makes Build stop at values already being visited higher up
// the same branch, marking the repeated node with Cycle. Without it, cycles
// are only cut by the depth bound.
func DetectCycles(v bool) BuildOption {
	return func(c *buildConfig) { c.cycles = v }
}

// WithMethods controls whether methods are listed as Callable attributes.
// The default is true.
func WithMethods(v bool) BuildOption {
	return func(c *buildConfig) { c.methods = v }
}

// WithLogger sets the logger for skipped items (see debug.Walk).
func WithLogger(l *slog.Logger) BuildOption {
	return func(c *buildConfig) { c.log = l }
}

type ident struct {
	t reflect.Type
	p uintptr
	n int
}

type builder struct {
	buildConfig
	maxDepth int
	seen     map[ident]bool
}

// Build walks root to maxDepth levels and returns the node for root, whose
// path is anchor. Children at each level are enumerated in order: map
// entries by sorted key, sequence elements by position, struct fields in
// declaration order followed by methods by name. Failures on single items
// skip the item; Build never panics.
func Build(root any, anchor *opath.Path, maxDepth int, opts ...BuildOption) *Node {
	return BuildValue(reflect.ValueOf(root), anchor, maxDepth, opts...)
}

// BuildValue is like Build for a reflect.Value, such as one returned by
// Resolve.
func BuildValue(v reflect.Value, anchor *opath.Path, maxDepth int, opts ...BuildOption) *Node {
	b := &builder{
		buildConfig: buildConfig{methods: true, log: slog.Default()},
		maxDepth:    maxDepth,
		seen:        map[ident]bool{},
	}
	for _, opt := range opts {
		opt(&b.buildConfig)
	}
	n := &Node{
		Name: anchor.Last().SegmentString(),
		Path: anchor.Clone(),
	}
	func() {
		defer b.recoverItem(n.Path)
		b.describe(n, "", v)
	}()
	b.fill(n, v, 0)
	return n
}

func (b *builder) describe(n *Node, prefix string, v reflect.Value) {
	n.Kind = Classify(v)
	n.TypeName = TypeName(v)
	if HasPreview(v) {
		n.Preview = Truncate(Preview(v), PreviewLimit)
	}
	var sb strings.Builder
	sb.WriteString(prefix)
	sb.WriteString(n.Name)
	sb.WriteString(": ")
	sb.WriteString(n.TypeName)
	if n.Preview != "" {
		sb.WriteString(" = ")
		sb.WriteString(n.Preview)
	}
	n.Label = sb.String()
}

func (b *builder) fill(n *Node, v reflect.Value, depth int) {
	if depth >= b.maxDepth || !n.Kind.Container() {
		return
	}
	defer b.recoverItem(n.Path)
	if b.cycles {
		if id, ok := identity(v); ok {
			if b.seen[id] {
				n.Cycle = true
				n.Label += " ↺"
				return
			}
			b.seen[id] = true
			defer delete(b.seen, id)
		}
	}
	switch n.Kind {
	case Mapping:
		b.mapping(n, indirect(v), depth)
	case Sequence:
		b.sequence(n, indirect(v), depth)
	case Attributes:
		b.attributes(n, v, depth)
	}
}

func (b *builder) mapping(n *Node, mv reflect.Value, depth int) {
	// keys of an interface typed map can collide on their literal form
	// (int 3 and int64 3); later ones are addressed by entry.
	seen := map[string]bool{}
	for i, e := range sortedEntries(mv) {
		step := keyStep(e.key, i)
		if s := step.SegmentString(); seen[s] {
			step = opath.Entry(i)
		} else {
			seen[s] = true
		}
		b.child(n, "🔑 ", keyName(e.key), step, e.val, depth)
	}
}

func (b *builder) sequence(n *Node, sv reflect.Value, depth int) {
	for i := 0; i < sv.Len(); i++ {
		b.child(n, "", "["+strconv.Itoa(i)+"]", opath.Index(i), sv.Index(i), depth)
	}
}

func (b *builder) attributes(n *Node, v reflect.Value, depth int) {
	if a, ok := asAttributer(v); ok {
		for _, name := range a.AttrNames() {
			if depth > 0 && strings.HasPrefix(name, "_") {
				continue
			}
			b.attr(n, name, func() (reflect.Value, error) {
				x, err := a.Attr(name)
				if err != nil {
					return reflect.Value{}, err
				}
				return reflect.ValueOf(x), nil
			}, depth)
		}
		return
	}
	sv, recv := structOf(v)
	if sv.IsValid() {
		t := sv.Type()
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if f.Name == "_" || (depth > 0 && !f.IsExported()) {
				continue
			}
			b.attr(n, f.Name, func() (reflect.Value, error) {
				return sv.Field(i), nil
			}, depth)
		}
	}
	if !b.methods || !recv.IsValid() {
		return
	}
	mt := recv.Type()
	for i := 0; i < mt.NumMethod(); i++ {
		b.attr(n, mt.Method(i).Name, func() (reflect.Value, error) {
			return recv.Method(i), nil
		}, depth)
	}
}

func (b *builder) attr(parent *Node, name string, get func() (reflect.Value, error), depth int) {
	step := opath.Field(name)
	defer b.recoverItem(parent.Path.Append(step))
	v, err := get()
	if err != nil {
		b.skip(parent.Path.Append(step), err)
		return
	}
	b.child(parent, Classify(v).Icon()+" ", name, step, v, depth)
}

func (b *builder) child(parent *Node, prefix, name string, step *opath.Path, v reflect.Value, depth int) {
	c := &Node{Name: name, Path: parent.Path.Append(step)}
	defer b.recoverItem(c.Path)
	b.describe(c, prefix, v)
	parent.Children = append(parent.Children, c)
	b.fill(c, v, depth+1)
}

func (b *builder) recoverItem(p *opath.Path) {
	if r := recover(); r != nil {
		b.skip(p, fmt.Errorf("panic: %v", r))
	}
}

func (b *builder) skip(p *opath.Path, err error) {
	if debug.Walk() {
		b.log.Warn("skipped item", "path", p.String(), "error", err)
	}
}

// identity returns a key for reference values, used for cycle detection.
func identity(v reflect.Value) (ident, bool) {
	v = unwrap(v)
	if !v.IsValid() {
		return ident{}, false
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Map:
		if v.IsNil() {
			return ident{}, false
		}
		return ident{t: v.Type(), p: v.Pointer()}, true
	case reflect.Slice:
		if v.IsNil() {
			return ident{}, false
		}
		return ident{t: v.Type(), p: v.Pointer(), n: v.Len()}, true
	}
	return ident{}, false
}
