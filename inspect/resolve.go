package inspect

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"reflect"

	"github.com/signadot/objbrowse/debug"
	"github.com/signadot/objbrowse/opath"
)

// Anchors looks up the root values paths start from.
type Anchors interface {
	Lookup(name string) (any, bool)
}

// AnchorMap is an Anchors backed by a plain map.
type AnchorMap map[string]any

func (m AnchorMap) Lookup(name string) (any, bool) {
	v, ok := m[name]
	return v, ok
}

// ErrNoInterface is returned by ResolveAny for values that reflection can
// read but not hand out, such as unexported struct fields.
var ErrNoInterface = errors.New("value cannot be used as interface")

// Resolve replays p on the current state of the graph and returns the value
// it leads to. The anchor is looked up in anchors; each following step is
// applied after looking through pointers and interfaces.
//
// Attribute steps use the Attributer namespace for values that have one,
// otherwise a struct field (promoted fields included) and then a method.
// Index steps index sequences or look up integer map keys. Key steps look up
// map keys converted to the map's key type. Entry steps pick the n-th entry
// in the order Build lists them.
//
// Resolve reads fields and map entries only; it calls no methods except
// Attributer.Attr. Every failure, including a panic during access, is
// returned as a *ResolutionError.
func Resolve(anchors Anchors, p *opath.Path) (v reflect.Value, err error) {
	r := &resolver{path: p}
	defer func() {
		if rec := recover(); rec != nil {
			v = reflect.Value{}
			err = r.fail("panic: %v", rec)
		}
		if debug.Resolve() {
			if err != nil {
				slog.Info("resolve", "path", p.String(), "error", err)
			} else {
				slog.Info("resolve", "path", p.String(), "type", TypeName(v))
			}
		}
	}()
	if p == nil {
		return reflect.Value{}, r.fail("empty path")
	}
	root, ok := anchors.Lookup(p.Anchor())
	if !ok {
		return reflect.Value{}, r.fail("unknown anchor %q", p.Anchor())
	}
	v = reflect.ValueOf(root)
	for i, seg := range p.Steps() {
		r.step = i + 1
		v, err = r.apply(v, seg)
		if err != nil {
			return reflect.Value{}, err
		}
	}
	return v, nil
}

// ResolveAny is Resolve returning the value as an interface. Absent values
// resolve to nil.
func ResolveAny(anchors Anchors, p *opath.Path) (any, error) {
	v, err := Resolve(anchors, p)
	if err != nil {
		return nil, err
	}
	if !v.IsValid() {
		return nil, nil
	}
	if !v.CanInterface() {
		return nil, fmt.Errorf("%s: %w", p, ErrNoInterface)
	}
	return v.Interface(), nil
}

type resolver struct {
	path *opath.Path
	step int
}

func (r *resolver) fail(format string, args ...any) *ResolutionError {
	return &ResolutionError{
		Path:   r.path,
		Step:   r.step,
		Reason: fmt.Sprintf(format, args...),
	}
}

func (r *resolver) apply(v reflect.Value, seg *opath.Path) (reflect.Value, error) {
	switch seg.StepKind() {
	case opath.AttrStep:
		return r.attr(v, *seg.Field)
	case opath.IndexStep:
		iv := indirect(v)
		if !iv.IsValid() {
			return reflect.Value{}, r.fail("nil value has no elements")
		}
		switch iv.Kind() {
		case reflect.Slice, reflect.Array:
			i := *seg.Index
			if i < 0 || i >= iv.Len() {
				return reflect.Value{}, r.fail("index %d out of range [0:%d]", i, iv.Len())
			}
			return iv.Index(i), nil
		case reflect.Map:
			return r.mapLookup(iv, seg)
		}
		return reflect.Value{}, r.fail("%s is not indexable", iv.Type())
	case opath.KeyStep:
		iv := indirect(v)
		if !iv.IsValid() || iv.Kind() != reflect.Map {
			return reflect.Value{}, r.fail("%s is not a mapping", TypeName(v))
		}
		return r.mapLookup(iv, seg)
	case opath.EntryStep:
		iv := indirect(v)
		if !iv.IsValid() || iv.Kind() != reflect.Map {
			return reflect.Value{}, r.fail("%s is not a mapping", TypeName(v))
		}
		n := *seg.Entry
		es := sortedEntries(iv)
		if n < 0 || n >= len(es) {
			return reflect.Value{}, r.fail("entry %d out of range [0:%d]", n, len(es))
		}
		return es[n].val, nil
	}
	return reflect.Value{}, r.fail("unsupported step %s", seg.SegmentString())
}

func (r *resolver) attr(v reflect.Value, name string) (reflect.Value, error) {
	if isNil(v) {
		return reflect.Value{}, r.fail("nil value has no attribute %q", name)
	}
	if a, ok := asAttributer(v); ok {
		x, err := a.Attr(name)
		if err != nil {
			res := r.fail("attribute %q: %v", name, err)
			res.Err = err
			return reflect.Value{}, res
		}
		return reflect.ValueOf(x), nil
	}
	sv, recv := structOf(v)
	if sv.IsValid() {
		if f, ok := sv.Type().FieldByName(name); ok {
			fv, err := sv.FieldByIndexErr(f.Index)
			if err != nil {
				res := r.fail("field %q: %v", name, err)
				res.Err = err
				return reflect.Value{}, res
			}
			return fv, nil
		}
	}
	if recv.IsValid() {
		if m := recv.MethodByName(name); m.IsValid() {
			return m, nil
		}
	}
	return reflect.Value{}, r.fail("%s has no attribute %q", TypeName(v), name)
}

func (r *resolver) mapLookup(mv reflect.Value, seg *opath.Path) (reflect.Value, error) {
	kt := mv.Type().Key()
	if kt.Kind() == reflect.Interface {
		// interface keys have no single conversion target; match the
		// segment Build would have produced for each entry.
		for i, e := range sortedEntries(mv) {
			if keyStep(e.key, i).Equal(seg) {
				return e.val, nil
			}
		}
		return reflect.Value{}, r.fail("no key %s", seg.SegmentString())
	}
	k, ok := convertKey(kt, seg)
	if !ok {
		return reflect.Value{}, r.fail("key %s does not fit %s", seg.SegmentString(), kt)
	}
	res := mv.MapIndex(k)
	if !res.IsValid() {
		return reflect.Value{}, r.fail("no key %s", seg.SegmentString())
	}
	return res, nil
}

// convertKey converts an index or key segment to a value of type kt,
// reporting false when the segment's value does not fit.
func convertKey(kt reflect.Type, seg *opath.Path) (reflect.Value, bool) {
	k := reflect.New(kt).Elem()
	var (
		isNum bool
		f     float64
	)
	switch {
	case seg.Index != nil:
		isNum, f = true, float64(*seg.Index)
	case seg.Key != nil:
		if x, ok := seg.Key.(float64); ok {
			isNum, f = true, x
		}
	}
	switch kt.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		var x int64
		switch {
		case seg.Index != nil:
			x = int64(*seg.Index)
		case isNum && f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64:
			x = int64(f)
		default:
			return reflect.Value{}, false
		}
		if k.OverflowInt(x) {
			return reflect.Value{}, false
		}
		k.SetInt(x)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		var x uint64
		switch {
		case seg.Index != nil && *seg.Index >= 0:
			x = uint64(*seg.Index)
		case isNum && f == math.Trunc(f) && f >= 0 && f < math.MaxUint64:
			x = uint64(f)
		default:
			return reflect.Value{}, false
		}
		if k.OverflowUint(x) {
			return reflect.Value{}, false
		}
		k.SetUint(x)
	case reflect.Float32, reflect.Float64:
		if !isNum || k.OverflowFloat(f) {
			return reflect.Value{}, false
		}
		k.SetFloat(f)
	case reflect.String:
		s, ok := seg.Key.(string)
		if !ok {
			return reflect.Value{}, false
		}
		k.SetString(s)
	case reflect.Bool:
		b, ok := seg.Key.(bool)
		if !ok {
			return reflect.Value{}, false
		}
		k.SetBool(b)
	default:
		return reflect.Value{}, false
	}
	return k, true
}
