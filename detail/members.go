package detail

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/signadot/objbrowse/inspect"
)

// MemberPreviewLimit caps member previews.
const MemberPreviewLimit = 100

// Member is one row of the members panel.
type Member struct {
	Name      string
	Type      string
	Preview   string `yaml:",omitempty"`
	Signature string `yaml:",omitempty"`
}

// MemberSet groups the members of a value.
type MemberSet struct {
	Properties []Member
	Methods    []Member
	Special    []Member
}

// specialMethods are the methods the standard library calls on a value's
// behalf.
var specialMethods = map[string]bool{
	"String":        true,
	"GoString":      true,
	"Error":         true,
	"Format":        true,
	"MarshalText":   true,
	"UnmarshalText": true,
	"MarshalJSON":   true,
	"UnmarshalJSON": true,
}

// Members lists the members of v: data fields or attributes as properties,
// callables as methods, and blank fields together with the methods used by
// the fmt and encoding packages as special members. Unexported fields are
// included. Members never calls methods other than Attributer ones.
func Members(v reflect.Value) *MemberSet {
	ms := &MemberSet{}
	if a, ok := inspect.AttributerOf(v); ok {
		for _, name := range a.AttrNames() {
			ms.attr(name, func() (reflect.Value, error) {
				x, err := a.Attr(name)
				return reflect.ValueOf(x), err
			})
		}
		return ms
	}
	sv, recv := inspect.StructOf(v)
	if sv.IsValid() {
		t := sv.Type()
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if f.Name == "_" {
				ms.Special = append(ms.Special, Member{Name: f.Name, Type: f.Type.String()})
				continue
			}
			ms.attr(f.Name, func() (reflect.Value, error) {
				return sv.Field(i), nil
			})
		}
	}
	if !recv.IsValid() {
		return ms
	}
	rt := recv.Type()
	for i := 0; i < rt.NumMethod(); i++ {
		m := rt.Method(i)
		mem := Member{
			Name:      m.Name,
			Type:      methodType(m.Type).String(),
			Signature: Signature(methodType(m.Type)),
		}
		if specialMethods[m.Name] {
			ms.Special = append(ms.Special, mem)
		} else {
			ms.Methods = append(ms.Methods, mem)
		}
	}
	return ms
}

func (ms *MemberSet) attr(name string, get func() (reflect.Value, error)) {
	mem := Member{Name: name}
	v, err := func() (v reflect.Value, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		return get()
	}()
	if err != nil {
		mem.Preview = "<error: " + inspect.Truncate(err.Error(), MemberPreviewLimit) + ">"
		ms.Properties = append(ms.Properties, mem)
		return
	}
	mem.Type = inspect.TypeName(v)
	if inspect.Classify(v) == inspect.Callable {
		mem.Signature = Signature(inspect.Unwrap(v).Type())
		ms.Methods = append(ms.Methods, mem)
		return
	}
	mem.Preview = inspect.Truncate(inspect.Preview(v), MemberPreviewLimit)
	ms.Properties = append(ms.Properties, mem)
}

// methodType drops the receiver from the type of a method expression.
func methodType(t reflect.Type) reflect.Type {
	in := make([]reflect.Type, 0, t.NumIn())
	for i := 1; i < t.NumIn(); i++ {
		in = append(in, t.In(i))
	}
	out := make([]reflect.Type, 0, t.NumOut())
	for i := 0; i < t.NumOut(); i++ {
		out = append(out, t.Out(i))
	}
	return reflect.FuncOf(in, out, t.IsVariadic())
}

// Signature formats the parameters and results of a func type, for example
// "(context.Context, ...string) (int, error)".
func Signature(t reflect.Type) string {
	if t == nil || t.Kind() != reflect.Func {
		return ""
	}
	var sb strings.Builder
	sb.WriteByte('(')
	for i := 0; i < t.NumIn(); i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		if t.IsVariadic() && i == t.NumIn()-1 {
			sb.WriteString("..." + t.In(i).Elem().String())
			continue
		}
		sb.WriteString(t.In(i).String())
	}
	sb.WriteByte(')')
	switch t.NumOut() {
	case 0:
	case 1:
		sb.WriteString(" " + t.Out(0).String())
	default:
		sb.WriteString(" (")
		for i := 0; i < t.NumOut(); i++ {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(t.Out(i).String())
		}
		sb.WriteByte(')')
	}
	return sb.String()
}
