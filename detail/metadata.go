package detail

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"

	"github.com/signadot/objbrowse/inspect"
)

// Info is the metadata panel of a value. Fields that could not be
// determined are empty and the reason is recorded in Errors.
type Info struct {
	Path      string
	Type      string
	Kind      string
	Package   string
	ID        string
	Size      int64
	Ancestors []string
	Doc       string
	File      string
	Line      int

	Errors map[string]string `yaml:",omitempty"`
}

// Metadata collects the metadata of v. Each field is determined on its own:
// a failure leaves that field empty.
func Metadata(v reflect.Value, opts *Options) *Info {
	info := &Info{Path: opts.name()}
	get := func(field string, fn func() error) {
		defer func() {
			if r := recover(); r != nil {
				info.fail(field, fmt.Errorf("panic: %v", r))
			}
		}()
		if err := fn(); err != nil {
			info.fail(field, err)
		}
	}
	get("type", func() error {
		info.Type = inspect.TypeName(v)
		info.Kind = inspect.Classify(v).String()
		return nil
	})
	get("package", func() error {
		info.Package = packageOf(v)
		return nil
	})
	get("id", func() error {
		info.ID = Identity(v)
		return nil
	})
	get("size", func() error {
		info.Size = Size(v)
		return nil
	})
	get("ancestors", func() error {
		for _, t := range AncestorTypes(valueType(v)) {
			info.Ancestors = append(info.Ancestors, t.String())
		}
		return nil
	})
	get("source", func() error {
		l := opts.loader()
		if fv := inspect.Indirect(v); fv.IsValid() && fv.Kind() == reflect.Func && !fv.IsNil() && (opts == nil || opts.Method == "") {
			fn := runtime.FuncForPC(fv.Pointer())
			if fn == nil {
				return fmt.Errorf("no function information")
			}
			info.File, info.Line = fn.FileLine(fn.Entry())
			return nil
		}
		t := valueType(v)
		if opts != nil && opts.Receiver != nil && opts.Method != "" {
			_, loc, err := l.methodSource(opts.Receiver, opts.Method)
			if err != nil {
				return err
			}
			info.File, info.Line = loc.File, loc.Line
			return nil
		}
		pkg, decl, err := l.declOf(t)
		if err != nil {
			return err
		}
		info.Doc = decl.Doc()
		pos := pkg.Fset.Position(decl.Spec.Pos())
		info.File, info.Line = pos.Filename, pos.Line
		return nil
	})
	get("doc", func() error {
		l := opts.loader()
		if opts != nil && opts.Receiver != nil && opts.Method != "" {
			_, loc, err := l.methodSource(opts.Receiver, opts.Method)
			if err != nil {
				return err
			}
			info.Doc = loc.Doc
			return nil
		}
		fv := inspect.Indirect(v)
		if !fv.IsValid() || fv.Kind() != reflect.Func || fv.IsNil() {
			return nil
		}
		_, loc, err := l.funcSource(fv)
		if err != nil {
			return err
		}
		info.Doc = loc.Doc
		return nil
	})
	return info
}

func (i *Info) fail(field string, err error) {
	if i.Errors == nil {
		i.Errors = map[string]string{}
	}
	i.Errors[field] = err.Error()
}

// Location returns "file:line", or "" when the file is unknown.
func (i *Info) Location() string {
	if i.File == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d", i.File, i.Line)
}

// Identity returns the address of v for reference kinds and addressable
// values, "-" otherwise.
func Identity(v reflect.Value) string {
	v = inspect.Unwrap(v)
	if !v.IsValid() {
		return "-"
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		if v.IsNil() {
			return "0x0"
		}
		return fmt.Sprintf("%#x", v.Pointer())
	}
	if v.CanAddr() {
		return fmt.Sprintf("%#x", v.UnsafeAddr())
	}
	return "-"
}

// Size returns the shallow size of v in bytes: the size of its type plus
// the backing storage of a string, slice or map held directly by v.
func Size(v reflect.Value) int64 {
	v = inspect.Unwrap(v)
	if !v.IsValid() {
		return 0
	}
	n := int64(v.Type().Size())
	switch v.Kind() {
	case reflect.String:
		n += int64(v.Len())
	case reflect.Slice:
		n += int64(v.Cap()) * int64(v.Type().Elem().Size())
	case reflect.Map:
		n += int64(v.Len()) * int64(v.Type().Key().Size()+v.Type().Elem().Size())
	}
	return n
}

// AncestorTypes returns the named type behind t followed by the types it
// embeds, breadth first, which is the order methods are promoted in.
func AncestorTypes(t reflect.Type) []reflect.Type {
	t = namedType(t)
	if t == nil {
		return nil
	}
	var res []reflect.Type
	seen := map[reflect.Type]bool{}
	queue := []reflect.Type{t}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if seen[cur] {
			continue
		}
		seen[cur] = true
		res = append(res, cur)
		if cur.Kind() != reflect.Struct {
			continue
		}
		for i := 0; i < cur.NumField(); i++ {
			f := cur.Field(i)
			if f.Anonymous {
				if et := namedType(f.Type); et != nil {
					queue = append(queue, et)
				}
			}
		}
	}
	return res
}

// packageOf returns the import path defining v's type, or for functions
// the package of the function.
func packageOf(v reflect.Value) string {
	if fv := inspect.Indirect(v); fv.IsValid() && fv.Kind() == reflect.Func && !fv.IsNil() {
		if fn := runtime.FuncForPC(fv.Pointer()); fn != nil {
			return funcPackage(fn.Name())
		}
	}
	t := namedType(valueType(v))
	if t == nil {
		return ""
	}
	return t.PkgPath()
}

// funcPackage extracts the import path from a runtime function name such
// as "github.com/a/b.(*T).M" or "main.main.func1".
func funcPackage(name string) string {
	slash := strings.LastIndexByte(name, '/')
	dot := strings.IndexByte(name[slash+1:], '.')
	if dot == -1 {
		return name
	}
	return name[:slash+1+dot]
}

// valueType is the dynamic type of v, nil for absent values.
func valueType(v reflect.Value) reflect.Type {
	v = inspect.Unwrap(v)
	if !v.IsValid() {
		return nil
	}
	return v.Type()
}

// namedType strips pointers from t.
func namedType(t reflect.Type) reflect.Type {
	for i := 0; i < 64 && t != nil && t.Kind() == reflect.Pointer; i++ {
		t = t.Elem()
	}
	return t
}
