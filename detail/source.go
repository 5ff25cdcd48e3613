package detail

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"reflect"
	"runtime"
	"strings"

	"github.com/signadot/objbrowse/inspect"
	"github.com/signadot/objbrowse/opath"
	"golang.org/x/tools/go/packages"
)

// Options configure Source and Metadata.
type Options struct {
	// Name is shown as the object in headers, usually the node path.
	Name string

	// Receiver and Method identify a method value: reflection cannot tell
	// which method a bound method value belongs to.
	Receiver reflect.Type
	Method   string

	// DumpDepth bounds the value rendering used when no source is found.
	DumpDepth int

	// Loader defaults to a loader shared by the package.
	Loader *Loader
}

func (o *Options) loader() *Loader {
	if o == nil || o.Loader == nil {
		return defaultLoader
	}
	return o.Loader
}

func (o *Options) name() string {
	if o == nil || o.Name == "" {
		return "value"
	}
	return o.Name
}

// Location is where source text was found.
type Location struct {
	File string
	Line int

	// Doc is the doc comment of a function or method declaration.
	Doc string
}

// Source returns the source text defining v: a function's declaration, a
// method's declaration, or a named type's declaration with its methods.
// When no source can be found the result is a rendering of the value.
// Source does not fail.
func Source(v reflect.Value, opts *Options) string {
	text, _, err := FindSource(v, opts)
	var sb strings.Builder
	fmt.Fprintf(&sb, "// Object: %s\n", opts.name())
	fmt.Fprintf(&sb, "// Type: %s\n", inspect.TypeName(v))
	fmt.Fprintf(&sb, "// ID: %s\n", Identity(v))
	if err != nil {
		fmt.Fprintf(&sb, "// Could not retrieve source code: %v\n\n", err)
		sb.WriteString(Dump(v, opts))
		return sb.String()
	}
	sb.WriteString("\n")
	sb.WriteString(text)
	if !strings.HasSuffix(text, "\n") {
		sb.WriteString("\n")
	}
	return sb.String()
}

// ErrNoSource is returned by FindSource for values without a declaration
// of their own, such as unnamed types.
var ErrNoSource = errors.New("no source declaration")

// FindSource returns the declaration text of v and where it was found.
func FindSource(v reflect.Value, opts *Options) (text string, loc *Location, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, loc, err = "", nil, fmt.Errorf("panic: %v", r)
		}
	}()
	l := opts.loader()
	if opts != nil && opts.Receiver != nil && opts.Method != "" {
		return l.methodSource(opts.Receiver, opts.Method)
	}
	fv := inspect.Indirect(v)
	if fv.IsValid() && fv.Kind() == reflect.Func && !fv.IsNil() {
		return l.funcSource(fv)
	}
	t := valueType(v)
	if t == nil {
		return "", nil, ErrNoSource
	}
	return l.typeSource(t)
}

func (l *Loader) typeSource(t reflect.Type) (string, *Location, error) {
	pkg, decl, err := l.declOf(t)
	if err != nil {
		return "", nil, err
	}
	text, err := l.Text(pkg.Fset, declDoc(decl), declNode(decl))
	if err != nil {
		return "", nil, err
	}
	parts := []string{text}
	for _, m := range decl.Methods {
		mt, err := l.Text(pkg.Fset, m.Doc, m)
		if err != nil {
			continue
		}
		parts = append(parts, mt)
	}
	pos := pkg.Fset.Position(decl.Spec.Pos())
	return strings.Join(parts, "\n\n"), &Location{File: pos.Filename, Line: pos.Line}, nil
}

// declNode is the whole declaration for single type declarations and the
// spec alone inside grouped ones.
func declNode(d *TypeDecl) ast.Node {
	if len(d.Gen.Specs) == 1 {
		return d.Gen
	}
	return d.Spec
}

func declDoc(d *TypeDecl) *ast.CommentGroup {
	if len(d.Gen.Specs) == 1 {
		return d.Gen.Doc
	}
	return d.Spec.Doc
}

func (l *Loader) methodSource(recv reflect.Type, name string) (string, *Location, error) {
	var firstErr error
	for _, t := range AncestorTypes(recv) {
		pkg, decl, err := l.declOf(t)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		fn, err := l.FindMethod(pkg, decl.Spec.Name.Name, name)
		if err != nil {
			continue
		}
		text, err := l.Text(pkg.Fset, fn.Doc, fn)
		if err != nil {
			return "", nil, err
		}
		pos := pkg.Fset.Position(fn.Pos())
		return text, &Location{File: pos.Filename, Line: pos.Line, Doc: fn.Doc.Text()}, nil
	}
	if firstErr != nil {
		return "", nil, firstErr
	}
	return "", nil, fmt.Errorf("method %s not found on %s", name, recv)
}

func (l *Loader) funcSource(fv reflect.Value) (string, *Location, error) {
	fn := runtime.FuncForPC(fv.Pointer())
	if fn == nil {
		return "", nil, fmt.Errorf("no function information for %s", fv.Type())
	}
	if strings.HasSuffix(fn.Name(), "methodValueCall") {
		return "", nil, fmt.Errorf("method value of unknown receiver")
	}
	file, line := fn.FileLine(fn.Entry())
	src, err := l.readFile(file)
	if err != nil {
		return "", nil, err
	}
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, file, src, parser.ParseComments)
	if err != nil {
		return "", nil, err
	}
	var (
		best ast.Node
		doc  *ast.CommentGroup
	)
	ast.Inspect(f, func(n ast.Node) bool {
		if n == nil {
			return false
		}
		start, end := fset.Position(n.Pos()).Line, fset.Position(n.End()).Line
		if line < start || line > end {
			return false
		}
		switch x := n.(type) {
		case *ast.FuncDecl:
			best, doc = x, x.Doc
		case *ast.FuncLit:
			best, doc = x, nil
		}
		return true
	})
	if best == nil {
		return "", nil, fmt.Errorf("%s: no function at line %d", file, line)
	}
	text, err := l.Text(fset, doc, best)
	if err != nil {
		return "", nil, err
	}
	return text, &Location{File: file, Line: fset.Position(best.Pos()).Line, Doc: doc.Text()}, nil
}

// declOf locates the package and declaration of the named type behind t.
func (l *Loader) declOf(t reflect.Type) (*packages.Package, *TypeDecl, error) {
	t = namedType(t)
	if t == nil || t.Name() == "" || t.PkgPath() == "" {
		return nil, nil, ErrNoSource
	}
	pattern := t.PkgPath()
	if pattern == "main" || strings.HasSuffix(pattern, "_test") {
		file, ok := fileOfType(t)
		if !ok {
			return nil, nil, fmt.Errorf("cannot locate package %s", pattern)
		}
		pattern = "file=" + file
	}
	pkg, err := l.LoadPackage(pattern)
	if err != nil {
		return nil, nil, err
	}
	decl, err := l.FindTypeDecl(pkg, baseTypeName(t.Name()))
	if err != nil {
		return nil, nil, err
	}
	return pkg, decl, nil
}

// fileOfType finds a file of t's package through the code of its methods.
func fileOfType(t reflect.Type) (string, bool) {
	for _, mt := range []reflect.Type{reflect.PointerTo(t), t} {
		for i := 0; i < mt.NumMethod(); i++ {
			fn := runtime.FuncForPC(mt.Method(i).Func.Pointer())
			if fn == nil {
				continue
			}
			file, _ := fn.FileLine(fn.Entry())
			if file != "" && !strings.HasPrefix(file, "<") {
				return file, true
			}
		}
	}
	return "", false
}

// Dump renders v as an indented tree, without calling its methods.
func Dump(v reflect.Value, opts *Options) string {
	depth := 2
	if opts != nil && opts.DumpDepth > 0 {
		depth = opts.DumpDepth
	}
	anchor, err := opath.Parse(opts.name())
	if err != nil {
		anchor = opath.New("value")
	}
	root := inspect.BuildValue(v, anchor, depth, inspect.WithMethods(false))
	var sb strings.Builder
	root.Walk(func(n *inspect.Node, d int) bool {
		sb.WriteString(strings.Repeat("  ", d))
		sb.WriteString(n.Label)
		sb.WriteByte('\n')
		return true
	})
	return sb.String()
}
