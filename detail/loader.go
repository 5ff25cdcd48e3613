package detail

import (
	"fmt"
	"go/ast"
	"go/token"
	"os"
	"strings"
	"sync"

	"golang.org/x/tools/go/packages"
)

// Loader loads and caches Go packages and the content of their files.
type Loader struct {
	mu    sync.RWMutex
	cache map[string]*packages.Package
	files map[string][]byte

	// Dir is the directory package patterns are resolved in; empty means
	// the current directory.
	Dir string
}

func NewLoader() *Loader {
	return &Loader{
		cache: make(map[string]*packages.Package),
		files: make(map[string][]byte),
	}
}

var defaultLoader = NewLoader()

// LoadPackage loads a package by import path or by a file it contains,
// given as "file=<path>".
func (l *Loader) LoadPackage(pattern string) (*packages.Package, error) {
	l.mu.RLock()
	if pkg, ok := l.cache[pattern]; ok {
		l.mu.RUnlock()
		return pkg, nil
	}
	l.mu.RUnlock()

	l.mu.Lock()
	defer l.mu.Unlock()
	if pkg, ok := l.cache[pattern]; ok {
		return pkg, nil
	}
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedSyntax | packages.NeedTypes,
		Dir:  l.Dir,
	}
	pkgs, err := packages.Load(cfg, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to load package %q: %w", pattern, err)
	}
	if len(pkgs) == 0 || len(pkgs[0].Syntax) == 0 {
		return nil, fmt.Errorf("package %q not found", pattern)
	}
	pkg := pkgs[0]
	l.cache[pattern] = pkg
	return pkg, nil
}

// TypeDecl is the declaration of a named type and its methods.
type TypeDecl struct {
	Gen     *ast.GenDecl
	Spec    *ast.TypeSpec
	Methods []*ast.FuncDecl
}

// Doc returns the doc comment of the type.
func (d *TypeDecl) Doc() string {
	if d.Spec.Doc != nil {
		return d.Spec.Doc.Text()
	}
	if d.Gen.Doc != nil && len(d.Gen.Specs) == 1 {
		return d.Gen.Doc.Text()
	}
	return ""
}

// FindTypeDecl finds the declaration of typeName in pkg together with the
// methods declared on it.
func (l *Loader) FindTypeDecl(pkg *packages.Package, typeName string) (*TypeDecl, error) {
	var res *TypeDecl
	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			genDecl, ok := decl.(*ast.GenDecl)
			if !ok || genDecl.Tok != token.TYPE {
				continue
			}
			for _, spec := range genDecl.Specs {
				typeSpec, ok := spec.(*ast.TypeSpec)
				if ok && typeSpec.Name.Name == typeName {
					res = &TypeDecl{Gen: genDecl, Spec: typeSpec}
				}
			}
		}
	}
	if res == nil {
		return nil, fmt.Errorf("type %q not found in package %q", typeName, pkg.PkgPath)
	}
	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if ok && receiverName(fn) == typeName {
				res.Methods = append(res.Methods, fn)
			}
		}
	}
	return res, nil
}

// FindMethod finds the declaration of method name on typeName in pkg.
func (l *Loader) FindMethod(pkg *packages.Package, typeName, name string) (*ast.FuncDecl, error) {
	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if ok && fn.Name.Name == name && receiverName(fn) == typeName {
				return fn, nil
			}
		}
	}
	return nil, fmt.Errorf("method %s.%s not found in package %q", typeName, name, pkg.PkgPath)
}

// receiverName returns the base type name of the receiver of fn, or "" for
// plain functions.
func receiverName(fn *ast.FuncDecl) string {
	if fn.Recv == nil || len(fn.Recv.List) == 0 {
		return ""
	}
	t := fn.Recv.List[0].Type
	for {
		switch x := t.(type) {
		case *ast.StarExpr:
			t = x.X
		case *ast.IndexExpr:
			t = x.X
		case *ast.IndexListExpr:
			t = x.X
		case *ast.ParenExpr:
			t = x.X
		case *ast.Ident:
			return x.Name
		default:
			return ""
		}
	}
}

// Text returns the source text of node in pkg, starting at doc when it is
// not nil.
func (l *Loader) Text(fset *token.FileSet, doc *ast.CommentGroup, node ast.Node) (string, error) {
	start := node.Pos()
	if doc != nil {
		start = doc.Pos()
	}
	sp, ep := fset.Position(start), fset.Position(node.End())
	d, err := l.readFile(sp.Filename)
	if err != nil {
		return "", err
	}
	if sp.Offset < 0 || ep.Offset > len(d) || sp.Offset > ep.Offset {
		return "", fmt.Errorf("%s: stale positions", sp.Filename)
	}
	return string(d[sp.Offset:ep.Offset]), nil
}

func (l *Loader) readFile(path string) ([]byte, error) {
	l.mu.RLock()
	d, ok := l.files[path]
	l.mu.RUnlock()
	if ok {
		return d, nil
	}
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	l.files[path] = d
	l.mu.Unlock()
	return d, nil
}

// baseTypeName strips type arguments from a reflect type name.
func baseTypeName(name string) string {
	if i := strings.IndexByte(name, '['); i != -1 {
		return name[:i]
	}
	return name
}
