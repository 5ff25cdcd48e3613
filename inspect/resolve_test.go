package inspect

import (
	"errors"
	"testing"

	"github.com/signadot/objbrowse/opath"
)

func TestResolveBuiltPaths(t *testing.T) {
	root := fixture()
	anchors := AnchorMap{"root": root}
	n := Build(root, opath.New("root"), 4)
	count := 0
	n.Walk(func(c *Node, _ int) bool {
		count++
		v, err := Resolve(anchors, c.Path)
		if err != nil {
			t.Errorf("resolve %s: %v", c.Path, err)
			return true
		}
		if got := TypeName(v); got != c.TypeName {
			t.Errorf("resolve %s: type %s, built as %s", c.Path, got, c.TypeName)
		}
		// the textual form resolves the same way
		p, err := opath.Parse(c.Path.String())
		if err != nil {
			t.Errorf("parse %s: %v", c.Path, err)
			return true
		}
		if _, err := Resolve(anchors, p); err != nil {
			t.Errorf("resolve parsed %s: %v", p, err)
		}
		return true
	})
	if count < 30 {
		t.Errorf("only %d nodes built", count)
	}
}

func TestResolveValues(t *testing.T) {
	root := fixture()
	anchors := AnchorMap{"root": root}
	tests := []struct {
		path string
		want any
	}{
		{`root["item"].Name`, "first"},
		{`root["item"].Base.ID`, 7},
		{`root["item"].ID`, 7},
		{`root["item"].Tags[1]`, "y"},
		{`root["item"].Attrs["k"]`, 1.5},
		{`root["ints"][2]`, "b"},
		{`root["floats"][1.5]`, true},
		{`root["floats"][2]`, false},
		{`root["bools"][true]`, 1},
		{`root["pairs"]{1}`, "x"},
		{`root["mixed"][3]`, "int"},
		{`root["mixed"]{1}`, "int64"},
		{`root["mixed"]["s"]`, "str"},
		{`root["arr"][1]`, 2},
		{`root["flaky"].c`, "c!"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := ResolveAny(anchors, opath.MustParse(tt.path))
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %v (%T), want %v (%T)", got, got, tt.want, tt.want)
			}
		})
	}
}

func TestResolveUnexported(t *testing.T) {
	anchors := AnchorMap{"root": fixture()}
	p := opath.MustParse(`root["item"].secret`)
	v, err := Resolve(anchors, p)
	if err != nil {
		t.Fatal(err)
	}
	if v.String() != "s" {
		t.Errorf("got %q", v.String())
	}
	if _, err := ResolveAny(anchors, p); !errors.Is(err, ErrNoInterface) {
		t.Errorf("expected ErrNoInterface, got %v", err)
	}
}

func TestResolveMethod(t *testing.T) {
	it := &Item{Name: "a"}
	anchors := AnchorMap{"it": it}
	v, err := Resolve(anchors, opath.MustParse("it.Rename"))
	if err != nil {
		t.Fatal(err)
	}
	if TypeName(v) != "func(string)" {
		t.Errorf("type %s", TypeName(v))
	}
	if it.Name != "a" {
		t.Errorf("resolving a method called it")
	}
}

func TestResolveStale(t *testing.T) {
	root := fixture()
	anchors := AnchorMap{"root": root}
	n := Build(root, opath.New("root"), 3)
	tag := Find([]*Node{n}, opath.MustParse(`root["item"].Tags[1]`))
	key := Find([]*Node{n}, opath.MustParse(`root["ints"][2]`))
	if tag == nil || key == nil {
		t.Fatal("nodes not built")
	}
	root["item"].(*Item).Tags = root["item"].(*Item).Tags[:1]
	delete(root["ints"].(map[int]string), 2)

	for _, p := range []*opath.Path{tag.Path, key.Path} {
		_, err := Resolve(anchors, p)
		if !errors.Is(err, ErrStale) {
			t.Errorf("%s: expected stale, got %v", p, err)
		}
		var rerr *ResolutionError
		if !errors.As(err, &rerr) {
			t.Fatalf("%s: not a ResolutionError: %T", p, err)
		}
		if rerr.Step != 3 && rerr.Step != 2 {
			t.Errorf("%s: failing step %d", p, rerr.Step)
		}
	}
}

func TestResolveErrors(t *testing.T) {
	anchors := AnchorMap{"root": fixture(), "nil": nil}
	tests := []struct {
		path string
		step int
	}{
		{`nope.x`, 0},
		{`root["missing"]`, 1},
		{`root["item"].Missing`, 2},
		{`root["item"].Tags[-1]`, 3},
		{`root["item"].Tags["x"]`, 3},
		{`root["item"].Next.Name`, 3},
		{`root["ints"]["x"]`, 2},
		{`root["ints"][1.5]`, 2},
		{`root["pairs"]{2}`, 2},
		{`root["arr"].x`, 2},
		{`root["flaky"].bad`, 2},
		{`root["flaky"].boom`, 2},
		{`root["nilmap"]["a"]`, 2},
		{`nil.x`, 1},
		{`nil[0]`, 1},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			_, err := Resolve(anchors, opath.MustParse(tt.path))
			var rerr *ResolutionError
			if !errors.As(err, &rerr) {
				t.Fatalf("expected ResolutionError, got %v", err)
			}
			if rerr.Step != tt.step {
				t.Errorf("step %d, want %d: %v", rerr.Step, tt.step, err)
			}
			if !errors.Is(err, ErrStale) {
				t.Errorf("not stale: %v", err)
			}
		})
	}
}

func TestResolveAttributerError(t *testing.T) {
	anchors := AnchorMap{"f": flaky{}}
	_, err := Resolve(anchors, opath.MustParse("f.bad"))
	var rerr *ResolutionError
	if !errors.As(err, &rerr) || rerr.Err == nil || rerr.Err.Error() != "cannot compute" {
		t.Errorf("expected wrapped attribute error, got %v", err)
	}
}
