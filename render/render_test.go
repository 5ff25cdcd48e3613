package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/google/go-cmp/cmp"
	"github.com/signadot/objbrowse/detail"
	"github.com/signadot/objbrowse/inspect"
	"github.com/signadot/objbrowse/opath"
)

type server struct {
	Host  string
	Ports []int
	Debug bool
	Opts  map[string]any
}

func tree(t *testing.T) *inspect.Node {
	t.Helper()
	v := &server{Host: "a%b", Ports: []int{80}, Opts: map[string]any{"x": nil}}
	return inspect.Build(v, opath.New("srv"), 2, inspect.WithMethods(false))
}

func TestTree(t *testing.T) {
	root := tree(t)
	sel := inspect.Find([]*inspect.Node{root}, opath.MustParse("srv.Ports[0]"))
	if sel == nil {
		t.Fatal("no node for srv.Ports[0]")
	}
	var buf bytes.Buffer
	if err := Tree(&buf, []*inspect.Node{root}, NoColors(), sel.Path); err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"  srv: *render.server",
		`    📊 Host: string = "a%b"`,
		"    📋 Ports: []int",
		">     [0]: int = 80",
		"    📊 Debug: bool = false",
		"    📁 Opts: map[string]interface {}",
		"      🔑 x: nil",
		"",
	}, "\n")
	if d := cmp.Diff(want, buf.String()); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}
}

func TestLabel(t *testing.T) {
	root := tree(t)
	cycle := &inspect.Node{Name: "n", TypeName: "*T", Label: "● n: *T ↺", Cycle: true}
	nodes := []*inspect.Node{root, cycle}
	inspect.Walk([]*inspect.Node{root}, func(n *inspect.Node, _ int) bool {
		nodes = append(nodes, n)
		return true
	})
	for _, n := range nodes {
		if got := NoColors().Label(n); got != n.Label {
			t.Errorf("got %q, want %q", got, n.Label)
		}
	}

	saved := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = saved }()
	host := inspect.Find([]*inspect.Node{root}, opath.MustParse("srv.Host"))
	got := NewColors().Label(host)
	if !strings.Contains(got, "\x1b[") || !strings.Contains(got, `"a%b"`) {
		t.Errorf("colored label %q", got)
	}
}

func TestMembers(t *testing.T) {
	ms := &detail.MemberSet{
		Properties: []detail.Member{
			{Name: "Host", Type: "string", Preview: `"h"`},
			{Name: "bad", Preview: "<error: boom>"},
		},
		Methods: []detail.Member{
			{Name: "Close", Type: "func() error", Signature: "() error"},
		},
	}
	var buf bytes.Buffer
	if err := Members(&buf, ms, NoColors()); err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"Properties (2)",
		`  Host: string = "h"`,
		"  bad = <error: boom>",
		"Methods (1)",
		"  Close() error",
		"",
	}, "\n")
	if d := cmp.Diff(want, buf.String()); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}

	buf.Reset()
	if err := Members(&buf, &detail.MemberSet{}, NoColors()); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "no members\n" {
		t.Errorf("empty members %q", buf.String())
	}
}

func TestMetadata(t *testing.T) {
	info := &detail.Info{
		Path:      "srv",
		Type:      "*render.server",
		Kind:      "Attributes",
		ID:        "0xc000010000",
		Size:      8,
		Ancestors: []string{"render.server"},
		Doc:       "server is a test type.\n",
		Errors:    map[string]string{"source": "no source", "package": "unknown"},
	}
	var buf bytes.Buffer
	if err := Metadata(&buf, info, NoColors()); err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"Path:      srv",
		"Type:      *render.server",
		"Kind:      Attributes",
		"ID:        0xc000010000",
		"Size:      8 bytes",
		"Ancestors: render.server",
		"",
		"Doc:",
		"  server is a test type.",
		"",
		"Unavailable:",
		"  package: unknown",
		"  source: no source",
		"",
	}, "\n")
	if d := cmp.Diff(want, buf.String()); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}
}

func TestCode(t *testing.T) {
	src := "package x\n\nfunc F() int { return 1 }\n"
	var buf bytes.Buffer
	if err := Code(&buf, src, "monokai", false); err != nil {
		t.Fatal(err)
	}
	if buf.String() != src {
		t.Errorf("plain code %q", buf.String())
	}
	for _, theme := range []string{"monokai", "no-such-theme"} {
		buf.Reset()
		if err := Code(&buf, src, theme, true); err != nil {
			t.Fatal(err)
		}
		got := buf.String()
		if !strings.Contains(got, "\x1b[") || !strings.Contains(got, "return") {
			t.Errorf("%s: highlighted code %q", theme, got)
		}
	}
}

func TestEnabled(t *testing.T) {
	on, off := true, false
	var buf bytes.Buffer
	if !Enabled(&buf, &on) || Enabled(&buf, &off) || Enabled(&buf, nil) {
		t.Errorf("Enabled ignores explicit setting or colors a buffer")
	}
}
