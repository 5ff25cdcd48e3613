package inspect

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/objbrowse/opath"
)

func paths(nodes []*Node) []string {
	var res []string
	Walk(nodes, func(n *Node, _ int) bool {
		res = append(res, n.Path.String())
		return true
	})
	return res
}

func queryForest() []*Node {
	root := map[string]any{
		"alpha": map[string]any{"beta": 1, "delta": "x"},
		"gamma": 2,
	}
	return []*Node{Build(root, opath.New("r"), 3)}
}

func TestFilter(t *testing.T) {
	forest := queryForest()
	got := paths(Filter(forest, "BETA"))
	want := []string{`r`, `r["alpha"]`, `r["alpha"]["beta"]`}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}
	if got := Filter(forest, "nothing like it"); len(got) != 0 {
		t.Errorf("expected no match, got %v", paths(got))
	}
	if got := Filter(forest, ""); count(got) != count(forest) {
		t.Errorf("empty filter pruned the tree")
	}
	// the input is not modified
	if count(forest) != 5 {
		t.Errorf("forest has %d nodes", count(forest))
	}
}

func TestQuery(t *testing.T) {
	forest := queryForest()
	tests := []struct {
		q    string
		want []string
	}{
		{`kind == "Scalar" && typename == "int"`, []string{`r`, `r["alpha"]`, `r["alpha"]["beta"]`, `r["gamma"]`}},
		{`depth == 1 && kind == "Mapping"`, []string{`r`, `r["alpha"]`}},
		{`preview == "\"x\""`, []string{`r`, `r["alpha"]`, `r["alpha"]["delta"]`}},
		{`name startsWith "g"`, []string{`r`, `r["gamma"]`}},
		{`path == "r"`, []string{`r`}},
	}
	for _, tt := range tests {
		t.Run(tt.q, func(t *testing.T) {
			res, err := Query(forest, tt.q)
			if err != nil {
				t.Fatal(err)
			}
			if d := cmp.Diff(tt.want, paths(res)); d != "" {
				t.Errorf("(-want +got):\n%s", d)
			}
		})
	}
}

func TestQueryErrors(t *testing.T) {
	for _, q := range []string{`kind ==`, `depth + 1`, `unknown == 1`} {
		if _, err := Query(queryForest(), q); err == nil {
			t.Errorf("%q: expected error", q)
		}
	}
}

func count(nodes []*Node) int {
	c := 0
	Walk(nodes, func(*Node, int) bool {
		c++
		return true
	})
	return c
}
