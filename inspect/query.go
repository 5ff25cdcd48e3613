package inspect

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Filter returns a pruned copy of nodes keeping the nodes whose label
// contains text, ignoring case, together with their ancestors. An empty
// text returns nodes unchanged.
func Filter(nodes []*Node, text string) []*Node {
	if text == "" {
		return nodes
	}
	text = strings.ToLower(text)
	return prune(nodes, 0, func(n *Node, _ int) bool {
		return strings.Contains(strings.ToLower(n.Label), text)
	})
}

// QueryEnv is the environment of a query expression, one per node.
type QueryEnv struct {
	Name    string `expr:"name"`
	Kind    string `expr:"kind"`
	Type    string `expr:"typename"`
	Path    string `expr:"path"`
	Label   string `expr:"label"`
	Preview string `expr:"preview"`
	Depth   int    `expr:"depth"`
	Cycle   bool   `expr:"cycle"`
}

func queryEnv(n *Node, depth int) QueryEnv {
	return QueryEnv{
		Name:    n.Name,
		Kind:    n.Kind.String(),
		Type:    n.TypeName,
		Path:    n.Path.String(),
		Label:   n.Label,
		Preview: n.Preview,
		Depth:   depth,
		Cycle:   n.Cycle,
	}
}

// CompileQuery compiles a boolean expression over QueryEnv, for example
//
//	kind == "Scalar" && typename startsWith "int" && depth > 1
func CompileQuery(q string) (*vm.Program, error) {
	prg, err := expr.Compile(q, expr.Env(QueryEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", q, err)
	}
	return prg, nil
}

// Query is like Filter with the nodes selected by the boolean expression q.
// A node whose evaluation fails does not match.
func Query(nodes []*Node, q string) ([]*Node, error) {
	prg, err := CompileQuery(q)
	if err != nil {
		return nil, err
	}
	return prune(nodes, 0, func(n *Node, depth int) bool {
		res, err := expr.Run(prg, queryEnv(n, depth))
		if err != nil {
			return false
		}
		b, _ := res.(bool)
		return b
	}), nil
}

func prune(nodes []*Node, depth int, match func(*Node, int) bool) []*Node {
	var res []*Node
	for _, n := range nodes {
		kids := prune(n.Children, depth+1, match)
		if len(kids) == 0 && !match(n, depth) {
			continue
		}
		c := *n
		c.Children = kids
		res = append(res, &c)
	}
	return res
}
