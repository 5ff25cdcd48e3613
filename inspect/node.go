package inspect

import "github.com/signadot/objbrowse/opath"

// Node is one row of the object hierarchy. It carries the path of the value
// it describes, never the value itself; use Resolve to get a fresh value.
type Node struct {
	Label    string
	Name     string
	Kind     Kind
	Path     *opath.Path
	TypeName string
	Preview  string

	// Cycle is set when cycle detection is on and the value was already
	// being visited higher up the same branch.
	Cycle bool

	Children []*Node
}

// Walk visits n and its descendants depth first. Returning false from fn
// skips the children of the visited node.
func (n *Node) Walk(fn func(n *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int) bool, depth int) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}

// Walk visits every tree of a forest.
func Walk(nodes []*Node, fn func(n *Node, depth int) bool) {
	for _, n := range nodes {
		n.Walk(fn)
	}
}

// Find returns the node with the given path, or nil.
func Find(nodes []*Node, p *opath.Path) *Node {
	var res *Node
	Walk(nodes, func(n *Node, _ int) bool {
		if res != nil {
			return false
		}
		if n.Path.Equal(p) {
			res = n
			return false
		}
		return p.IsChildOf(n.Path)
	})
	return res
}
