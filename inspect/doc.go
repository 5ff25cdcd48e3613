// Package inspect builds browsable trees from live Go values and resolves
// the paths of tree nodes back to values.
//
// # Trees
//
// [Build] walks a value to a bounded depth. Every [Node] is classified as
// one of
//
//   - Mapping: maps, children in sorted key order
//   - Sequence: slices and arrays, children by position
//   - Attributes: structs and [Attributer] values, fields then methods
//   - Callable: funcs and methods, never walked into
//   - Scalar: everything else, including nil
//
// Pointers and interfaces are looked through. Nodes record an
// [opath.Path], never the value, so a tree can be kept while the graph
// changes.
//
// # Paths
//
// [Resolve] replays a path against the current graph. Paths built by
// [Build] on an unchanged graph always resolve; after a change, a
// [*ResolutionError] matching [ErrStale] is returned.
//
// # Queries
//
// [Filter] and [Query] prune a forest to the nodes matching a substring or
// an expression, keeping ancestors of matches.
package inspect
