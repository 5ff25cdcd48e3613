// Package opath provides object paths: addressable expressions that locate a
// value inside a live object graph, starting from a named anchor.
//
// Paths encode the kind of access in the syntax:
//   - anchor        - the named starting point (first segment, no leading dot)
//   - .name         - attribute access (struct field, method or Attributer name)
//   - [3]           - sequence index, or integer map key
//   - ["key"]       - string map key (Go quoted string)
//   - [true], [1.5] - bool and float map keys
//   - {2}           - the n-th entry of a map in sorted key order
//
// # Usage
//
//	p, err := opath.Parse(`self.registry.values["cfg"].servers[0]`)
//
//	p.Anchor()  // "self"
//	p.Len()     // 5 steps after the anchor
//	q := p.Append(opath.Field("host"))
//
// # Related Packages
//
//   - github.com/signadot/objbrowse/inspect - builds and resolves paths
package opath
