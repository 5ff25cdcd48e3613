// Package registry holds the named root values of the object browser.
package registry

import (
	"fmt"
	"strings"
)

// Registry is an ordered table of named live values. Names keep the order
// in which they were first added. Entries are never evicted.
type Registry struct {
	names  []string
	values map[string]any
}

func New() *Registry {
	return &Registry{values: map[string]any{}}
}

// Add registers v under name. An existing entry with the same name is
// replaced in place.
func (r *Registry) Add(name string, v any) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("registry: empty name")
	}
	if _, ok := r.values[name]; !ok {
		r.names = append(r.names, name)
	}
	r.values[name] = v
	return nil
}

func (r *Registry) Lookup(name string) (any, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Names returns the registered names in order.
func (r *Registry) Names() []string {
	res := make([]string, len(r.names))
	copy(res, r.names)
	return res
}

func (r *Registry) Len() int {
	return len(r.names)
}
