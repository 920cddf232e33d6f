package hideblock

import (
	"sort"
	"strings"
)

// Handler renders one block tag occurrence. title is the trimmed argument
// string of the open marker and rawBody the exact text up to the close marker.
type Handler func(title, rawBody string) (string, error)

// Registry maps block tag names to their handlers.
type Registry struct {
	byName map[string]Handler
}

func NewRegistry() *Registry {
	return &Registry{byName: map[string]Handler{}}
}

// RegisterBlockTag registers h for the block tag name, replacing any handler
// already registered under it. Names are matched case-insensitively.
func (r *Registry) RegisterBlockTag(name string, h Handler) {
	name = canonicalName(name)
	if name == "" || h == nil {
		return
	}
	r.byName[name] = h
}

// Names returns the registered tag names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for n := range r.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Wrap returns a new registry holding every handler of r passed through
// wrap. r itself is left unchanged.
func (r *Registry) Wrap(wrap func(name string, h Handler) Handler) *Registry {
	out := NewRegistry()
	for name, h := range r.byName {
		out.RegisterBlockTag(name, wrap(name, h))
	}
	return out
}

func (r *Registry) get(name string) (Handler, bool) {
	h, ok := r.byName[canonicalName(name)]
	return h, ok
}

func canonicalName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
