package scope

import "sort"

// DefaultScope is the scope consulted until the caller activates another.
const DefaultScope = "global"

// Registry owns the named scopes and the single active scope name. Scopes
// are created lazily on first use and never destroyed; an empty scope is
// just a bare root.
type Registry struct {
	scopes map[string]*Scope
	active string
}

// NewRegistry creates an empty registry with the given active scope name,
// or DefaultScope when name is empty. The active scope itself is not
// created until something is bound in it.
func NewRegistry(name string) *Registry {
	if name == "" {
		name = DefaultScope
	}
	return &Registry{
		scopes: make(map[string]*Scope),
		active: name,
	}
}

// Get returns the named scope, creating it on first use.
func (r *Registry) Get(name string) *Scope {
	s, ok := r.scopes[name]
	if !ok {
		s = newScope(name)
		r.scopes[name] = s
	}
	return s
}

// Lookup returns the named scope without creating it.
func (r *Registry) Lookup(name string) (*Scope, bool) {
	s, ok := r.scopes[name]
	return s, ok
}

// SetActive switches the active scope. The name is not validated: an
// active scope nothing was ever bound in simply matches nothing.
func (r *Registry) SetActive(name string) {
	r.active = name
}

// Active returns the active scope name.
func (r *Registry) Active() string {
	return r.active
}

// ActiveScope returns the active scope if it exists.
func (r *Registry) ActiveScope() (*Scope, bool) {
	return r.Lookup(r.active)
}

// Names returns the existing scope names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.scopes))
	for name := range r.scopes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
