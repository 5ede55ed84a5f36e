package parser

// Registry is the flat set of variable names declared during one parse.
// Names are never removed and there is no nesting: a declaration anywhere
// is visible to every later statement.
type Registry struct {
	names []string
	index map[string]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]struct{})}
}

// Declare records name. It returns false if name was already declared;
// re-declaration is accepted and leaves the registry unchanged. The zero
// Registry is ready to use.
func (r *Registry) Declare(name string) bool {
	if r.index == nil {
		r.index = make(map[string]struct{})
	}
	if _, ok := r.index[name]; ok {
		return false
	}
	r.index[name] = struct{}{}
	r.names = append(r.names, name)
	return true
}

// IsDeclared reports whether name has been declared.
func (r *Registry) IsDeclared(name string) bool {
	_, ok := r.index[name]
	return ok
}

// Names returns the distinct declared names in first-declaration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Len returns the number of distinct declared names.
func (r *Registry) Len() int { return len(r.names) }
