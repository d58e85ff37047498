package dialect

import (
	"strings"
	"sync"
)

// ParseFunc converts a raw driver value of one native column type into its
// application form, e.g. a single-byte buffer into a bool. Parsers are
// never called with nil values.
type ParseFunc func(any) (any, error)

// Registry maps native column type names to parse functions. Each dialect
// instance owns one registry: it is populated at construction, read-only
// during normal operation, and replaced wholesale via Refresh.
type Registry struct {
	mu      sync.RWMutex
	parsers map[string]ParseFunc
}

// NewRegistry returns a registry seeded with the given parsers. Type names
// are case-insensitive.
func NewRegistry(parsers map[string]ParseFunc) *Registry {
	r := &Registry{parsers: make(map[string]ParseFunc, len(parsers))}
	for name, fn := range parsers {
		r.parsers[strings.ToUpper(name)] = fn
	}
	return r
}

// Lookup returns the parser registered for the native type name.
func (r *Registry) Lookup(typeName string) (ParseFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.parsers[strings.ToUpper(typeName)]
	return fn, ok
}

// Register adds or replaces a single parser.
func (r *Registry) Register(typeName string, fn ParseFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parsers[strings.ToUpper(typeName)] = fn
}

// Refresh replaces the whole parser table. It is the only supported way to
// reconfigure parsing after construction.
func (r *Registry) Refresh(parsers map[string]ParseFunc) {
	next := make(map[string]ParseFunc, len(parsers))
	for name, fn := range parsers {
		next[strings.ToUpper(name)] = fn
	}
	r.mu.Lock()
	r.parsers = next
	r.mu.Unlock()
}

// Parse applies the parser registered for typeName to v. Nil values and
// types without a parser pass through unchanged.
func (r *Registry) Parse(typeName string, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	fn, ok := r.Lookup(typeName)
	if !ok {
		return v, nil
	}
	return fn(v)
}

// Len returns the number of registered parsers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.parsers)
}
