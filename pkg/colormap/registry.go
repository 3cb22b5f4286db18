package colormap

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

var (
	// ErrRegistryFrozen is returned by Register after Freeze.
	ErrRegistryFrozen = errors.New("colormap registry is frozen")
	// ErrDuplicateName is returned when a name is registered twice.
	ErrDuplicateName = errors.New("colormap name already registered")
)

// Registry holds named colormaps. It is filled once at startup, frozen,
// and then only read.
type Registry struct {
	mu     sync.RWMutex
	maps   map[string]Colormap
	order  []string
	frozen bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{maps: make(map[string]Colormap)}
}

// Register adds a colormap under name.
func (r *Registry) Register(name string, c Colormap) error {
	if name == "" {
		return fmt.Errorf("%w: empty colormap name", ErrInvalidSpec)
	}
	if c == nil {
		return fmt.Errorf("%w: nil colormap %q", ErrInvalidSpec, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return fmt.Errorf("register %q: %w", name, ErrRegistryFrozen)
	}
	if _, ok := r.maps[name]; ok {
		return fmt.Errorf("register %q: %w", name, ErrDuplicateName)
	}
	r.maps[name] = c
	r.order = append(r.order, name)
	return nil
}

// RegisterSpec builds spec and registers it under spec.Name.
func (r *Registry) RegisterSpec(spec Spec, resolver Resolver) (*LinearColormap, error) {
	c, err := Build(spec, resolver)
	if err != nil {
		return nil, err
	}
	if err := r.Register(spec.Name, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Freeze stops further registration.
func (r *Registry) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

// Frozen reports whether Freeze has been called.
func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

// Get returns the colormap registered under name.
func (r *Registry) Get(name string) (Colormap, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.maps[name]
	return c, ok
}

// Lookup is like Get but also resolves "name_r" to the reversed form of a
// registered linear colormap.
func (r *Registry) Lookup(name string) (Colormap, bool) {
	if c, ok := r.Get(name); ok {
		return c, true
	}
	base, ok := strings.CutSuffix(name, "_r")
	if !ok {
		return nil, false
	}
	c, ok := r.Get(base)
	if !ok {
		return nil, false
	}
	linear, ok := c.(*LinearColormap)
	if !ok {
		return nil, false
	}
	return linear.Reversed(), true
}

// Names returns registered names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered colormaps.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
