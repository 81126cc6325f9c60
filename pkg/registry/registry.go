package registry

import (
	"fmt"
	"slices"
	"sync"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/ports"
)

// Registry maps family tags to their generator/committer pairs.
type Registry struct {
	mu       sync.RWMutex
	families map[string]ports.Family
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		families: make(map[string]ports.Family),
	}
}

// Register adds a family under its Name.
// If a family with the same name exists, it is overwritten.
func (r *Registry) Register(f ports.Family) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.families[f.Name()] = f
}

// Lookup returns the family registered under name.
func (r *Registry) Lookup(name string) (ports.Family, error) {
	r.mu.RLock()
	f, ok := r.families[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownFamily, name)
	}
	return f, nil
}

// Names returns the registered tags, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.families))
	for name := range r.families {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Spec returns the declaration of kind for family name.
func (r *Registry) Spec(name string, kind domain.Kind) (domain.OperationSpec, error) {
	f, err := r.Lookup(name)
	if err != nil {
		return domain.OperationSpec{}, err
	}
	for _, spec := range f.Operations() {
		if spec.Kind == kind {
			return spec, nil
		}
	}
	return domain.OperationSpec{}, fmt.Errorf("%w: %s %s", domain.ErrUnsupportedOperation, name, kind)
}
