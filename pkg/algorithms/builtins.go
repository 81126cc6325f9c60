package algorithms

import (
	"github.com/aretw0/stepwise/pkg/ports"
	"github.com/aretw0/stepwise/pkg/registry"
	"github.com/aretw0/stepwise/pkg/structure"
)

type builtinConfig struct {
	heapKind structure.HeapKind
	directed bool
}

// Option configures the built-in families.
type Option func(*builtinConfig)

// WithHeapKind sets the ordering of new heaps (min by default).
func WithHeapKind(kind structure.HeapKind) Option {
	return func(c *builtinConfig) {
		c.heapKind = kind
	}
}

// WithDirectedGraph makes new graphs directed.
func WithDirectedGraph(directed bool) Option {
	return func(c *builtinConfig) {
		c.directed = directed
	}
}

// Builtins returns every built-in family.
func Builtins(opts ...Option) []ports.Family {
	cfg := builtinConfig{heapKind: structure.MinHeap}
	for _, opt := range opts {
		opt(&cfg)
	}
	return []ports.Family{
		NewBST(),
		NewAVL(),
		NewHeap(cfg.heapKind),
		NewGraph(cfg.directed),
		NewSorting(),
		NewStack(),
		NewQueue(),
	}
}

// RegisterBuiltins registers every built-in family on r.
func RegisterBuiltins(r *registry.Registry, opts ...Option) {
	for _, f := range Builtins(opts...) {
		r.Register(f)
	}
}
