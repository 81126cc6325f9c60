package structure

import "errors"

// Kind identifies the shape of a structure.
type Kind string

const (
	KindTree   Kind = "tree"
	KindHeap   Kind = "heap"
	KindGraph  Kind = "graph"
	KindLinear Kind = "linear"
)

// ErrStaleDiff is returned when a diff was computed against a different arena.
var ErrStaleDiff = errors.New("diff does not match tree arena")

// Snapshot is a read-only view of a structure at the instant an operation begins.
type Snapshot interface {
	Kind() Kind
}

// Structure is an authoritative container.
type Structure interface {
	Kind() Kind
	Snapshot() Snapshot
}
