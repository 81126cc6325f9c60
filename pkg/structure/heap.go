package structure

import (
	"fmt"
	"slices"
)

// HeapKind selects the ordering of a binary heap.
type HeapKind string

const (
	MinHeap HeapKind = "min"
	MaxHeap HeapKind = "max"
)

// ParseHeapKind accepts "min" or "max". An empty string means MinHeap.
func ParseHeapKind(s string) (HeapKind, error) {
	switch HeapKind(s) {
	case "", MinHeap:
		return MinHeap, nil
	case MaxHeap:
		return MaxHeap, nil
	}
	return "", fmt.Errorf("unknown heap kind %q", s)
}

// Above reports whether a belongs strictly nearer the root than b.
func (k HeapKind) Above(a, b float64) bool {
	if k == MaxHeap {
		return a > b
	}
	return a < b
}

// Ordered reports whether parent may sit above child.
func (k HeapKind) Ordered(parent, child float64) bool {
	return !k.Above(child, parent)
}

// Heap is an authoritative array-backed binary heap.
type Heap struct {
	kind  HeapKind
	items []float64
}

func NewHeap(kind HeapKind) *Heap {
	if kind == "" {
		kind = MinHeap
	}
	return &Heap{kind: kind}
}

func (h *Heap) Kind() Kind         { return KindHeap }
func (h *Heap) HeapKind() HeapKind { return h.kind }
func (h *Heap) Len() int           { return len(h.items) }
func (h *Heap) Snapshot() Snapshot { return h.HeapSnapshot() }

func (h *Heap) HeapSnapshot() HeapSnapshot {
	return HeapSnapshot{kind: h.kind, items: slices.Clone(h.items)}
}

// Replace overwrites the heap array; callers keep the heap property.
func (h *Heap) Replace(items []float64) { h.items = slices.Clone(items) }

// HeapSnapshot is a frozen copy of a heap array.
type HeapSnapshot struct {
	kind  HeapKind
	items []float64
}

// NewHeapSnapshot builds a snapshot from an array assumed to satisfy the heap property.
func NewHeapSnapshot(kind HeapKind, items []float64) HeapSnapshot {
	if kind == "" {
		kind = MinHeap
	}
	return HeapSnapshot{kind: kind, items: slices.Clone(items)}
}

func (s HeapSnapshot) Kind() Kind         { return KindHeap }
func (s HeapSnapshot) HeapKind() HeapKind { return s.kind }
func (s HeapSnapshot) Len() int           { return len(s.items) }
func (s HeapSnapshot) At(i int) float64   { return s.items[i] }

// Array returns a copy of the heap array.
func (s HeapSnapshot) Array() []float64 { return slices.Clone(s.items) }

// Valid reports whether every parent is ordered against its children.
func (s HeapSnapshot) Valid() bool {
	for i := 1; i < len(s.items); i++ {
		if !s.kind.Ordered(s.items[(i-1)/2], s.items[i]) {
			return false
		}
	}
	return true
}
