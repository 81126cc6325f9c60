package structure

import (
	"fmt"
	"slices"
)

// LinearKind selects the access discipline of a Linear container.
type LinearKind string

const (
	Stack LinearKind = "stack" // top is the last item
	Queue LinearKind = "queue" // front is the first item
	Array LinearKind = "array"
)

// Linear is an authoritative sequence of keys used by the stack, queue and
// array (sorting) families.
type Linear struct {
	kind  LinearKind
	items []float64
}

func NewLinear(kind LinearKind) *Linear {
	return &Linear{kind: kind}
}

func (l *Linear) Kind() Kind             { return KindLinear }
func (l *Linear) LinearKind() LinearKind { return l.kind }
func (l *Linear) Len() int               { return len(l.items) }
func (l *Linear) Snapshot() Snapshot     { return l.LinearSnapshot() }

func (l *Linear) LinearSnapshot() LinearSnapshot {
	return LinearSnapshot{kind: l.kind, items: slices.Clone(l.items)}
}

// Append adds v at the back.
func (l *Linear) Append(v float64) { l.items = append(l.items, v) }

// Remove takes one item from the end the discipline serves: the back for a
// stack, the front otherwise.
func (l *Linear) Remove() (float64, error) {
	if len(l.items) == 0 {
		return 0, fmt.Errorf("%s is empty", l.kind)
	}
	if l.kind == Stack {
		v := l.items[len(l.items)-1]
		l.items = l.items[:len(l.items)-1]
		return v, nil
	}
	v := l.items[0]
	l.items = slices.Delete(slices.Clone(l.items), 0, 1)
	return v, nil
}

// Replace overwrites the contents.
func (l *Linear) Replace(items []float64) { l.items = slices.Clone(items) }

// LinearSnapshot is a frozen copy of a linear container.
type LinearSnapshot struct {
	kind  LinearKind
	items []float64
}

func NewLinearSnapshot(kind LinearKind, items []float64) LinearSnapshot {
	return LinearSnapshot{kind: kind, items: slices.Clone(items)}
}

func (s LinearSnapshot) Kind() Kind             { return KindLinear }
func (s LinearSnapshot) LinearKind() LinearKind { return s.kind }
func (s LinearSnapshot) Len() int               { return len(s.items) }
func (s LinearSnapshot) At(i int) float64       { return s.items[i] }
func (s LinearSnapshot) Items() []float64       { return slices.Clone(s.items) }
