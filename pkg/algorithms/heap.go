package algorithms

import (
	"fmt"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/structure"
)

// HeapFamily implements insert and extract on a binary heap. The ordering is
// taken from the snapshot; kind only sets the ordering of structures created by New.
type HeapFamily struct {
	kind structure.HeapKind
}

func NewHeap(kind structure.HeapKind) *HeapFamily {
	if kind == "" {
		kind = structure.MinHeap
	}
	return &HeapFamily{kind: kind}
}

func (f *HeapFamily) Name() string { return Heap }

func (f *HeapFamily) Operations() []domain.OperationSpec {
	return []domain.OperationSpec{
		{Kind: domain.KindInsert, Operand: domain.OperandNumber},
		{Kind: domain.KindExtract, Operand: domain.OperandNone},
	}
}

func (f *HeapFamily) New() structure.Structure { return structure.NewHeap(f.kind) }

func (f *HeapFamily) Generate(op domain.Operation, snap structure.Snapshot) (domain.Trace, error) {
	hs, ok := snap.(structure.HeapSnapshot)
	if !ok {
		return domain.Trace{}, mismatch(Heap, structure.KindHeap, snap)
	}
	rec := newRecorder(Heap, op)
	tr := &heapTracer{rec: rec, kind: hs.HeapKind()}
	a := hs.Array()

	switch op.Kind {
	case domain.KindInsert:
		a, i := heapInsert(a, op.Value, hs.HeapKind(), tr)
		return rec.done(domain.Step{
			Description: fmt.Sprintf("%s settled at index %d; heap order restored", fv(op.Value), i),
			Highlight:   indexRef(i),
			Variables:   domain.Vars("value", op.Value, "index", i),
			Message:     "inserted",
			Outcome:     domain.OutcomeInserted,
			Array:       frame(a),
		}), nil
	case domain.KindExtract:
		if len(a) == 0 {
			return rec.done(domain.Step{
				Description: "Heap is empty: nothing to extract",
				Message:     "underflow",
				Outcome:     domain.OutcomeUnderflow,
				Array:       frame(a),
			}), nil
		}
		root := a[0]
		a = heapExtract(a, hs.HeapKind(), tr)
		return rec.done(domain.Step{
			Description: fmt.Sprintf("Extracted %s; heap order restored", fv(root)),
			Variables:   domain.Vars("value", root, "size", len(a)),
			Message:     "removed",
			Outcome:     domain.OutcomeRemoved,
			Array:       frame(a),
		}), nil
	}
	return domain.Trace{}, unsupported(Heap, op.Kind)
}

func (f *HeapFamily) Commit(op domain.Operation, s structure.Structure) error {
	h, ok := s.(*structure.Heap)
	if !ok {
		return fmt.Errorf("%w: %s cannot commit to %T", domain.ErrSnapshotMismatch, Heap, s)
	}
	a := h.HeapSnapshot().Array()
	switch op.Kind {
	case domain.KindInsert:
		a, _ = heapInsert(a, op.Value, h.HeapKind(), nil)
	case domain.KindExtract:
		if len(a) == 0 {
			return fmt.Errorf("extract from empty heap")
		}
		a = heapExtract(a, h.HeapKind(), nil)
	default:
		return unsupported(Heap, op.Kind)
	}
	h.Replace(a)
	return nil
}

func (f *HeapFamily) Verify(s structure.Structure, terminal domain.Step) error {
	h, ok := s.(*structure.Heap)
	if !ok {
		return fmt.Errorf("%w: %s cannot verify %T", domain.ErrSnapshotMismatch, Heap, s)
	}
	return verifyArray(Heap, h.HeapSnapshot().Array(), terminal)
}

// heapInsert appends v and sifts it up. It returns the array and the final index of v.
func heapInsert(a []float64, v float64, kind structure.HeapKind, tr *heapTracer) ([]float64, int) {
	a = append(a, v)
	i := len(a) - 1
	tr.appended(a, i)
	for i > 0 {
		p := (i - 1) / 2
		up := kind.Above(a[i], a[p])
		tr.compare(a, i, p, "parent", up)
		if !up {
			break
		}
		a[i], a[p] = a[p], a[i]
		tr.swap(a, i, p)
		i = p
	}
	return a, i
}

// heapExtract removes the root and sifts the moved leaf down. Ties between
// children prefer the left child.
func heapExtract(a []float64, kind structure.HeapKind, tr *heapTracer) []float64 {
	last := len(a) - 1
	if last > 0 {
		a[0], a[last] = a[last], a[0]
		tr.swapRoot(a, last)
	}
	root := a[last]
	a = a[:last]
	tr.removed(a, root, last)

	i := 0
	for {
		l, r := 2*i+1, 2*i+2
		if l >= len(a) {
			break
		}
		c := l
		if r < len(a) && kind.Above(a[r], a[l]) {
			c = r
		}
		down := kind.Above(a[c], a[i])
		tr.compare(a, i, c, "child", down)
		if !down {
			break
		}
		a[i], a[c] = a[c], a[i]
		tr.swap(a, i, c)
		i = c
	}
	return a
}

// heapTracer records heap steps. A nil tracer records nothing.
type heapTracer struct {
	rec  *recorder
	kind structure.HeapKind
}

func (t *heapTracer) appended(a []float64, i int) {
	if t == nil {
		return
	}
	t.rec.add(domain.Step{
		Description: fmt.Sprintf("Append %s at index %d", fv(a[i]), i),
		Highlight:   indexRef(i),
		Variables:   domain.Vars("value", a[i], "index", i),
		Message:     "appended",
		Array:       frame(a),
	})
}

func (t *heapTracer) compare(a []float64, i, j int, role string, move bool) {
	if t == nil {
		return
	}
	verdict := "in order"
	if move {
		verdict = "out of order"
	}
	t.rec.add(domain.Step{
		Description: fmt.Sprintf("Compare %s (index %d) with %s %s (index %d): %s for a %s-heap",
			fv(a[i]), i, role, fv(a[j]), j, verdict, t.kind),
		Highlight: indexRef(j),
		Variables: domain.Vars("index", i, "value", a[i], role, j, role+"_value", a[j], "swap", move),
		Message:   verdict,
		Array:     frame(a),
	})
}

func (t *heapTracer) swap(a []float64, i, j int) {
	if t == nil {
		return
	}
	t.rec.add(domain.Step{
		Description: fmt.Sprintf("Swap index %d and index %d", i, j),
		Highlight:   indexRef(j),
		Variables:   domain.Vars("i", i, "j", j),
		Message:     "swap",
		Array:       frame(a),
	})
}

func (t *heapTracer) swapRoot(a []float64, last int) {
	if t == nil {
		return
	}
	t.rec.add(domain.Step{
		Description: fmt.Sprintf("Swap root %s with last leaf %s", fv(a[last]), fv(a[0])),
		Highlight:   indexRef(0),
		Variables:   domain.Vars("root", a[last], "last", last),
		Message:     "swap",
		Array:       frame(a),
	})
}

func (t *heapTracer) removed(a []float64, v float64, at int) {
	if t == nil {
		return
	}
	t.rec.add(domain.Step{
		Description: fmt.Sprintf("Remove %s from index %d", fv(v), at),
		Variables:   domain.Vars("value", v, "size", len(a)),
		Message:     "removed",
		Array:       frame(a),
	})
}
