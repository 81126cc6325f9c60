package algorithms

import (
	"fmt"
	"strings"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/structure"
)

// LinearFamily implements the stack and queue families. Both append at the
// back; a stack removes from the back (top), a queue from the front.
type LinearFamily struct {
	kind structure.LinearKind
}

func NewStack() *LinearFamily { return &LinearFamily{kind: structure.Stack} }
func NewQueue() *LinearFamily { return &LinearFamily{kind: structure.Queue} }

func (f *LinearFamily) Name() string { return string(f.kind) }

func (f *LinearFamily) Operations() []domain.OperationSpec {
	return []domain.OperationSpec{
		{Kind: domain.KindInsert, Operand: domain.OperandNumber},
		{Kind: domain.KindExtract, Operand: domain.OperandNone},
		{Kind: domain.KindSearch, Operand: domain.OperandNumber},
	}
}

func (f *LinearFamily) New() structure.Structure { return structure.NewLinear(f.kind) }

func (f *LinearFamily) verbs() (add, remove, end string) {
	if f.kind == structure.Stack {
		return "Push", "Pop", "top"
	}
	return "Enqueue", "Dequeue", "front"
}

func (f *LinearFamily) Generate(op domain.Operation, snap structure.Snapshot) (domain.Trace, error) {
	ls, ok := snap.(structure.LinearSnapshot)
	if !ok || ls.LinearKind() != f.kind {
		return domain.Trace{}, mismatch(f.Name(), structure.KindLinear, snap)
	}
	rec := newRecorder(f.Name(), op)
	a := ls.Items()
	add, remove, end := f.verbs()

	switch op.Kind {
	case domain.KindInsert:
		a = append(a, op.Value)
		return rec.done(domain.Step{
			Description: fmt.Sprintf("%s %s at index %d", add, fv(op.Value), len(a)-1),
			Highlight:   indexRef(len(a) - 1),
			Variables:   domain.Vars("value", op.Value, "size", len(a)),
			Message:     "inserted",
			Outcome:     domain.OutcomeInserted,
			Array:       frame(a),
		}), nil

	case domain.KindExtract:
		if len(a) == 0 {
			return rec.done(domain.Step{
				Description: fmt.Sprintf("The %s is empty: nothing to %s", f.kind, strings.ToLower(remove)),
				Message:     "underflow",
				Outcome:     domain.OutcomeUnderflow,
				Array:       frame(a),
			}), nil
		}
		at := f.removeIndex(len(a))
		v := a[at]
		rec.add(domain.Step{
			Description: fmt.Sprintf("The %s is %s at index %d", end, fv(v), at),
			Highlight:   indexRef(at),
			Variables:   domain.Vars(end, v, "index", at),
			Message:     end,
			Array:       frame(a),
		})
		a = append(a[:at], a[at+1:]...)
		return rec.done(domain.Step{
			Description: fmt.Sprintf("%s %s", remove, fv(v)),
			Variables:   domain.Vars("value", v, "size", len(a)),
			Message:     "removed",
			Outcome:     domain.OutcomeRemoved,
			Array:       frame(a),
		}), nil

	case domain.KindSearch:
		return f.traceSearch(rec, a, op.Value), nil
	}
	return domain.Trace{}, unsupported(f.Name(), op.Kind)
}

func (f *LinearFamily) removeIndex(n int) int {
	if f.kind == structure.Stack {
		return n - 1
	}
	return 0
}

// traceSearch scans from the end that is removed first.
func (f *LinearFamily) traceSearch(rec *recorder, a []float64, v float64) domain.Trace {
	n := len(a)
	for k := 0; k < n; k++ {
		i := k
		if f.kind == structure.Stack {
			i = n - 1 - k
		}
		if a[i] == v {
			return rec.done(domain.Step{
				Description: fmt.Sprintf("Compare %s at index %d with %s: found", fv(a[i]), i, fv(v)),
				Highlight:   indexRef(i),
				Variables:   domain.Vars("value", v, "index", i, "depth", k),
				Message:     "found",
				Outcome:     domain.OutcomeFound,
				Array:       frame(a),
			})
		}
		rec.add(domain.Step{
			Description: fmt.Sprintf("Compare %s at index %d with %s: no match", fv(a[i]), i, fv(v)),
			Highlight:   indexRef(i),
			Variables:   domain.Vars("value", v, "index", i, "current", a[i]),
			Message:     "no match",
			Array:       frame(a),
		})
	}
	return rec.done(domain.Step{
		Description: fmt.Sprintf("Scanned %d items: %s not found", n, fv(v)),
		Variables:   domain.Vars("value", v, "scanned", n),
		Message:     "not found",
		Outcome:     domain.OutcomeNotFound,
		Array:       frame(a),
	})
}

func (f *LinearFamily) Commit(op domain.Operation, s structure.Structure) error {
	l, ok := s.(*structure.Linear)
	if !ok || l.LinearKind() != f.kind {
		return fmt.Errorf("%w: %s cannot commit to %T", domain.ErrSnapshotMismatch, f.Name(), s)
	}
	switch op.Kind {
	case domain.KindInsert:
		l.Append(op.Value)
		return nil
	case domain.KindExtract:
		_, err := l.Remove()
		return err
	case domain.KindSearch:
		return nil
	}
	return unsupported(f.Name(), op.Kind)
}

func (f *LinearFamily) Verify(s structure.Structure, terminal domain.Step) error {
	l, ok := s.(*structure.Linear)
	if !ok {
		return fmt.Errorf("%w: %s cannot verify %T", domain.ErrSnapshotMismatch, f.Name(), s)
	}
	return verifyArray(f.Name(), l.LinearSnapshot().Items(), terminal)
}
