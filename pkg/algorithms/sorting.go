package algorithms

import (
	"fmt"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/structure"
)

// SortingFamily owns an array that can be appended to and sorted in place.
type SortingFamily struct{}

func NewSorting() *SortingFamily { return &SortingFamily{} }

func (f *SortingFamily) Name() string { return Sorting }

func (f *SortingFamily) Operations() []domain.OperationSpec {
	return []domain.OperationSpec{
		{Kind: domain.KindSort, Operand: domain.OperandNone, Algorithms: []string{Bubble, Quick}},
		{Kind: domain.KindInsert, Operand: domain.OperandNumber},
	}
}

func (f *SortingFamily) New() structure.Structure { return structure.NewLinear(structure.Array) }

func (f *SortingFamily) Generate(op domain.Operation, snap structure.Snapshot) (domain.Trace, error) {
	ls, ok := snap.(structure.LinearSnapshot)
	if !ok {
		return domain.Trace{}, mismatch(Sorting, structure.KindLinear, snap)
	}
	rec := newRecorder(Sorting, op)
	a := ls.Items()

	switch op.Kind {
	case domain.KindInsert:
		a = append(a, op.Value)
		return rec.done(domain.Step{
			Description: fmt.Sprintf("Append %s at index %d", fv(op.Value), len(a)-1),
			Highlight:   indexRef(len(a) - 1),
			Variables:   domain.Vars("value", op.Value, "index", len(a)-1),
			Message:     "inserted",
			Outcome:     domain.OutcomeInserted,
			Array:       frame(a),
		}), nil
	case domain.KindSort:
		tr := &sortTracer{rec: rec}
		switch op.Algorithm {
		case "", Bubble:
			passes := bubbleSort(a, tr)
			return rec.done(domain.Step{
				Description: fmt.Sprintf("Bubble sort complete after %d passes", passes),
				Variables:   domain.Vars("passes", passes, "n", len(a)),
				Message:     "sorted",
				Outcome:     domain.OutcomeComplete,
				Array:       frame(a),
			}), nil
		case Quick:
			partitions := quickSort(a, tr)
			return rec.done(domain.Step{
				Description: fmt.Sprintf("Quick sort complete after %d partitions", partitions),
				Variables:   domain.Vars("partitions", partitions, "n", len(a)),
				Message:     "sorted",
				Outcome:     domain.OutcomeComplete,
				Array:       frame(a),
			}), nil
		}
		return domain.Trace{}, fmt.Errorf("%w: sort %q", domain.ErrUnsupportedOperation, op.Algorithm)
	}
	return domain.Trace{}, unsupported(Sorting, op.Kind)
}

func (f *SortingFamily) Commit(op domain.Operation, s structure.Structure) error {
	l, ok := s.(*structure.Linear)
	if !ok {
		return fmt.Errorf("%w: %s cannot commit to %T", domain.ErrSnapshotMismatch, Sorting, s)
	}
	switch op.Kind {
	case domain.KindInsert:
		l.Append(op.Value)
		return nil
	case domain.KindSort:
		a := l.LinearSnapshot().Items()
		switch op.Algorithm {
		case "", Bubble:
			bubbleSort(a, nil)
		case Quick:
			quickSort(a, nil)
		default:
			return fmt.Errorf("%w: sort %q", domain.ErrUnsupportedOperation, op.Algorithm)
		}
		l.Replace(a)
		return nil
	}
	return unsupported(Sorting, op.Kind)
}

func (f *SortingFamily) Verify(s structure.Structure, terminal domain.Step) error {
	l, ok := s.(*structure.Linear)
	if !ok {
		return fmt.Errorf("%w: %s cannot verify %T", domain.ErrSnapshotMismatch, Sorting, s)
	}
	return verifyArray(Sorting, l.LinearSnapshot().Items(), terminal)
}

// bubbleSort always runs n-1 passes, so the pass count depends only on the length.
func bubbleSort(a []float64, tr *sortTracer) int {
	n := len(a)
	passes := 0
	for pass := 0; pass < n-1; pass++ {
		for j := 0; j < n-1-pass; j++ {
			swap := a[j] > a[j+1]
			tr.compare(a, j, j+1, swap)
			if swap {
				a[j], a[j+1] = a[j+1], a[j]
				tr.swap(a, j, j+1)
			}
		}
		passes++
		tr.pass(a, passes, n-1-pass)
	}
	return passes
}

type span struct {
	lo, hi, depth int
}

// quickSort is a Lomuto partition sort driven by an explicit work stack. The
// left partition is always processed before the right one. It returns the
// number of partitions performed.
func quickSort(a []float64, tr *sortTracer) int {
	partitions := 0
	work := []span{{lo: 0, hi: len(a) - 1}}
	for len(work) > 0 {
		s := work[len(work)-1]
		work = work[:len(work)-1]
		if s.lo >= s.hi {
			tr.trivial(a, s)
			continue
		}

		pivot := a[s.hi]
		tr.pivot(a, s)
		i := s.lo
		for j := s.lo; j < s.hi; j++ {
			below := a[j] < pivot
			tr.against(a, j, pivot, below)
			if !below {
				continue
			}
			if i != j {
				a[i], a[j] = a[j], a[i]
				tr.swap(a, i, j)
			}
			i++
		}
		a[i], a[s.hi] = a[s.hi], a[i]
		tr.place(a, i, s)
		partitions++

		work = append(work,
			span{lo: i + 1, hi: s.hi, depth: s.depth + 1},
			span{lo: s.lo, hi: i - 1, depth: s.depth + 1},
		)
	}
	return partitions
}

// sortTracer records sorting steps. A nil tracer records nothing.
type sortTracer struct {
	rec *recorder
}

func (t *sortTracer) compare(a []float64, i, j int, swap bool) {
	if t == nil {
		return
	}
	cmp := "<="
	if swap {
		cmp = ">"
	}
	t.rec.add(domain.Step{
		Description: fmt.Sprintf("Compare %s and %s: %s %s %s", fv(a[i]), fv(a[j]), fv(a[i]), cmp, fv(a[j])),
		Highlight:   indexRef(i),
		Variables:   domain.Vars("i", i, "j", j, "left", a[i], "right", a[j], "cmp", cmp),
		Message:     "compare",
		Array:       frame(a),
	})
}

func (t *sortTracer) swap(a []float64, i, j int) {
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

func (t *sortTracer) pass(a []float64, pass, settled int) {
	if t == nil {
		return
	}
	t.rec.add(domain.Step{
		Description: fmt.Sprintf("Pass %d complete: index %d onwards is sorted", pass, settled),
		Highlight:   indexRef(settled),
		Variables:   domain.Vars("pass", pass, "settled", settled),
		Message:     "pass complete",
		Array:       frame(a),
	})
}

func (t *sortTracer) trivial(a []float64, s span) {
	if t == nil {
		return
	}
	t.rec.add(domain.Step{
		Description: fmt.Sprintf("Range [%d..%d] has at most one element: nothing to do", s.lo, s.hi),
		Variables:   domain.Vars("lo", s.lo, "hi", s.hi, "depth", s.depth),
		Message:     "skip",
		Array:       frame(a),
	})
}

func (t *sortTracer) pivot(a []float64, s span) {
	if t == nil {
		return
	}
	t.rec.add(domain.Step{
		Description: fmt.Sprintf("Choose pivot %s (index %d) for range [%d..%d]", fv(a[s.hi]), s.hi, s.lo, s.hi),
		Highlight:   indexRef(s.hi),
		Variables:   domain.Vars("lo", s.lo, "hi", s.hi, "depth", s.depth, "pivot", a[s.hi]),
		Message:     "pivot",
		Array:       frame(a),
	})
}

func (t *sortTracer) against(a []float64, j int, pivot float64, below bool) {
	if t == nil {
		return
	}
	cmp := ">="
	if below {
		cmp = "<"
	}
	t.rec.add(domain.Step{
		Description: fmt.Sprintf("Compare %s with pivot %s: %s %s %s", fv(a[j]), fv(pivot), fv(a[j]), cmp, fv(pivot)),
		Highlight:   indexRef(j),
		Variables:   domain.Vars("j", j, "value", a[j], "pivot", pivot, "cmp", cmp),
		Message:     "compare",
		Array:       frame(a),
	})
}

func (t *sortTracer) place(a []float64, i int, s span) {
	if t == nil {
		return
	}
	t.rec.add(domain.Step{
		Description: fmt.Sprintf("Place pivot %s at index %d", fv(a[i]), i),
		Highlight:   indexRef(i),
		Variables:   domain.Vars("pivot", a[i], "index", i, "lo", s.lo, "hi", s.hi, "depth", s.depth),
		Message:     "pivot placed",
		Array:       frame(a),
	})
}
