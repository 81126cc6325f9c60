package algorithms

import (
	"fmt"
	"slices"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/structure"
)

// TreeFamily implements insert and search on binary search trees. With balanced
// set it is the AVL family.
type TreeFamily struct {
	name     string
	balanced bool
}

func NewBST() *TreeFamily { return &TreeFamily{name: BST} }
func NewAVL() *TreeFamily { return &TreeFamily{name: AVL, balanced: true} }

func (f *TreeFamily) Name() string { return f.name }

func (f *TreeFamily) Operations() []domain.OperationSpec {
	return []domain.OperationSpec{
		{Kind: domain.KindInsert, Operand: domain.OperandNumber},
		{Kind: domain.KindSearch, Operand: domain.OperandNumber},
	}
}

func (f *TreeFamily) New() structure.Structure { return structure.NewTree() }

func (f *TreeFamily) Generate(op domain.Operation, snap structure.Snapshot) (domain.Trace, error) {
	ts, ok := snap.(structure.TreeSnapshot)
	if !ok {
		return domain.Trace{}, mismatch(f.name, structure.KindTree, snap)
	}
	rec := newRecorder(f.name, op)
	switch op.Kind {
	case domain.KindInsert:
		return f.traceInsert(rec, ts, op.Value), nil
	case domain.KindSearch:
		return traceSearch(rec, ts, op.Value), nil
	}
	return domain.Trace{}, unsupported(f.name, op.Kind)
}

func (f *TreeFamily) Commit(op domain.Operation, s structure.Structure) error {
	tree, ok := s.(*structure.Tree)
	if !ok {
		return fmt.Errorf("%w: %s cannot commit to %T", domain.ErrSnapshotMismatch, f.name, s)
	}
	switch op.Kind {
	case domain.KindInsert:
		e := tree.TreeSnapshot().Edit()
		if _, dup := insertNode(e, op.Value, f.balanced, nil); dup {
			return nil
		}
		return tree.Apply(e.Diff())
	case domain.KindSearch:
		return nil
	}
	return unsupported(f.name, op.Kind)
}

// Verify checks the committed tree against the terminal step: the recorded
// preorder and, for inserts, where the new key ended up.
func (f *TreeFamily) Verify(s structure.Structure, terminal domain.Step) error {
	tree, ok := s.(*structure.Tree)
	if !ok {
		return fmt.Errorf("%w: %s cannot verify %T", domain.ErrSnapshotMismatch, f.name, s)
	}
	snap := tree.TreeSnapshot()
	if raw, ok := terminal.Variables.Get(domain.VarPreorder); ok {
		want, _ := raw.([]float64)
		if got := snap.PreOrder(); !slices.Equal(got, want) {
			return fmt.Errorf("%w: tree preorder %s, trace ended with %s",
				domain.ErrInconsistentCommit, domain.FormatValues(got), domain.FormatValues(want))
		}
	}
	if terminal.Outcome != domain.OutcomeInserted {
		return nil
	}
	raw, _ := terminal.Variables.Get("value")
	v, _ := raw.(float64)
	wantSide, _ := terminal.Variables.Get("side")
	wantParent, _ := terminal.Variables.Get("parent")
	parent, side, found := placement(snap, v)
	if !found {
		return fmt.Errorf("%w: %s is not in the committed tree", domain.ErrInconsistentCommit, fv(v))
	}
	if side != wantSide || parentValue(snap, parent) != wantParent {
		return fmt.Errorf("%w: %s is the %s, trace ended with %s",
			domain.ErrInconsistentCommit, fv(v), describePlacement(snap, parent, side),
			describeRecorded(wantParent, wantSide))
	}
	return nil
}

func (f *TreeFamily) traceInsert(rec *recorder, ts structure.TreeSnapshot, v float64) domain.Trace {
	e := ts.Edit()
	tr := &treeTracer{rec: rec, value: v, emitBalance: f.balanced, parent: structure.Nil}
	id, dup := insertNode(e, v, f.balanced, tr)

	if dup {
		return rec.done(domain.Step{
			Description: fmt.Sprintf("%s is already in the tree; duplicates are not inserted", fv(v)),
			Highlight:   nodeRef(id),
			Variables:   domain.Vars("value", v, "current", e.Value(id), "cmp", "=="),
			Message:     "duplicate",
			Outcome:     domain.OutcomeDuplicate,
		})
	}

	preorder := e.Snapshot().PreOrder()
	if tr.parent == structure.Nil {
		return rec.done(domain.Step{
			Description: fmt.Sprintf("Tree is empty: %s becomes the root", fv(v)),
			Highlight:   nodeRef(id),
			Variables:   domain.Vars("value", v, "parent", nil, "side", "root", domain.VarPreorder, preorder),
			Message:     "inserted",
			Outcome:     domain.OutcomeInserted,
		})
	}

	if !f.balanced {
		parent := ts.Value(tr.parent)
		return rec.done(domain.Step{
			Description: fmt.Sprintf("Insert %s as %s child of %s", fv(v), tr.side, fv(parent)),
			Highlight:   nodeRef(id),
			Variables:   domain.Vars("value", v, "parent", parent, "side", tr.side, domain.VarPreorder, preorder),
			Message:     "inserted",
			Outcome:     domain.OutcomeInserted,
		})
	}

	// Rotations may have moved the new key away from where it was attached.
	final := e.Snapshot()
	parent, side, _ := placement(final, v)
	desc := fmt.Sprintf("Inserted %s; every ancestor is balanced", fv(v))
	if tr.rotations > 0 {
		desc = fmt.Sprintf("Inserted %s after %d rotation(s); it is now the %s",
			fv(v), tr.rotations, describePlacement(final, parent, side))
	}
	return rec.done(domain.Step{
		Description: desc,
		Highlight:   nodeRef(id),
		Variables: domain.Vars("value", v, "parent", parentValue(final, parent), "side", side,
			"attached_to", ts.Value(tr.parent), "rotations", tr.rotations, domain.VarPreorder, preorder),
		Message: "inserted",
		Outcome: domain.OutcomeInserted,
	})
}

// placement finds v by key and reports its parent and which side of the parent
// it hangs on. The root has parent structure.Nil and side "root".
func placement(s structure.TreeSnapshot, v float64) (structure.NodeID, string, bool) {
	parent, side := structure.Nil, "root"
	cur := s.Root()
	for cur != structure.Nil {
		cv := s.Value(cur)
		if v == cv {
			return parent, side, true
		}
		parent = cur
		if v < cv {
			side, cur = "left", s.Left(cur)
		} else {
			side, cur = "right", s.Right(cur)
		}
	}
	return structure.Nil, "", false
}

// parentValue is the key of parent, or nil for the root.
func parentValue(s structure.TreeSnapshot, parent structure.NodeID) any {
	if parent == structure.Nil {
		return nil
	}
	return s.Value(parent)
}

func describePlacement(s structure.TreeSnapshot, parent structure.NodeID, side string) string {
	return describeRecorded(parentValue(s, parent), side)
}

func describeRecorded(parent, side any) string {
	if parent == nil {
		return "root"
	}
	return fmt.Sprintf("%v child of %s", side, domain.FormatAny(parent))
}

func traceSearch(rec *recorder, ts structure.TreeSnapshot, v float64) domain.Trace {
	visited := []float64{}
	cur := ts.Root()
	if cur == structure.Nil {
		return rec.done(domain.Step{
			Description: fmt.Sprintf("Tree is empty: %s not found", fv(v)),
			Variables:   domain.Vars("value", v, "visited", visited),
			Message:     "not found",
			Outcome:     domain.OutcomeNotFound,
		})
	}

	var last float64
	var side string
	for cur != structure.Nil {
		cv := ts.Value(cur)
		visited = append(visited, cv)
		if v == cv {
			return rec.done(domain.Step{
				Description: fmt.Sprintf("Compare %s with %s: equal, found", fv(v), fv(cv)),
				Highlight:   nodeRef(cur),
				Variables:   domain.Vars("value", v, "current", cv, "cmp", "==", "visited", slices.Clone(visited)),
				Message:     "found",
				Outcome:     domain.OutcomeFound,
			})
		}
		cmp, dir, next := "<", "left", ts.Left(cur)
		if v > cv {
			cmp, dir, next = ">", "right", ts.Right(cur)
		}
		rec.add(domain.Step{
			Description: fmt.Sprintf("Compare %s with %s: %s %s %s, go %s", fv(v), fv(cv), fv(v), cmp, fv(cv), dir),
			Highlight:   nodeRef(cur),
			Variables:   domain.Vars("value", v, "current", cv, "cmp", cmp, "direction", dir),
			Message:     "go " + dir,
		})
		last, side, cur = cv, dir, next
	}

	return rec.done(domain.Step{
		Description: fmt.Sprintf("Reached the empty %s subtree of %s: %s not found", side, fv(last), fv(v)),
		Variables:   domain.Vars("value", v, "visited", visited),
		Message:     "not found",
		Outcome:     domain.OutcomeNotFound,
	})
}
