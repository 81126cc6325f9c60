package algorithms

import (
	"fmt"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/structure"
)

// treeTracer records tree steps. A nil tracer records nothing.
type treeTracer struct {
	rec         *recorder
	value       float64
	emitBalance bool

	parent    structure.NodeID
	side      string
	rotations int
}

func (t *treeTracer) visit(e *structure.TreeEdit, id structure.NodeID, cmp, dir string) {
	if t == nil {
		return
	}
	cv := e.Value(id)
	t.rec.add(domain.Step{
		Description: fmt.Sprintf("Compare %s with %s: %s %s %s, go %s", fv(t.value), fv(cv), fv(t.value), cmp, fv(cv), dir),
		Highlight:   nodeRef(id),
		Variables:   domain.Vars("value", t.value, "current", cv, "cmp", cmp, "direction", dir),
		Message:     "go " + dir,
	})
}

func (t *treeTracer) attach(e *structure.TreeEdit, id, parent structure.NodeID, side string) {
	if t == nil {
		return
	}
	t.parent, t.side = parent, side
	if !t.emitBalance || parent == structure.Nil {
		return
	}
	t.rec.add(domain.Step{
		Description: fmt.Sprintf("Insert %s as %s child of %s", fv(t.value), side, fv(e.Value(parent))),
		Highlight:   nodeRef(id),
		Variables:   domain.Vars("value", t.value, "parent", e.Value(parent), "side", side),
		Message:     "attached",
	})
}

func (t *treeTracer) height(e *structure.TreeEdit, id structure.NodeID) {
	if t == nil || !t.emitBalance {
		return
	}
	h, bal := e.Height(id), e.Balance(id)
	t.rec.add(domain.Step{
		Description: fmt.Sprintf("Update %s: height %d, balance %d", fv(e.Value(id)), h, bal),
		Highlight:   nodeRef(id),
		Variables:   domain.Vars("node", e.Value(id), "height", h, "balance", bal),
		Message:     balanceMessage(bal),
	})
}

func (t *treeTracer) rotate(e *structure.TreeEdit, r rotation) {
	if t == nil {
		return
	}
	t.rotations++
	var moved any
	if r.moved != structure.Nil {
		moved = e.Value(r.moved)
	}
	t.rec.add(domain.Step{
		Description: fmt.Sprintf("%s case: %s at %s, %s becomes the subtree root",
			r.imbalance, r.kind, fv(e.Value(r.pivot)), fv(e.Value(r.newRoot))),
		Highlight: nodeRef(r.newRoot),
		Variables: domain.Vars("case", r.imbalance, "rotation", r.kind,
			"pivot", e.Value(r.pivot), "new_root", e.Value(r.newRoot), "moved", moved),
		Message: r.kind,
	})
}

func balanceMessage(bal int) string {
	switch {
	case bal > 1:
		return "left heavy"
	case bal < -1:
		return "right heavy"
	}
	return "balanced"
}

const (
	rotateLeft  = "rotate-left"
	rotateRight = "rotate-right"
)

type rotation struct {
	kind      string
	imbalance string // LL, LR, RR, RL
	pivot     structure.NodeID
	newRoot   structure.NodeID
	moved     structure.NodeID
}

// insertNode inserts v into the overlay and, when balanced, restores the AVL
// property bottom-up along the insertion path. It returns the id of the new node,
// or of the existing node and true for a duplicate.
func insertNode(e *structure.TreeEdit, v float64, balanced bool, tr *treeTracer) (structure.NodeID, bool) {
	if e.Root() == structure.Nil {
		id := e.Alloc(v)
		e.SetRoot(id)
		tr.attach(e, id, structure.Nil, "root")
		return id, false
	}

	var path []structure.NodeID
	var id structure.NodeID
	var side string
	cur := e.Root()
	for {
		cv := e.Value(cur)
		if v == cv {
			return cur, true
		}
		path = append(path, cur)
		if v < cv {
			tr.visit(e, cur, "<", "left")
			if e.Left(cur) == structure.Nil {
				id, side = e.Alloc(v), "left"
				e.SetLeft(cur, id)
				break
			}
			cur = e.Left(cur)
		} else {
			tr.visit(e, cur, ">", "right")
			if e.Right(cur) == structure.Nil {
				id, side = e.Alloc(v), "right"
				e.SetRight(cur, id)
				break
			}
			cur = e.Right(cur)
		}
	}
	tr.attach(e, id, cur, side)

	for i := len(path) - 1; i >= 0; i-- {
		node := path[i]
		e.Recompute(node)
		if !balanced {
			continue
		}
		tr.height(e, node)

		top := rebalance(e, node, v, tr)
		if top != node {
			relink(e, path, i, node, top)
		}
		if bal := e.Balance(top); bal < -1 || bal > 1 {
			panic(fmt.Sprintf("avl: balance %d at %s after rebalancing", bal, fv(e.Value(top))))
		}
	}
	return id, false
}

// rebalance rotates the subtree rooted at node if it is out of balance and
// returns the new subtree root.
func rebalance(e *structure.TreeEdit, node structure.NodeID, v float64, tr *treeTracer) structure.NodeID {
	bal := e.Balance(node)
	switch {
	case bal > 1:
		child := e.Left(node)
		if v < e.Value(child) {
			return rotate(e, node, rotateRight, "LL", tr)
		}
		e.SetLeft(node, rotate(e, child, rotateLeft, "LR", tr))
		return rotate(e, node, rotateRight, "LR", tr)
	case bal < -1:
		child := e.Right(node)
		if v > e.Value(child) {
			return rotate(e, node, rotateLeft, "RR", tr)
		}
		e.SetRight(node, rotate(e, child, rotateRight, "RL", tr))
		return rotate(e, node, rotateLeft, "RL", tr)
	}
	return node
}

func rotate(e *structure.TreeEdit, pivot structure.NodeID, kind, imbalance string, tr *treeTracer) structure.NodeID {
	var newRoot, moved structure.NodeID
	if kind == rotateRight {
		newRoot = e.Left(pivot)
		moved = e.Right(newRoot)
		e.SetLeft(pivot, moved)
		e.SetRight(newRoot, pivot)
	} else {
		newRoot = e.Right(pivot)
		moved = e.Left(newRoot)
		e.SetRight(pivot, moved)
		e.SetLeft(newRoot, pivot)
	}
	e.Recompute(pivot)
	e.Recompute(newRoot)
	tr.rotate(e, rotation{kind: kind, imbalance: imbalance, pivot: pivot, newRoot: newRoot, moved: moved})
	return newRoot
}

// relink points the parent of old (path[i-1], or the root) at top.
func relink(e *structure.TreeEdit, path []structure.NodeID, i int, old, top structure.NodeID) {
	if i == 0 {
		e.SetRoot(top)
		return
	}
	parent := path[i-1]
	if e.Left(parent) == old {
		e.SetLeft(parent, top)
	} else {
		e.SetRight(parent, top)
	}
}
