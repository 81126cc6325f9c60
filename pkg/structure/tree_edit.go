package structure

import (
	"slices"
)

// NodeWrite replaces one arena slot.
type NodeWrite struct {
	ID   NodeID   `json:"id"`
	Node TreeNode `json:"node"`
}

// TreeDiff is the set of writes that turns one arena into the next.
type TreeDiff struct {
	Base     int         `json:"base"` // arena length the diff was computed against
	Root     NodeID      `json:"root"`
	Writes   []NodeWrite `json:"writes,omitempty"`
	Appended []TreeNode  `json:"appended,omitempty"`
}

// Empty reports whether applying the diff is a no-op.
func (d TreeDiff) Empty() bool {
	return len(d.Writes) == 0 && len(d.Appended) == 0
}

// TreeEdit is a pending set of writes on top of a snapshot. The snapshot itself
// is never written.
type TreeEdit struct {
	base     TreeSnapshot
	writes   map[NodeID]TreeNode
	appended []TreeNode
	root     NodeID
}

// Root returns the overlay root.
func (e *TreeEdit) Root() NodeID { return e.root }

// SetRoot replaces the overlay root.
func (e *TreeEdit) SetRoot(id NodeID) { e.root = id }

// Node reads id through the overlay.
func (e *TreeEdit) Node(id NodeID) TreeNode {
	if int(id) >= len(e.base.nodes) {
		return e.appended[int(id)-len(e.base.nodes)]
	}
	if n, ok := e.writes[id]; ok {
		return n
	}
	return e.base.nodes[id]
}

// Set writes id in the overlay.
func (e *TreeEdit) Set(id NodeID, n TreeNode) {
	if int(id) >= len(e.base.nodes) {
		e.appended[int(id)-len(e.base.nodes)] = n
		return
	}
	e.writes[id] = n
}

// Alloc appends a new leaf holding v and returns its id.
func (e *TreeEdit) Alloc(v float64) NodeID {
	id := NodeID(len(e.base.nodes) + len(e.appended))
	e.appended = append(e.appended, TreeNode{Value: v, Left: Nil, Right: Nil, Height: 1})
	return id
}

func (e *TreeEdit) Value(id NodeID) float64 { return e.Node(id).Value }
func (e *TreeEdit) Left(id NodeID) NodeID   { return e.Node(id).Left }
func (e *TreeEdit) Right(id NodeID) NodeID  { return e.Node(id).Right }

// Height returns the recorded height; Nil has height 0.
func (e *TreeEdit) Height(id NodeID) int {
	if id == Nil {
		return 0
	}
	return e.Node(id).Height
}

func (e *TreeEdit) SetLeft(id, child NodeID) {
	n := e.Node(id)
	n.Left = child
	e.Set(id, n)
}

func (e *TreeEdit) SetRight(id, child NodeID) {
	n := e.Node(id)
	n.Right = child
	e.Set(id, n)
}

// Recompute sets the height of id from its children and returns it.
func (e *TreeEdit) Recompute(id NodeID) int {
	n := e.Node(id)
	n.Height = 1 + max(e.Height(n.Left), e.Height(n.Right))
	e.Set(id, n)
	return n.Height
}

// Balance returns height(left) - height(right) for id.
func (e *TreeEdit) Balance(id NodeID) int {
	n := e.Node(id)
	return e.Height(n.Left) - e.Height(n.Right)
}

// Diff returns the pending writes in id order.
func (e *TreeEdit) Diff() TreeDiff {
	d := TreeDiff{
		Base:     len(e.base.nodes),
		Root:     e.root,
		Appended: slices.Clone(e.appended),
	}
	for id, n := range e.writes {
		if e.base.nodes[id] != n {
			d.Writes = append(d.Writes, NodeWrite{ID: id, Node: n})
		}
	}
	slices.SortFunc(d.Writes, func(a, b NodeWrite) int { return int(a.ID) - int(b.ID) })
	return d
}

// Snapshot materialises the overlay into a standalone snapshot.
func (e *TreeEdit) Snapshot() TreeSnapshot {
	nodes := make([]TreeNode, 0, len(e.base.nodes)+len(e.appended))
	nodes = append(nodes, e.base.nodes...)
	for id, n := range e.writes {
		nodes[id] = n
	}
	nodes = append(nodes, e.appended...)
	return TreeSnapshot{nodes: nodes, root: e.root}
}
