package structure

import (
	"fmt"
	"slices"
)

// NodeID addresses a node in a tree arena. IDs are stable for the lifetime of the tree.
type NodeID int32

// Nil is the absent child / empty root.
const Nil NodeID = -1

// TreeNode is one arena slot.
type TreeNode struct {
	Value  float64 `json:"value"`
	Left   NodeID  `json:"left"`
	Right  NodeID  `json:"right"`
	Height int     `json:"height"`
}

// Tree is an authoritative binary search tree backed by a node arena.
type Tree struct {
	nodes  []TreeNode
	root   NodeID
	shared bool // a snapshot still references nodes
}

// NewTree creates an empty tree.
func NewTree() *Tree {
	return &Tree{root: Nil}
}

func (t *Tree) Kind() Kind { return KindTree }

func (t *Tree) Snapshot() Snapshot { return t.TreeSnapshot() }

// TreeSnapshot returns a view sharing the arena. The next Apply copies the arena
// before writing, so the view never observes later mutations.
func (t *Tree) TreeSnapshot() TreeSnapshot {
	t.shared = true
	n := len(t.nodes)
	return TreeSnapshot{nodes: t.nodes[:n:n], root: t.root}
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int { return len(t.nodes) }

// Apply writes a diff produced by a TreeEdit over a snapshot of this tree.
func (t *Tree) Apply(d TreeDiff) error {
	if d.Base != len(t.nodes) {
		return fmt.Errorf("%w: base=%d arena=%d", ErrStaleDiff, d.Base, len(t.nodes))
	}
	for _, w := range d.Writes {
		if w.ID < 0 || int(w.ID) >= len(t.nodes) {
			return fmt.Errorf("%w: write to node %d", ErrStaleDiff, w.ID)
		}
	}
	if t.shared {
		t.nodes = slices.Clone(t.nodes)
		t.shared = false
	}
	for _, w := range d.Writes {
		t.nodes[w.ID] = w.Node
	}
	t.nodes = append(t.nodes, d.Appended...)
	t.root = d.Root
	return nil
}

// TreeSnapshot is a frozen view of a Tree.
type TreeSnapshot struct {
	nodes []TreeNode
	root  NodeID
}

// NewTreeSnapshot builds a snapshot from raw arena data (used by decoders and tests).
func NewTreeSnapshot(nodes []TreeNode, root NodeID) TreeSnapshot {
	return TreeSnapshot{nodes: slices.Clone(nodes), root: root}
}

func (s TreeSnapshot) Kind() Kind { return KindTree }

// Root returns the root node, or Nil for an empty tree.
func (s TreeSnapshot) Root() NodeID { return s.root }

// Len returns the number of nodes.
func (s TreeSnapshot) Len() int { return len(s.nodes) }

// Node returns the arena slot for id.
func (s TreeSnapshot) Node(id NodeID) (TreeNode, bool) {
	if id < 0 || int(id) >= len(s.nodes) {
		return TreeNode{}, false
	}
	return s.nodes[id], true
}

func (s TreeSnapshot) Value(id NodeID) float64 { return s.nodes[id].Value }
func (s TreeSnapshot) Left(id NodeID) NodeID   { return s.nodes[id].Left }
func (s TreeSnapshot) Right(id NodeID) NodeID  { return s.nodes[id].Right }

// Height returns the recorded height of id; Nil has height 0.
func (s TreeSnapshot) Height(id NodeID) int {
	if id == Nil {
		return 0
	}
	return s.nodes[id].Height
}

// Find returns the node holding v, or Nil.
func (s TreeSnapshot) Find(v float64) NodeID {
	cur := s.root
	for cur != Nil {
		n := s.nodes[cur]
		switch {
		case v == n.Value:
			return cur
		case v < n.Value:
			cur = n.Left
		default:
			cur = n.Right
		}
	}
	return Nil
}

// InOrder returns the keys in ascending order.
func (s TreeSnapshot) InOrder() []float64 {
	out := make([]float64, 0, len(s.nodes))
	var stack []NodeID
	cur := s.root
	for cur != Nil || len(stack) > 0 {
		for cur != Nil {
			stack = append(stack, cur)
			cur = s.nodes[cur].Left
		}
		cur = stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, s.nodes[cur].Value)
		cur = s.nodes[cur].Right
	}
	return out
}

// PreOrder returns the keys in preorder; together with InOrder it fixes the shape.
func (s TreeSnapshot) PreOrder() []float64 {
	out := make([]float64, 0, len(s.nodes))
	if s.root == Nil {
		return out
	}
	stack := []NodeID{s.root}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := s.nodes[cur]
		out = append(out, n.Value)
		if n.Right != Nil {
			stack = append(stack, n.Right)
		}
		if n.Left != Nil {
			stack = append(stack, n.Left)
		}
	}
	return out
}

// Nodes returns a copy of the arena.
func (s TreeSnapshot) Nodes() []TreeNode { return slices.Clone(s.nodes) }

// Edit starts an overlay on top of the snapshot.
func (s TreeSnapshot) Edit() *TreeEdit {
	return &TreeEdit{
		base:   s,
		writes: make(map[NodeID]TreeNode),
		root:   s.root,
	}
}
