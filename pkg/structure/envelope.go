package structure

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Envelope is the JSON form of an authoritative structure, used by workspace stores.
type Envelope struct {
	Kind     Kind       `json:"kind"`
	Root     NodeID     `json:"root,omitempty"`
	Nodes    []TreeNode `json:"nodes,omitempty"`
	HeapKind HeapKind   `json:"heap_kind,omitempty"`
	Linear   LinearKind `json:"linear_kind,omitempty"`
	Items    []float64  `json:"items,omitempty"`
	Directed bool       `json:"directed,omitempty"`
	Vertices []string   `json:"vertices,omitempty"`
	Edges    []Edge     `json:"edges,omitempty"`
}

// Encode captures s in an Envelope.
func Encode(s Structure) (Envelope, error) {
	if s == nil {
		return Envelope{}, fmt.Errorf("cannot encode nil structure")
	}
	return EncodeSnapshot(s.Snapshot())
}

// EncodeSnapshot captures a read-only view in an Envelope.
func EncodeSnapshot(snap Snapshot) (Envelope, error) {
	switch v := snap.(type) {
	case TreeSnapshot:
		return Envelope{Kind: KindTree, Root: v.root, Nodes: v.Nodes()}, nil
	case HeapSnapshot:
		return Envelope{Kind: KindHeap, HeapKind: v.kind, Items: v.Array()}, nil
	case GraphSnapshot:
		return Envelope{Kind: KindGraph, Directed: v.directed, Vertices: v.Vertices(), Edges: v.Edges()}, nil
	case LinearSnapshot:
		return Envelope{Kind: KindLinear, Linear: v.kind, Items: v.Items()}, nil
	}
	return Envelope{}, fmt.Errorf("cannot encode snapshot %T", snap)
}

// Decode rebuilds the structure held by e.
func Decode(e Envelope) (Structure, error) {
	switch e.Kind {
	case KindTree:
		t := NewTree()
		root := e.Root
		if len(e.Nodes) == 0 {
			root = Nil
		}
		nodes, err := checkArena(e.Nodes, root)
		if err != nil {
			return nil, err
		}
		if err := t.Apply(TreeDiff{Base: 0, Root: root, Appended: nodes}); err != nil {
			return nil, err
		}
		return t, nil
	case KindHeap:
		h := NewHeap(e.HeapKind)
		h.Replace(e.Items)
		if !h.HeapSnapshot().Valid() {
			return nil, fmt.Errorf("%s items %v violate heap order", h.HeapSnapshot().HeapKind(), e.Items)
		}
		return h, nil
	case KindGraph:
		g := NewGraph(e.Directed)
		for _, v := range e.Vertices {
			g.AddVertex(v)
		}
		for _, edge := range e.Edges {
			g.AddEdge(edge.From, edge.To)
		}
		return g, nil
	case KindLinear:
		l := NewLinear(e.Linear)
		l.Replace(e.Items)
		return l, nil
	}
	return nil, fmt.Errorf("unknown structure kind %q", e.Kind)
}

// checkArena rejects arenas that would make tree walks panic or loop: child ids
// out of range, nodes reached twice or never, and keys out of search order.
// It returns a copy with every height recomputed from the children.
func checkArena(nodes []TreeNode, root NodeID) ([]TreeNode, error) {
	inRange := func(id NodeID) bool { return id >= Nil && int(id) < len(nodes) }
	if !inRange(root) {
		return nil, fmt.Errorf("tree root %d out of range", root)
	}
	if root == Nil {
		if len(nodes) > 0 {
			return nil, fmt.Errorf("empty tree carries %d nodes", len(nodes))
		}
		return nil, nil
	}

	seen := make([]bool, len(nodes))
	order := make([]NodeID, 0, len(nodes))
	stack := []NodeID{root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[id] {
			return nil, fmt.Errorf("tree node %d is reached twice", id)
		}
		seen[id] = true
		order = append(order, id)
		for _, child := range []NodeID{nodes[id].Left, nodes[id].Right} {
			if !inRange(child) {
				return nil, fmt.Errorf("tree node %d has child %d out of range", id, child)
			}
			if child != Nil {
				stack = append(stack, child)
			}
		}
	}
	if len(order) != len(nodes) {
		return nil, fmt.Errorf("tree has %d nodes unreachable from the root", len(nodes)-len(order))
	}

	// Children come after their parent in order, so walking it backwards
	// settles heights bottom-up.
	out := slices.Clone(nodes)
	height := func(id NodeID) int {
		if id == Nil {
			return 0
		}
		return out[id].Height
	}
	for i := len(order) - 1; i >= 0; i-- {
		n := &out[order[i]]
		n.Height = 1 + max(height(n.Left), height(n.Right))
	}

	keys := NewTreeSnapshot(out, root).InOrder()
	for i := 1; i < len(keys); i++ {
		if keys[i-1] >= keys[i] {
			return nil, fmt.Errorf("tree keys out of order at %v", keys[i])
		}
	}
	return out, nil
}

// MarshalStructure encodes s to JSON.
func MarshalStructure(s Structure) ([]byte, error) {
	env, err := Encode(s)
	if err != nil {
		return nil, err
	}
	return json.Marshal(env)
}

// UnmarshalStructure decodes JSON produced by MarshalStructure.
func UnmarshalStructure(data []byte) (Structure, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	return Decode(env)
}
