package structure_test

import (
	"testing"

	"github.com/aretw0/stepwise/pkg/structure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeapKind(t *testing.T) {
	k, err := structure.ParseHeapKind("")
	require.NoError(t, err)
	assert.Equal(t, structure.MinHeap, k)

	_, err = structure.ParseHeapKind("medium")
	assert.Error(t, err)

	assert.True(t, structure.MinHeap.Above(1, 2))
	assert.True(t, structure.MaxHeap.Above(2, 1))
	assert.True(t, structure.MinHeap.Ordered(3, 3))
	assert.False(t, structure.MaxHeap.Ordered(1, 3))
}

func TestHeapSnapshot_IsCopy(t *testing.T) {
	h := structure.NewHeap(structure.MinHeap)
	h.Replace([]float64{1, 3, 2})
	snap := h.HeapSnapshot()

	arr := snap.Array()
	arr[0] = 99
	h.Replace([]float64{0})

	assert.Equal(t, []float64{1, 3, 2}, snap.Array())
	assert.True(t, snap.Valid())
	assert.False(t, structure.NewHeapSnapshot(structure.MinHeap, []float64{3, 1}).Valid())
}

func TestGraph_NeighbourOrder(t *testing.T) {
	g := structure.NewGraph(false)
	assert.True(t, g.AddEdge("A", "C"))
	assert.True(t, g.AddEdge("A", "B"))
	assert.True(t, g.AddEdge("D", "A"))
	assert.False(t, g.AddEdge("B", "A"), "undirected duplicate")

	snap := g.GraphSnapshot()
	assert.Equal(t, []string{"A", "C", "B", "D"}, snap.Vertices())
	assert.Equal(t, []string{"C", "B", "D"}, snap.Neighbors("A"))
	assert.Equal(t, []string{"A"}, snap.Neighbors("D"))
	assert.True(t, snap.HasEdge("C", "A"))
	assert.Len(t, snap.Adjacency(), 4)
}

func TestGraph_Directed(t *testing.T) {
	g := structure.NewGraph(true)
	g.AddEdge("A", "B")
	assert.True(t, g.AddEdge("B", "A"))

	snap := g.GraphSnapshot()
	assert.Equal(t, []string{"B"}, snap.Neighbors("A"))
	assert.Equal(t, []string{"A"}, snap.Neighbors("B"))
	assert.True(t, snap.Directed())
}

func TestLinear_Remove(t *testing.T) {
	s := structure.NewLinear(structure.Stack)
	q := structure.NewLinear(structure.Queue)
	for _, v := range []float64{1, 2, 3} {
		s.Append(v)
		q.Append(v)
	}
	before := q.LinearSnapshot()

	top, err := s.Remove()
	require.NoError(t, err)
	assert.Equal(t, 3.0, top)

	front, err := q.Remove()
	require.NoError(t, err)
	assert.Equal(t, 1.0, front)
	assert.Equal(t, []float64{2, 3}, q.LinearSnapshot().Items())
	assert.Equal(t, []float64{1, 2, 3}, before.Items())

	_, err = structure.NewLinear(structure.Stack).Remove()
	assert.Error(t, err)
}

func TestEnvelope_RoundTrip(t *testing.T) {
	tree := structure.NewTree()
	for _, v := range []float64{2, 1, 3} {
		insertPlain(t, tree, v)
	}
	g := structure.NewGraph(true)
	g.AddVertex("Z")
	g.AddEdge("A", "B")
	h := structure.NewHeap(structure.MaxHeap)
	h.Replace([]float64{9, 4, 7})
	l := structure.NewLinear(structure.Queue)
	l.Append(5)

	for _, s := range []structure.Structure{tree, g, h, l, structure.NewTree()} {
		data, err := structure.MarshalStructure(s)
		require.NoError(t, err)
		got, err := structure.UnmarshalStructure(data)
		require.NoError(t, err)
		assert.Equal(t, s.Snapshot(), got.Snapshot())
	}
}

func TestDecode_RejectsBadRoot(t *testing.T) {
	_, err := structure.Decode(structure.Envelope{
		Kind:  structure.KindTree,
		Root:  4,
		Nodes: []structure.TreeNode{{Value: 1, Left: structure.Nil, Right: structure.Nil, Height: 1}},
	})
	assert.Error(t, err)

	_, err = structure.Decode(structure.Envelope{Kind: "blob"})
	assert.Error(t, err)
}

func TestDecode_RejectsCorruptTree(t *testing.T) {
	leaf := func(v float64) structure.TreeNode {
		return structure.TreeNode{Value: v, Left: structure.Nil, Right: structure.Nil, Height: 1}
	}
	tests := []struct {
		name  string
		root  structure.NodeID
		nodes []structure.TreeNode
		want  string
	}{
		{
			name:  "child out of range",
			nodes: []structure.TreeNode{{Value: 5, Left: 7, Right: structure.Nil, Height: 2}},
			want:  "out of range",
		},
		{
			name:  "cycle",
			nodes: []structure.TreeNode{{Value: 5, Left: 1, Right: structure.Nil, Height: 2}, {Value: 3, Left: 0, Right: structure.Nil, Height: 1}},
			want:  "reached twice",
		},
		{
			name:  "shared child",
			nodes: []structure.TreeNode{{Value: 5, Left: 1, Right: 1, Height: 2}, leaf(3)},
			want:  "reached twice",
		},
		{
			name:  "orphan",
			nodes: []structure.TreeNode{leaf(5), leaf(3)},
			want:  "unreachable",
		},
		{
			name:  "keys out of order",
			nodes: []structure.TreeNode{{Value: 5, Left: 1, Right: structure.Nil, Height: 2}, leaf(9)},
			want:  "out of order",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := structure.Decode(structure.Envelope{Kind: structure.KindTree, Root: tt.root, Nodes: tt.nodes})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDecode_RecomputesTreeHeights(t *testing.T) {
	got, err := structure.Decode(structure.Envelope{
		Kind: structure.KindTree,
		Nodes: []structure.TreeNode{
			{Value: 5, Left: 1, Right: structure.Nil, Height: 9},
			{Value: 3, Left: structure.Nil, Right: structure.Nil, Height: 0},
		},
	})
	require.NoError(t, err)
	snap := got.(*structure.Tree).TreeSnapshot()
	assert.Equal(t, 2, snap.Height(snap.Root()))
	assert.Equal(t, 1, snap.Height(snap.Left(snap.Root())))
	assert.Equal(t, []float64{5, 3}, snap.PreOrder())
}

func TestDecode_RejectsHeapOutOfOrder(t *testing.T) {
	_, err := structure.Decode(structure.Envelope{Kind: structure.KindHeap, HeapKind: structure.MinHeap, Items: []float64{4, 1, 7}})
	assert.ErrorContains(t, err, "heap order")

	got, err := structure.Decode(structure.Envelope{Kind: structure.KindHeap, HeapKind: structure.MaxHeap, Items: []float64{7, 1, 4}})
	require.NoError(t, err)
	assert.Equal(t, []float64{7, 1, 4}, got.Snapshot().(structure.HeapSnapshot).Array())
}
