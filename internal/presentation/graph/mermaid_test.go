package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/stepwise/internal/presentation/graph"
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/structure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateMermaid(t *testing.T) {
	tree := structure.NewTreeSnapshot(
		[]structure.TreeNode{
			{Value: 5, Left: 1, Right: 2, Height: 2},
			{Value: 3, Left: structure.Nil, Right: structure.Nil, Height: 1},
			{Value: 8, Left: structure.Nil, Right: structure.Nil, Height: 1},
		}, 0)

	g := structure.NewGraph(true)
	g.AddEdge("A", "B")
	g.AddEdge("end", "A")

	tests := []struct {
		name     string
		snap     structure.Snapshot
		overlay  *graph.Overlay
		contains []string
		excludes []string
	}{
		{
			name: "Tree",
			snap: tree,
			contains: []string{
				"graph TD",
				"n0((\"5\"))",
				"n0 --> n1",
				"n0 --> n2",
				"n2((\"8\"))",
			},
			excludes: []string{"classDef"},
		},
		{
			name:    "Tree overlay skips uncommitted nodes",
			snap:    tree,
			overlay: &graph.Overlay{Current: "n7"},
			contains: []string{
				"classDef current",
			},
			excludes: []string{"class n7"},
		},
		{
			name:    "Heap",
			snap:    structure.NewHeapSnapshot(structure.MinHeap, []float64{1, 4, 2, 9}),
			overlay: &graph.Overlay{Current: "3"},
			contains: []string{
				"h0((\"1\"))",
				"h0 --> h1",
				"h0 --> h2",
				"h1 --> h3",
				"class h3 current;",
			},
		},
		{
			name:    "Directed graph",
			snap:    g.Snapshot(),
			overlay: &graph.Overlay{Visited: []string{"A", "A", "B"}, Current: "B"},
			contains: []string{
				"graph LR",
				"v_A[\"A\"]",
				"v_A --> v_B",
				"v_end --> v_A",
				"class v_A visited;",
				"class v_B current;",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := graph.GenerateMermaid(tt.snap, tt.overlay)
			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			for _, bad := range tt.excludes {
				assert.NotContains(t, got, bad)
			}
		})
	}
}

func TestGenerateMermaid_VisitedDeduplicated(t *testing.T) {
	g := structure.NewGraph(false)
	g.AddEdge("A", "B")

	got, err := graph.GenerateMermaid(g.Snapshot(), &graph.Overlay{Visited: []string{"A", "A"}})
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(got, "class v_A visited;"))
	assert.Contains(t, got, "v_A --- v_B")
}

func TestGenerateMermaid_Linear(t *testing.T) {
	_, err := graph.GenerateMermaid(structure.NewLinearSnapshot(structure.Stack, []float64{1}), nil)
	assert.ErrorIs(t, err, graph.ErrNotDrawable)
}

func TestStepOverlay(t *testing.T) {
	st := &domain.Step{
		Highlight: "C",
		Variables: domain.Vars("vertex", "C", domain.VarVisited, []string{"A", "C"}),
	}
	o := graph.StepOverlay(st)
	assert.Equal(t, "C", o.Current)
	assert.Equal(t, []string{"A", "C"}, o.Visited)
	assert.Nil(t, graph.StepOverlay(nil))
}
