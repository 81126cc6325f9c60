package algorithms_test

import (
	"math/rand"
	"testing"

	"github.com/aretw0/stepwise/pkg/algorithms"
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/structure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checkAVL walks the tree and asserts balance and recorded heights. It returns
// the true height of id.
func checkAVL(t *testing.T, s structure.TreeSnapshot, id structure.NodeID) int {
	t.Helper()
	if id == structure.Nil {
		return 0
	}
	lh := checkAVL(t, s, s.Left(id))
	rh := checkAVL(t, s, s.Right(id))
	h := 1 + max(lh, rh)
	assert.Equal(t, h, s.Height(id), "recorded height of %v", s.Value(id))
	assert.LessOrEqual(t, lh-rh, 1, "balance of %v", s.Value(id))
	assert.GreaterOrEqual(t, lh-rh, -1, "balance of %v", s.Value(id))
	return h
}

func TestAVL_RotatesLeftOnAscendingInserts(t *testing.T) {
	f := algorithms.NewAVL()
	tree := buildValues(t, f, 10, 20).(*structure.Tree)

	tr := play(t, f, tree, insertOp(algorithms.AVL, 30))
	last := terminal(t, tr)
	assert.Equal(t, domain.OutcomeInserted, last.Outcome)

	var rotations []domain.Step
	for _, st := range tr.Steps {
		if v, ok := st.Variables.Get("rotation"); ok {
			assert.Equal(t, "rotate-left", v)
			rotations = append(rotations, st)
		}
	}
	require.Len(t, rotations, 1)
	pivot, _ := rotations[0].Variables.Get("pivot")
	newRoot, _ := rotations[0].Variables.Get("new_root")
	moved, _ := rotations[0].Variables.Get("moved")
	assert.Equal(t, 10.0, pivot)
	assert.Equal(t, 20.0, newRoot)
	assert.Nil(t, moved)

	snap := tree.TreeSnapshot()
	root := snap.Root()
	assert.Equal(t, 20.0, snap.Value(root))
	assert.Equal(t, 10.0, snap.Value(snap.Left(root)))
	assert.Equal(t, 30.0, snap.Value(snap.Right(root)))

	pre, _ := last.Variables.Get(domain.VarPreorder)
	assert.Equal(t, []float64{20, 10, 30}, pre)
}

func TestAVL_DoubleRotationEmitsTwoSteps(t *testing.T) {
	f := algorithms.NewAVL()
	tree := buildValues(t, f, 30, 10).(*structure.Tree)

	tr := play(t, f, tree, insertOp(algorithms.AVL, 20))
	require.Len(t, tr.Steps, 8)

	var kinds []any
	for _, st := range tr.Steps {
		if v, ok := st.Variables.Get("rotation"); ok {
			c, _ := st.Variables.Get("case")
			assert.Equal(t, "LR", c)
			kinds = append(kinds, v)
		}
	}
	assert.Equal(t, []any{"rotate-left", "rotate-right"}, kinds)

	rotations, _ := terminal(t, tr).Variables.Get("rotations")
	assert.Equal(t, 2, rotations)
	assert.Equal(t, []float64{20, 10, 30}, tree.TreeSnapshot().PreOrder())
}

func TestAVL_InvariantHolds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	sequences := map[string][]float64{
		"ascending":  make([]float64, 50),
		"descending": make([]float64, 50),
		"random":     make([]float64, 0, 50),
	}
	for i := 0; i < 50; i++ {
		sequences["ascending"][i] = float64(i)
		sequences["descending"][i] = float64(50 - i)
	}
	for _, v := range rng.Perm(200)[:50] {
		sequences["random"] = append(sequences["random"], float64(v))
	}

	for name, seq := range sequences {
		t.Run(name, func(t *testing.T) {
			f := algorithms.NewAVL()
			tree := f.New().(*structure.Tree)
			for _, v := range seq {
				tr := play(t, f, tree, insertOp(algorithms.AVL, v))
				require.NoError(t, f.Verify(tree, terminal(t, tr)))
			}
			snap := tree.TreeSnapshot()
			h := checkAVL(t, snap, snap.Root())
			assert.LessOrEqual(t, h, 8, "50 keys fit in an AVL tree of height <= 8")
			assert.Len(t, snap.InOrder(), 50)
			assert.IsIncreasing(t, snap.InOrder())
		})
	}
}

func TestBST_SearchMissing(t *testing.T) {
	f := algorithms.NewBST()
	tree := buildValues(t, f, 10, 5, 15)
	before := tree.Snapshot()

	tr := play(t, f, tree, domain.Operation{Family: algorithms.BST, Kind: domain.KindSearch, Value: 99})
	require.Len(t, tr.Steps, 3)
	assert.Equal(t, 1, countTerminal(tr))

	for i, want := range []float64{10, 15} {
		cur, _ := tr.Steps[i].Variables.Get("current")
		cmp, _ := tr.Steps[i].Variables.Get("cmp")
		assert.Equal(t, want, cur)
		assert.Equal(t, ">", cmp)
	}
	last := terminal(t, tr)
	assert.Equal(t, domain.OutcomeNotFound, last.Outcome)
	visited, _ := last.Variables.Get("visited")
	assert.Equal(t, []float64{10, 15}, visited)
	assert.Equal(t, before, tree.Snapshot())
}

func TestBST_Insert(t *testing.T) {
	f := algorithms.NewBST()
	tree := buildValues(t, f, 10, 5)

	tr := play(t, f, tree, insertOp(algorithms.BST, 7))
	require.Len(t, tr.Steps, 3)
	last := terminal(t, tr)
	assert.Equal(t, "Insert 7 as right child of 5", last.Description)
	parent, _ := last.Variables.Get("parent")
	side, _ := last.Variables.Get("side")
	assert.Equal(t, 5.0, parent)
	assert.Equal(t, "right", side)
	assert.Equal(t, "n2", last.Highlight)
	assert.Equal(t, []float64{10, 5, 7}, tree.(*structure.Tree).TreeSnapshot().PreOrder())
}

func TestBST_InsertIntoEmptyTree(t *testing.T) {
	f := algorithms.NewBST()
	tr := play(t, f, f.New(), insertOp(algorithms.BST, 4))
	require.Len(t, tr.Steps, 1)
	side, _ := tr.Steps[0].Variables.Get("side")
	assert.Equal(t, "root", side)
}

func TestBST_DuplicateIsNotInserted(t *testing.T) {
	f := algorithms.NewBST()
	tree := buildValues(t, f, 10, 5)
	before := tree.Snapshot()

	tr := play(t, f, tree, insertOp(algorithms.BST, 5))
	last := terminal(t, tr)
	assert.Equal(t, domain.OutcomeDuplicate, last.Outcome)
	assert.Equal(t, "n1", last.Highlight)
	assert.Equal(t, 1, countTerminal(tr))
	assert.Equal(t, before, tree.Snapshot())
}

func TestTree_RejectsWrongSnapshot(t *testing.T) {
	_, err := algorithms.NewBST().Generate(insertOp(algorithms.BST, 1), structure.NewHeap(structure.MinHeap).Snapshot())
	assert.ErrorIs(t, err, domain.ErrSnapshotMismatch)

	_, err = algorithms.NewBST().Generate(domain.Operation{Kind: domain.KindSort}, structure.NewTree().Snapshot())
	assert.ErrorIs(t, err, domain.ErrUnsupportedOperation)
}

func TestAVL_TerminalReportsCommittedPlacement(t *testing.T) {
	tests := []struct {
		name       string
		seed       []float64
		insert     float64
		parent     any
		side       string
		attachedTo float64
	}{
		{name: "LR becomes root", seed: []float64{30, 10}, insert: 20, parent: nil, side: "root", attachedTo: 10},
		{name: "RL becomes root", seed: []float64{10, 30}, insert: 20, parent: nil, side: "root", attachedTo: 30},
		{name: "RR keeps parent", seed: []float64{10, 20}, insert: 30, parent: 20.0, side: "right", attachedTo: 20},
		{name: "LR moves under new parent", seed: []float64{50, 30, 70, 20, 40}, insert: 35, parent: 30.0, side: "right", attachedTo: 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := algorithms.NewAVL()
			tree := buildValues(t, f, tt.seed...).(*structure.Tree)

			last := terminal(t, play(t, f, tree, insertOp(algorithms.AVL, tt.insert)))
			parent, _ := last.Variables.Get("parent")
			side, _ := last.Variables.Get("side")
			attached, _ := last.Variables.Get("attached_to")
			assert.Equal(t, tt.parent, parent)
			assert.Equal(t, tt.side, side)
			assert.Equal(t, tt.attachedTo, attached)
			require.NoError(t, f.Verify(tree, last))

			snap := tree.TreeSnapshot()
			if tt.side == "root" {
				assert.Equal(t, tt.insert, snap.Value(snap.Root()))
			}
		})
	}
}

func TestTree_VerifyRejectsWrongPlacement(t *testing.T) {
	f := algorithms.NewAVL()
	tree := buildValues(t, f, 30, 10, 20).(*structure.Tree)

	stale := domain.Step{
		Terminal: true,
		Outcome:  domain.OutcomeInserted,
		Variables: domain.Vars("value", 20.0, "parent", 10.0, "side", "right",
			domain.VarPreorder, []float64{20, 10, 30}),
	}
	err := f.Verify(tree, stale)
	assert.ErrorIs(t, err, domain.ErrInconsistentCommit)
	assert.Contains(t, err.Error(), "20 is the root")
}
