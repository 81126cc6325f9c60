package algorithms_test

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/aretw0/stepwise/pkg/algorithms"
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/structure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sortOp(algorithm string) domain.Operation {
	return domain.Operation{Family: algorithms.Sorting, Kind: domain.KindSort, Algorithm: algorithm}
}

func TestBubble_FourPassesForFiveElements(t *testing.T) {
	f := algorithms.NewSorting()
	arr := buildValues(t, f, 5, 3, 4, 1, 2)

	tr := play(t, f, arr, sortOp(algorithms.Bubble))
	passes := 0
	for _, st := range tr.Steps {
		if _, ok := st.Variables.Get("settled"); ok {
			passes++
		}
	}
	assert.Equal(t, 4, passes)
	assert.Equal(t, []float64{1, 2, 3, 4, 5}, terminal(t, tr).Array)
	assert.Equal(t, []float64{1, 2, 3, 4, 5}, arr.Snapshot().(structure.LinearSnapshot).Items())
	assert.Equal(t, 1, countTerminal(tr))
}

func TestBubble_NoEarlyExit(t *testing.T) {
	f := algorithms.NewSorting()
	arr := buildValues(t, f, 1, 2, 3, 4)

	tr := play(t, f, arr, sortOp(algorithms.Bubble))
	// 3+2+1 comparisons, 3 pass markers, no swaps, terminal
	assert.Len(t, tr.Steps, 10)
}

func TestSort_Correctness(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	inputs := map[string][]float64{
		"empty":    {},
		"single":   {4},
		"sorted":   {1, 2, 3, 4, 5, 6},
		"reverse":  {6, 5, 4, 3, 2, 1},
		"equal":    {7, 7, 7, 7},
		"repeated": {3, 1, 3, 2, 1, 3},
	}
	for i := 0; i < 10; i++ {
		in := make([]float64, 1+rng.Intn(20))
		for j := range in {
			in[j] = float64(rng.Intn(30) - 10)
		}
		inputs["random-"+string(rune('a'+i))] = in
	}

	for name, in := range inputs {
		for _, algo := range []string{algorithms.Bubble, algorithms.Quick} {
			t.Run(name+"/"+algo, func(t *testing.T) {
				f := algorithms.NewSorting()
				arr := buildValues(t, f, in...)
				want := slices.Clone(in)
				slices.Sort(want)

				tr := play(t, f, arr, sortOp(algo))
				last := terminal(t, tr)
				assert.Equal(t, domain.OutcomeComplete, last.Outcome)
				assert.True(t, slices.Equal(want, last.Array), "got %v want %v", last.Array, want)
				require.NoError(t, f.Verify(arr, last))
			})
		}
	}
}

func TestQuick_SmallTrace(t *testing.T) {
	f := algorithms.NewSorting()
	arr := buildValues(t, f, 3, 1, 2)

	tr := play(t, f, arr, sortOp(algorithms.Quick))
	var msgs []string
	for _, st := range tr.Steps {
		msgs = append(msgs, st.Message)
	}
	assert.Equal(t, []string{"pivot", "compare", "compare", "swap", "pivot placed", "skip", "skip", "sorted"}, msgs)
	partitions, _ := terminal(t, tr).Variables.Get("partitions")
	assert.Equal(t, 1, partitions)
}

func TestQuick_DeepInputDoesNotRecurse(t *testing.T) {
	f := algorithms.NewSorting()
	in := make([]float64, 120)
	for i := range in {
		in[i] = float64(i)
	}
	arr := buildValues(t, f, in...)

	tr := play(t, f, arr, sortOp(algorithms.Quick))
	assert.Equal(t, in, terminal(t, tr).Array)
}

func TestSorting_Append(t *testing.T) {
	f := algorithms.NewSorting()
	arr := buildValues(t, f, 2)
	tr := play(t, f, arr, insertOp(algorithms.Sorting, 9))
	assert.Equal(t, []float64{2, 9}, terminal(t, tr).Array)
	assert.Equal(t, "1", terminal(t, tr).Highlight)
}
