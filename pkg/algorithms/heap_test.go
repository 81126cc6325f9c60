package algorithms_test

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/stepwise/pkg/algorithms"
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/structure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var extractOp = domain.Operation{Family: algorithms.Heap, Kind: domain.KindExtract}

func TestHeap_MinInsertSequence(t *testing.T) {
	f := algorithms.NewHeap(structure.MinHeap)
	h := f.New()
	var tr domain.Trace
	for _, v := range []float64{5, 3, 8, 1} {
		tr = play(t, f, h, insertOp(algorithms.Heap, v))
	}

	last := terminal(t, tr)
	assert.Equal(t, []float64{1, 3, 8, 5}, last.Array)
	assert.Equal(t, "0", last.Highlight)
	assert.Equal(t, []float64{1, 3, 8, 5}, h.Snapshot().(structure.HeapSnapshot).Array())

	// append, two compare/swap pairs, terminal
	require.Len(t, tr.Steps, 6)
	assert.Equal(t, []float64{3, 5, 8, 1}, tr.Steps[0].Array)
	assert.Equal(t, []float64{3, 1, 8, 5}, tr.Steps[2].Array)
}

func TestHeap_Extract(t *testing.T) {
	f := algorithms.NewHeap(structure.MinHeap)
	h := buildValues(t, f, 5, 3, 8, 1)

	tr := play(t, f, h, extractOp)
	last := terminal(t, tr)
	assert.Equal(t, domain.OutcomeRemoved, last.Outcome)
	v, _ := last.Variables.Get("value")
	assert.Equal(t, 1.0, v)
	assert.Equal(t, []float64{3, 5, 8}, last.Array)
	assert.Len(t, tr.Steps, 5)
	assert.Equal(t, []float64{3, 5, 8}, h.Snapshot().(structure.HeapSnapshot).Array())
}

func TestHeap_MaxPrefersLeftChildOnTie(t *testing.T) {
	f := algorithms.NewHeap(structure.MaxHeap)
	h := buildValues(t, f, 9, 5, 5, 1)
	require.Equal(t, []float64{9, 5, 5, 1}, h.Snapshot().(structure.HeapSnapshot).Array())

	tr := play(t, f, h, extractOp)
	var swaps []string
	for _, st := range tr.Steps {
		if st.Message == "swap" {
			swaps = append(swaps, st.Highlight)
		}
	}
	// root/leaf swap, then the sift-down swap into the left child
	assert.Equal(t, []string{"0", "1"}, swaps)
	assert.Equal(t, []float64{5, 1, 5}, terminal(t, tr).Array)
}

func TestHeap_Underflow(t *testing.T) {
	f := algorithms.NewHeap(structure.MinHeap)
	h := f.New()

	tr := play(t, f, h, extractOp)
	require.Len(t, tr.Steps, 1)
	assert.True(t, tr.Steps[0].Terminal)
	assert.Equal(t, domain.OutcomeUnderflow, tr.Outcome())
	assert.Equal(t, 0, h.Snapshot().(structure.HeapSnapshot).Len())
}

func TestHeap_OrderStaysValid(t *testing.T) {
	for _, kind := range []structure.HeapKind{structure.MinHeap, structure.MaxHeap} {
		f := algorithms.NewHeap(kind)
		h := buildValues(t, f, 4, 9, 2, 7, 7, 1, 8, 3, 6, 5)
		var out []float64
		for i := 0; i < 10; i++ {
			require.True(t, h.Snapshot().(structure.HeapSnapshot).Valid())
			v, _ := terminal(t, play(t, f, h, extractOp)).Variables.Get("value")
			out = append(out, v.(float64))
		}
		if kind == structure.MinHeap {
			assert.IsNonDecreasing(t, out)
		} else {
			assert.IsNonIncreasing(t, out)
		}
	}
}

func TestHeap_EmptiedFrameSurvivesJSON(t *testing.T) {
	f := algorithms.NewHeap(structure.MinHeap)
	h := buildValues(t, f, 4)

	for _, want := range []domain.Outcome{domain.OutcomeRemoved, domain.OutcomeUnderflow} {
		tr := play(t, f, h, extractOp)
		require.Equal(t, want, tr.Outcome())

		raw, err := json.Marshal(terminal(t, tr))
		require.NoError(t, err)
		assert.Contains(t, string(raw), `"array":[]`, "%s step", want)
	}
}
