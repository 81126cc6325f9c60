package algorithms

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/structure"
)

// Family tags of the built-in families.
const (
	BST     = "bst"
	AVL     = "avl"
	Heap    = "heap"
	Graph   = "graph"
	Sorting = "sorting"
	Stack   = "stack"
	Queue   = "queue"
)

// Algorithm names accepted by the traverse and sort operations.
const (
	BFS    = "bfs"
	DFS    = "dfs"
	Bubble = "bubble"
	Quick  = "quick"
)

// recorder accumulates the steps of one trace.
type recorder struct {
	family string
	op     domain.Operation
	steps  []domain.Step
}

func newRecorder(family string, op domain.Operation) *recorder {
	return &recorder{family: family, op: op}
}

func (r *recorder) add(st domain.Step) {
	st.Index = len(r.steps)
	r.steps = append(r.steps, st)
}

// done appends the terminal step and returns the finished trace.
func (r *recorder) done(st domain.Step) domain.Trace {
	st.Terminal = true
	r.add(st)
	return domain.Trace{Family: r.family, Operation: r.op, Steps: r.steps}
}

// frame copies an array so later writes do not leak into recorded steps.
// An empty array is recorded as an empty, non-nil frame.
func frame(a []float64) []float64 {
	out := make([]float64, len(a))
	copy(out, a)
	return out
}

func nodeRef(id structure.NodeID) string {
	if id == structure.Nil {
		return ""
	}
	return "n" + strconv.Itoa(int(id))
}

func indexRef(i int) string { return strconv.Itoa(i) }

func fv(v float64) string { return domain.FormatValue(v) }

func mismatch(family string, want structure.Kind, snap structure.Snapshot) error {
	return fmt.Errorf("%w: %s needs a %s snapshot, got %T", domain.ErrSnapshotMismatch, family, want, snap)
}

func unsupported(family string, kind domain.Kind) error {
	return fmt.Errorf("%w: %s %s", domain.ErrUnsupportedOperation, family, kind)
}

// verifyArray checks the array frame of a terminal step against the committed contents.
func verifyArray(family string, actual []float64, terminal domain.Step) error {
	if terminal.Array == nil {
		return nil
	}
	if !slices.Equal(actual, terminal.Array) {
		return fmt.Errorf("%w: %s holds %s, trace ended with %s", domain.ErrInconsistentCommit,
			family, domain.FormatValues(actual), domain.FormatValues(terminal.Array))
	}
	return nil
}
