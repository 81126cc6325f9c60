package algorithms_test

import (
	"testing"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/ports"
	"github.com/aretw0/stepwise/pkg/structure"
	"github.com/stretchr/testify/require"
)

func insertOp(family string, v float64) domain.Operation {
	return domain.Operation{Family: family, Kind: domain.KindInsert, Value: v}
}

// build commits every op to a fresh structure of family f.
func build(t *testing.T, f ports.Family, ops ...domain.Operation) structure.Structure {
	t.Helper()
	s := f.New()
	for _, op := range ops {
		require.NoError(t, f.Commit(op, s), "seed %s", op)
	}
	return s
}

func buildValues(t *testing.T, f ports.Family, vs ...float64) structure.Structure {
	t.Helper()
	ops := make([]domain.Operation, len(vs))
	for i, v := range vs {
		ops[i] = insertOp(f.Name(), v)
	}
	return build(t, f, ops...)
}

// play generates a trace against s, then commits it the way the session manager does.
func play(t *testing.T, f ports.Family, s structure.Structure, op domain.Operation) domain.Trace {
	t.Helper()
	tr, err := f.Generate(op, s.Snapshot())
	require.NoError(t, err)
	if op.Kind.Mutating() && tr.Outcome().Mutates() {
		require.NoError(t, f.Commit(op, s))
	}
	return tr
}

func terminal(t *testing.T, tr domain.Trace) domain.Step {
	t.Helper()
	st, ok := tr.Terminal()
	require.True(t, ok, "trace has no terminal step")
	return st
}

func countTerminal(tr domain.Trace) int {
	n := 0
	for _, st := range tr.Steps {
		if st.Terminal {
			n++
		}
	}
	return n
}
