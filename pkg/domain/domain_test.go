package domain_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRequest(t *testing.T) {
	req, err := domain.DecodeRequest(map[string]any{
		"family":       "graph",
		"kind":         "traverse",
		"start_vertex": "A",
		"algorithm":    "bfs",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.Request{Family: "graph", Kind: domain.KindTraverse, StartVertex: "A", Algorithm: "bfs"}, req)

	req, err = domain.DecodeRequest(map[string]any{"family": "bst", "kind": "insert", "operand": 42.0})
	require.NoError(t, err)
	assert.Equal(t, "42", req.Operand)

	_, err = domain.DecodeRequest(map[string]any{"family": []int{1}})
	assert.Error(t, err)
}

func TestInputError(t *testing.T) {
	err := error(&domain.InputError{Field: "operand", Value: "five", Reason: "must be a number"})
	assert.True(t, errors.Is(err, domain.ErrInvalidOperand))
	assert.Equal(t, `operand "five": must be a number`, err.Error())

	err = &domain.InputError{Field: "operand", Reason: "is required"}
	assert.Equal(t, "operand: is required", err.Error())
}

func TestVariables(t *testing.T) {
	vars := domain.Vars("current", 7.0, "path", []float64{1, 2.5}, "next", nil)
	assert.Equal(t, "current=7 path=[1 2.5] next=none", vars.String())

	v, ok := vars.Get("current")
	require.True(t, ok)
	assert.Equal(t, 7.0, v)
	_, ok = vars.Get("missing")
	assert.False(t, ok)
}

func TestOperationString(t *testing.T) {
	tests := []struct {
		op   domain.Operation
		want string
	}{
		{domain.Operation{Family: "bst", Kind: domain.KindInsert, Value: 10}, "bst insert 10"},
		{domain.Operation{Family: "graph", Kind: domain.KindInsert, From: "A", To: "B"}, "graph insert A-B"},
		{domain.Operation{Family: "graph", Kind: domain.KindTraverse, Vertex: "A", Algorithm: "dfs"}, "graph traverse dfs from A"},
		{domain.Operation{Family: "sorting", Kind: domain.KindSort, Algorithm: "quick"}, "sorting sort quick"},
		{domain.Operation{Family: "heap", Kind: domain.KindExtract}, "heap extract"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.op.String())
	}
	assert.True(t, domain.KindSort.Mutating())
	assert.False(t, domain.KindSearch.Mutating())
	assert.False(t, domain.OutcomeDuplicate.Mutates())
}

func TestStep_ArrayFrameEncoding(t *testing.T) {
	empty, err := json.Marshal(domain.Step{Message: "underflow", Array: []float64{}})
	require.NoError(t, err)
	assert.Contains(t, string(empty), `"array":[]`)

	none, err := json.Marshal(domain.Step{Message: "inserted"})
	require.NoError(t, err)
	assert.Contains(t, string(none), `"array":null`)

	var back domain.Step
	require.NoError(t, json.Unmarshal(empty, &back))
	assert.NotNil(t, back.Array)
	assert.Empty(t, back.Array)
}
