package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/aretw0/stepwise/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute_Headless(t *testing.T) {
	var out bytes.Buffer
	err := Execute(context.Background(), RunOptions{
		Config:   config.Default(),
		Headless: true,
		Input:    strings.NewReader("insert avl 2\ncommit\nshow\n"),
		Output:   &out,
	})
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Committed: outcome `inserted`, mutated true.")
	assert.Contains(t, text, "avl: inorder [2] preorder [2]")
	assert.NotContains(t, text, "Bye.")
}

func TestExecute_FreshSession(t *testing.T) {
	cfg := fileConfig(t)
	ctx := context.Background()
	require.NoError(t, Trace(ctx, &bytes.Buffer{}, TraceOptions{Config: cfg, Args: []string{"insert", "bst", "8"}, Commit: true}))

	var out bytes.Buffer
	err := Execute(ctx, RunOptions{
		Config: cfg,
		Fresh:  true,
		Input:  strings.NewReader("show bst\n"),
		Output: &out,
	})
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, ">>> Session 'trace' on the file store.")
	assert.Contains(t, text, "bst: empty")
	assert.Contains(t, text, ">>> Bye.")
}
