package runner

import (
	"testing"
	"time"

	"github.com/aretw0/stepwise/pkg/algorithms"
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line string
		want Command
	}{
		{"", Command{Name: CmdNext}},
		{"n", Command{Name: CmdNext}},
		{"P", Command{Name: CmdPrev}},
		{"play 250", Command{Name: CmdPlay, Args: []string{"250"}}},
		{"pause", Command{Name: CmdPause}},
		{"skip", Command{Name: CmdSkip}},
		{"goto 3", Command{Name: CmdGoto, Args: []string{"3"}}},
		{"commit", Command{Name: CmdCommit}},
		{"show avl", Command{Name: CmdShow, Args: []string{"avl"}}},
		{"q", Command{Name: CmdQuit}},
		{"insert BST 5", Command{Name: CmdOperation, Kind: domain.KindInsert, Family: "bst", Args: []string{"5"}}},
		{"extract heap", Command{Name: CmdOperation, Kind: domain.KindExtract, Family: "heap", Args: []string{}}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := ParseCommand(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCommand_Errors(t *testing.T) {
	for _, line := range []string{"goto", "goto x", "play 0", "play 1 2", "insert", "dance"} {
		_, err := ParseCommand(line)
		assert.Error(t, err, line)
	}
}

func TestCommand_Arguments(t *testing.T) {
	cmd, err := ParseCommand("play 40")
	require.NoError(t, err)
	assert.Equal(t, 40*time.Millisecond, cmd.Speed())

	cmd, err = ParseCommand("play")
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), cmd.Speed())

	cmd, err = ParseCommand("goto 7")
	require.NoError(t, err)
	assert.Equal(t, 7, cmd.Step())
}

func TestCommand_Request(t *testing.T) {
	reg := registry.NewRegistry()
	algorithms.RegisterBuiltins(reg)

	tests := []struct {
		line string
		want domain.Request
	}{
		{"insert bst 5", domain.Request{Family: "bst", Kind: domain.KindInsert, Operand: "5"}},
		{"insert graph A-B", domain.Request{Family: "graph", Kind: domain.KindInsert, Operand: "A-B"}},
		{"traverse graph A", domain.Request{Family: "graph", Kind: domain.KindTraverse, StartVertex: "A"}},
		{"traverse graph DFS A", domain.Request{Family: "graph", Kind: domain.KindTraverse, StartVertex: "A", Algorithm: "dfs"}},
		{"sort sorting quick", domain.Request{Family: "sorting", Kind: domain.KindSort, Algorithm: "quick"}},
		{"sort sorting", domain.Request{Family: "sorting", Kind: domain.KindSort}},
		{"extract stack", domain.Request{Family: "stack", Kind: domain.KindExtract}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			cmd, err := ParseCommand(tt.line)
			require.NoError(t, err)
			got, err := cmd.Request(reg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCommand_RequestErrors(t *testing.T) {
	reg := registry.NewRegistry()
	algorithms.RegisterBuiltins(reg)

	tests := []struct {
		line string
		err  error
	}{
		{"insert trie 1", domain.ErrUnknownFamily},
		{"sort bst", domain.ErrUnsupportedOperation},
		{"insert bst", nil},
		{"traverse graph", nil},
		{"extract heap 3", nil},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			cmd, err := ParseCommand(tt.line)
			require.NoError(t, err)
			_, err = cmd.Request(reg)
			require.Error(t, err)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
			}
		})
	}
}
