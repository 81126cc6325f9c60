package runner

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/playback"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFrame() Frame {
	step := domain.Step{
		Index:       1,
		Description: "Compare 5 with 10: go left",
		Highlight:   "n0",
		Variables:   domain.Vars("current", 10.0, "direction", "left"),
	}
	return Frame{
		Operation: domain.Operation{Family: "bst", Kind: domain.KindInsert, Value: 5},
		View: playback.View{
			Index:     1,
			Len:       4,
			Status:    domain.StatusStepping,
			Step:      &step,
			Highlight: step.Highlight,
			Variables: step.Variables,
		},
	}
}

func TestTextHandler_Output(t *testing.T) {
	out := &bytes.Buffer{}
	h := NewTextHandler(strings.NewReader(""), out)

	require.NoError(t, h.Output(context.Background(), sampleFrame()))
	assert.Equal(t, "bst insert 5 [2/4 stepping]\nCompare 5 with 10: go left\n  current=10 direction=left\n", out.String())
}

func TestTextHandler_Renderers(t *testing.T) {
	out := &bytes.Buffer{}
	h := NewTextHandler(strings.NewReader(""), out,
		WithTextHandlerFrameRenderer(func(f Frame) string { return "card:" + f.View.Highlight }),
		WithTextHandlerRenderer(func(s string) (string, error) { return "Rendered: " + s, nil }),
	)

	require.NoError(t, h.Output(context.Background(), sampleFrame()))
	require.NoError(t, h.SystemOutput(context.Background(), "Committed"))
	assert.Equal(t, "card:n0\nRendered: Committed\n", out.String())
}

func TestTextHandler_Input(t *testing.T) {
	out := &bytes.Buffer{}
	h := NewTextHandler(strings.NewReader("  insert bst 5  \ngoto\x07 2\n"), out)

	val, err := h.Input(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "insert bst 5", val)

	val, err = h.Input(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "goto 2", val)

	_, err = h.Input(context.Background())
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, "> > > ", out.String())
}

func TestTextHandler_InputRetriesRejectedLine(t *testing.T) {
	t.Setenv(EnvMaxInputSize, "8")
	out := &bytes.Buffer{}
	h := NewTextHandler(strings.NewReader("insert bst 123456\nn\n"), out, WithPrompt(""))

	val, err := h.Input(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "n", val)
	assert.Contains(t, out.String(), "Please try again.")
}

func TestTextHandler_InputCancellation(t *testing.T) {
	in, feed := io.Pipe()
	defer feed.Close()
	h := NewTextHandler(in, io.Discard)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := h.Input(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
