package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONHandler_Output(t *testing.T) {
	out := &bytes.Buffer{}
	h := NewJSONHandler(strings.NewReader(""), out)

	require.NoError(t, h.Output(context.Background(), sampleFrame()))
	require.NoError(t, h.SystemOutput(context.Background(), "Aborted"))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)

	var frame Message
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &frame))
	assert.Equal(t, "frame", frame.Type)
	require.NotNil(t, frame.Frame)
	assert.Equal(t, 1, frame.Frame.View.Index)
	assert.Equal(t, domain.StatusStepping, frame.Frame.View.Status)
	assert.Equal(t, "n0", frame.Frame.View.Highlight)
	assert.Equal(t, 5.0, frame.Frame.Operation.Value)

	assert.JSONEq(t, `{"type":"system","message":"Aborted"}`, lines[1])
}

func TestJSONHandler_Input(t *testing.T) {
	in := strings.NewReader(`"insert heap 3"` + "\n" + "next\n" + `"play 50"`)
	h := NewJSONHandler(in, io.Discard)

	for _, want := range []string{"insert heap 3", "next", "play 50"} {
		val, err := h.Input(context.Background())
		require.NoError(t, err)
		assert.Equal(t, want, val)
	}
	_, err := h.Input(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestJSONHandler_InputCancelled(t *testing.T) {
	h := NewJSONHandler(strings.NewReader("next\n"), io.Discard)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.Input(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestJSONHandler_InputCancellation(t *testing.T) {
	in, feed := io.Pipe()
	defer feed.Close()
	h := NewJSONHandler(in, io.Discard)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := h.Input(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// A line written after the cancelled read is still delivered.
	go func() { _, _ = io.WriteString(feed, `"next"`+"\n") }()
	val, err := h.Input(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "next", val)
}
