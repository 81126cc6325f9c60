package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessions(t *testing.T) {
	cfg := fileConfig(t)
	ctx := context.Background()

	var out bytes.Buffer
	require.NoError(t, ListSessions(ctx, &out, cfg.Store))
	assert.Equal(t, "No sessions found.\n", out.String())

	require.NoError(t, Trace(ctx, &bytes.Buffer{}, TraceOptions{Config: cfg, Args: []string{"insert", "queue", "4"}, Commit: true}))

	out.Reset()
	require.NoError(t, ListSessions(ctx, &out, cfg.Store))
	assert.Equal(t, "Sessions:\n- trace\n", out.String())

	out.Reset()
	require.NoError(t, InspectSession(ctx, &out, cfg.Store, "trace"))
	assert.Contains(t, out.String(), `"id": "trace"`)
	assert.Contains(t, out.String(), `"queue"`)

	out.Reset()
	require.NoError(t, RemoveSessions(ctx, &out, cfg.Store, "trace"))
	assert.Equal(t, "Removed session 'trace'\n", out.String())

	err := InspectSession(ctx, &bytes.Buffer{}, cfg.Store, "trace")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}
