package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/structure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunWorkspaceStoreContract runs a suite of tests to verify that a WorkspaceStore
// implementation adheres to the defined interface contract.
func RunWorkspaceStoreContract(t *testing.T, store WorkspaceStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	newWorkspace := func(id string) *structure.Workspace {
		ws := structure.NewWorkspace(id)
		h := structure.NewHeap(structure.MaxHeap)
		h.Replace([]float64{9, 5, 7})
		ws.Put("heap", h)
		g := structure.NewGraph(false)
		g.AddEdge("A", "B")
		ws.Put("graph", g)
		return ws
	}

	t.Run("Save and Load", func(t *testing.T) {
		ws := newWorkspace(sessionID)

		err := store.Save(ctx, sessionID, ws)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, []string{"graph", "heap"}, loaded.Families())

		h, ok := loaded.Get("heap")
		require.True(t, ok)
		assert.Equal(t, []float64{9, 5, 7}, h.Snapshot().(structure.HeapSnapshot).Array())
		assert.Equal(t, structure.MaxHeap, h.Snapshot().(structure.HeapSnapshot).HeapKind())

		g, ok := loaded.Get("graph")
		require.True(t, ok)
		assert.Equal(t, []string{"B"}, g.Snapshot().(structure.GraphSnapshot).Neighbors("A"))
	})

	t.Run("Loaded workspace is detached", func(t *testing.T) {
		ws := newWorkspace(sessionID)
		require.NoError(t, store.Save(ctx, sessionID, ws))

		// Mutating the saved value must not leak into the store.
		h, _ := ws.Get("heap")
		h.(*structure.Heap).Replace(nil)

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		lh, _ := loaded.Get("heap")
		assert.Equal(t, 3, lh.Snapshot().(structure.HeapSnapshot).Len())
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, newWorkspace(sessionID))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, newWorkspace(id1))
		_ = store.Save(ctx, id2, newWorkspace(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
