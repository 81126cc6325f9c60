package ports

import (
	"context"

	"github.com/aretw0/stepwise/pkg/structure"
)

// WorkspaceStore persists the authoritative structures of a session.
// Traces are never stored: replaying an old session regenerates them.
type WorkspaceStore interface {
	// Save persists the workspace for a given session ID.
	Save(ctx context.Context, sessionID string, ws *structure.Workspace) error

	// Load retrieves the workspace for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*structure.Workspace, error)

	// Delete removes the workspace for a given session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of all stored sessions.
	List(ctx context.Context) ([]string, error)
}
