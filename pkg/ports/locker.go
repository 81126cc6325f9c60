package ports

import (
	"context"
	"time"
)

// ReleaseFunc gives up a workspace lock obtained from a DistributedLocker.
type ReleaseFunc func(ctx context.Context) error

// DistributedLocker serialises Begin, Resolve and Abort on one session workspace
// across engine replicas that share a WorkspaceStore.
//
// Lock blocks until the lock on sessionID is held or ctx is done. The lock
// expires on its own after ttl so a crashed replica cannot wedge a session.
// The caller must call the returned ReleaseFunc once the workspace is saved.
type DistributedLocker interface {
	Lock(ctx context.Context, sessionID string, ttl time.Duration) (ReleaseFunc, error)
}
