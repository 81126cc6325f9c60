// Package middleware decorates a WorkspaceStore with extra behavior.
package middleware

import "github.com/aretw0/stepwise/pkg/ports"

// Middleware allows wrapping a WorkspaceStore to add behavior.
type Middleware func(ports.WorkspaceStore) ports.WorkspaceStore
