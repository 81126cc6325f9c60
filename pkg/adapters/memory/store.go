package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/structure"
)

// Store implements ports.WorkspaceStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*structure.Workspace
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*structure.Workspace),
	}
}

// Save persists a copy of the workspace in memory.
func (s *Store) Save(ctx context.Context, sessionID string, ws *structure.Workspace) error {
	// Deep copy to ensure isolation, similar to serialization
	copied, err := ws.Clone()
	if err != nil {
		return fmt.Errorf("failed to copy workspace: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sessionID] = copied
	return nil
}

// Load retrieves a copy of the workspace from memory.
func (s *Store) Load(ctx context.Context, sessionID string) (*structure.Workspace, error) {
	s.mu.RLock()
	ws, ok := s.data[sessionID]
	s.mu.RUnlock()

	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	// Create a copy on read so caller can't mutate store state directly by pointer
	return ws.Clone()
}

// Delete removes the workspace.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

// List returns stored sessions.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]string, 0, len(s.data))
	for id := range s.data {
		sessions = append(sessions, id)
	}
	return sessions, nil
}
