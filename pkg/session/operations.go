package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/stepwise/internal/validator"
	"github.com/aretw0/stepwise/pkg/committer"
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/ports"
	"github.com/aretw0/stepwise/pkg/structure"
)

// loadWorkspace returns the stored workspace or a fresh one. Must hold the session lock.
func (m *Manager) loadWorkspace(ctx context.Context, sessionID string) (*structure.Workspace, error) {
	ws, err := m.store.Load(ctx, sessionID)
	if err == nil {
		return ws, nil
	}
	if !errors.Is(err, domain.ErrSessionNotFound) {
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	return structure.NewWorkspace(sessionID), nil
}

// structureFor returns the family's structure in ws, creating an empty one on first use.
func structureFor(ws *structure.Workspace, f ports.Family) structure.Structure {
	s, ok := ws.Get(f.Name())
	if !ok {
		s = f.New()
		ws.Put(f.Name(), s)
	}
	return s
}

// Begin validates req, snapshots the family's structure and generates the trace.
// The trace stays pending until Resolve or Abort; a second Begin on the same
// session fails with domain.ErrOperationInProgress.
func (m *Manager) Begin(ctx context.Context, sessionID string, req domain.Request) (domain.Trace, error) {
	var tr domain.Trace
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		if p, busy := m.peekPending(sessionID); busy {
			return fmt.Errorf("%w: %s", domain.ErrOperationInProgress, p.trace.Operation)
		}

		op, err := validator.Validate(m.registry, req)
		if err != nil {
			return err
		}
		f, err := m.registry.Lookup(op.Family)
		if err != nil {
			return err
		}
		ws, err := m.loadWorkspace(ctx, sessionID)
		if err != nil {
			return err
		}

		tr, err = f.Generate(op, structureFor(ws, f).Snapshot())
		if err != nil {
			return fmt.Errorf("failed to generate trace for %s: %w", op, err)
		}
		m.setPending(sessionID, &pendingOp{trace: tr, created: m.now()})
		return nil
	})
	if err != nil {
		return domain.Trace{}, err
	}

	m.logger.Debug("trace generated", "session_id", sessionID, "operation", tr.Operation.String(), "steps", tr.Len())
	if m.hooks.OnTraceGenerated != nil {
		m.hooks.OnTraceGenerated(ctx, m.traceEvent(domain.EventTraceGenerated, sessionID, tr))
	}
	return tr, nil
}

// Pending returns the unresolved trace of a session.
func (m *Manager) Pending(sessionID string) (domain.Trace, bool) {
	p, ok := m.peekPending(sessionID)
	if !ok {
		return domain.Trace{}, false
	}
	return p.trace, true
}

// Resolve commits the pending trace to the session's workspace and persists it.
// The pending trace is consumed even when the commit fails.
func (m *Manager) Resolve(ctx context.Context, sessionID string) (committer.Result, error) {
	var res committer.Result
	var tr domain.Trace
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		p, ok := m.takePending(sessionID)
		if !ok {
			return domain.ErrNoPendingOperation
		}
		tr = p.trace

		f, err := m.registry.Lookup(tr.Family)
		if err != nil {
			return err
		}
		ws, err := m.loadWorkspace(ctx, sessionID)
		if err != nil {
			return err
		}

		res, err = committer.Commit(f, structureFor(ws, f), tr)
		if err != nil {
			return err
		}
		ws.UpdatedAt = m.now()
		if err := m.store.Save(ctx, sessionID, ws); err != nil {
			return fmt.Errorf("failed to save session %s: %w", sessionID, err)
		}
		return nil
	})
	if err != nil {
		return res, err
	}

	m.logger.Debug("trace committed", "session_id", sessionID, "operation", tr.Operation.String(),
		"outcome", res.Outcome, "mutated", res.Mutated)
	if m.hooks.OnCommit != nil {
		m.hooks.OnCommit(ctx, &domain.CommitEvent{
			EventBase: domain.EventBase{Timestamp: m.now(), Type: domain.EventCommit, SessionID: sessionID},
			Family:    tr.Family,
			Kind:      tr.Operation.Kind,
			Outcome:   res.Outcome,
			Mutated:   res.Mutated,
		})
	}
	return res, nil
}

// Abort discards the pending trace without touching the workspace.
func (m *Manager) Abort(ctx context.Context, sessionID string) error {
	p, ok := m.takePending(sessionID)
	if !ok {
		return domain.ErrNoPendingOperation
	}
	m.logger.Debug("trace aborted", "session_id", sessionID, "operation", p.trace.Operation.String())
	if m.hooks.OnAbort != nil {
		m.hooks.OnAbort(ctx, m.traceEvent(domain.EventAbort, sessionID, p.trace))
	}
	return nil
}

// Snapshot returns a read-only view of a family's structure in a session.
// Families without a structure yet report an empty one.
func (m *Manager) Snapshot(ctx context.Context, sessionID, family string) (structure.Snapshot, error) {
	f, err := m.registry.Lookup(family)
	if err != nil {
		return nil, err
	}
	var snap structure.Snapshot
	err = m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		ws, err := m.loadWorkspace(ctx, sessionID)
		if err != nil {
			return err
		}
		snap = structureFor(ws, f).Snapshot()
		return nil
	})
	return snap, err
}

// Workspace returns a copy of the session's workspace.
func (m *Manager) Workspace(ctx context.Context, sessionID string) (*structure.Workspace, error) {
	var ws *structure.Workspace
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		ws, err = m.store.Load(ctx, sessionID)
		return err
	})
	return ws, err
}

// Reset empties one family's structure, or every structure when family is "".
func (m *Manager) Reset(ctx context.Context, sessionID, family string) error {
	if family != "" {
		if _, err := m.registry.Lookup(family); err != nil {
			return err
		}
	}
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		if _, busy := m.peekPending(sessionID); busy {
			return domain.ErrOperationInProgress
		}
		ws, err := m.loadWorkspace(ctx, sessionID)
		if err != nil {
			return err
		}
		if family == "" {
			ws = structure.NewWorkspace(sessionID)
		} else {
			ws.Remove(family)
		}
		ws.UpdatedAt = m.now()
		return m.store.Save(ctx, sessionID, ws)
	})
}

// Delete removes the session and drops any pending trace.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		m.takePending(sessionID)
		return m.store.Delete(ctx, sessionID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

func (m *Manager) traceEvent(typ domain.EventType, sessionID string, tr domain.Trace) *domain.TraceEvent {
	return &domain.TraceEvent{
		EventBase: domain.EventBase{Timestamp: m.now(), Type: typ, SessionID: sessionID},
		Family:    tr.Family,
		Kind:      tr.Operation.Kind,
		Steps:     tr.Len(),
		Outcome:   tr.Outcome(),
	}
}
