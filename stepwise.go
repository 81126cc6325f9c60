package stepwise

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/stepwise/internal/logging"
	"github.com/aretw0/stepwise/pkg/adapters/memory"
	"github.com/aretw0/stepwise/pkg/algorithms"
	"github.com/aretw0/stepwise/pkg/committer"
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/playback"
	"github.com/aretw0/stepwise/pkg/ports"
	"github.com/aretw0/stepwise/pkg/registry"
	"github.com/aretw0/stepwise/pkg/session"
	"github.com/aretw0/stepwise/pkg/structure"
)

// Engine is the high-level entry point for the Stepwise library.
// It wires the family registry, the session manager and playback into one API.
type Engine struct {
	registry    *registry.Registry
	manager     *session.Manager
	store       ports.WorkspaceStore
	locker      ports.DistributedLocker
	lockTTL     time.Duration
	familyOpts  []algorithms.Option
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	speed       time.Duration
	skipBuiltin bool
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithStore sets where session workspaces are persisted (in memory by default).
func WithStore(store ports.WorkspaceStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithLocker enables distributed session locking.
func WithLocker(locker ports.DistributedLocker, ttl time.Duration) Option {
	return func(e *Engine) {
		e.locker = locker
		e.lockTTL = ttl
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithRegistry replaces the built-in families with a caller-provided registry.
func WithRegistry(reg *registry.Registry) Option {
	return func(e *Engine) {
		e.registry = reg
		e.skipBuiltin = true
	}
}

// WithHeapKind sets the ordering of new heaps.
func WithHeapKind(kind structure.HeapKind) Option {
	return func(e *Engine) {
		e.familyOpts = append(e.familyOpts, algorithms.WithHeapKind(kind))
	}
}

// WithDirectedGraph makes new graphs directed.
func WithDirectedGraph(directed bool) Option {
	return func(e *Engine) {
		e.familyOpts = append(e.familyOpts, algorithms.WithDirectedGraph(directed))
	}
}

// WithSpeed sets the default autoplay delay of players created by NewPlayer.
func WithSpeed(d time.Duration) Option {
	return func(e *Engine) {
		e.speed = d
	}
}

// New initializes a new Stepwise Engine with the built-in families.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{speed: playback.DefaultSpeed}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.registry == nil {
		eng.registry = registry.NewRegistry()
	}
	if !eng.skipBuiltin {
		algorithms.RegisterBuiltins(eng.registry, eng.familyOpts...)
	}
	if len(eng.registry.Names()) == 0 {
		return nil, fmt.Errorf("no algorithm families registered")
	}
	if eng.store == nil {
		eng.store = memory.NewStore()
	}
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	sessionOpts := []session.Option{
		session.WithLogger(eng.logger),
		session.WithLifecycleHooks(eng.hooks),
	}
	if eng.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(eng.locker))
		if eng.lockTTL > 0 {
			sessionOpts = append(sessionOpts, session.WithLockTTL(eng.lockTTL))
		}
	}
	eng.manager = session.NewManager(eng.store, eng.registry, sessionOpts...)
	return eng, nil
}

// FamilyInfo describes a registered family for help screens and agent tool listings.
type FamilyInfo struct {
	Name       string                 `json:"name"`
	Operations []domain.OperationSpec `json:"operations"`
}

// Families lists the registered families, sorted by name.
func (e *Engine) Families() []FamilyInfo {
	names := e.registry.Names()
	out := make([]FamilyInfo, 0, len(names))
	for _, name := range names {
		f, err := e.registry.Lookup(name)
		if err != nil {
			continue
		}
		out = append(out, FamilyInfo{Name: name, Operations: f.Operations()})
	}
	return out
}

// Begin validates req and generates its trace against the session's structure.
// The structure is not changed until Resolve.
func (e *Engine) Begin(ctx context.Context, sessionID string, req domain.Request) (domain.Trace, error) {
	return e.manager.Begin(ctx, sessionID, req)
}

// Resolve commits the session's pending trace.
func (e *Engine) Resolve(ctx context.Context, sessionID string) (committer.Result, error) {
	return e.manager.Resolve(ctx, sessionID)
}

// Abort discards the session's pending trace.
func (e *Engine) Abort(ctx context.Context, sessionID string) error {
	return e.manager.Abort(ctx, sessionID)
}

// Pending returns the session's unresolved trace, if any.
func (e *Engine) Pending(sessionID string) (domain.Trace, bool) {
	return e.manager.Pending(sessionID)
}

// Apply runs Begin and Resolve back to back, for hosts that do not animate.
func (e *Engine) Apply(ctx context.Context, sessionID string, req domain.Request) (domain.Trace, committer.Result, error) {
	tr, err := e.Begin(ctx, sessionID, req)
	if err != nil {
		return domain.Trace{}, committer.Result{}, err
	}
	res, err := e.Resolve(ctx, sessionID)
	return tr, res, err
}

// Snapshot returns a read-only view of one family's structure.
func (e *Engine) Snapshot(ctx context.Context, sessionID, family string) (structure.Snapshot, error) {
	return e.manager.Snapshot(ctx, sessionID, family)
}

// Workspace returns a copy of every structure stored for the session.
func (e *Engine) Workspace(ctx context.Context, sessionID string) (*structure.Workspace, error) {
	return e.manager.Workspace(ctx, sessionID)
}

// Reset empties one family's structure, or all of them when family is "".
func (e *Engine) Reset(ctx context.Context, sessionID, family string) error {
	return e.manager.Reset(ctx, sessionID, family)
}

// Delete removes the session.
func (e *Engine) Delete(ctx context.Context, sessionID string) error {
	return e.manager.Delete(ctx, sessionID)
}

// List returns the stored session IDs.
func (e *Engine) List(ctx context.Context) ([]string, error) {
	return e.manager.List(ctx)
}

// NewPlayer creates a playback controller that reports to the engine's hooks and logger.
// Extra options are applied after the engine defaults.
func (e *Engine) NewPlayer(sessionID string, opts ...playback.Option) *playback.Controller {
	base := []playback.Option{
		playback.WithSessionID(sessionID),
		playback.WithLifecycleHooks(e.hooks),
		playback.WithLogger(e.logger),
		playback.WithSpeed(e.speed),
	}
	return playback.New(append(base, opts...)...)
}

// Registry returns the family registry.
func (e *Engine) Registry() *registry.Registry {
	return e.registry
}

// Logger returns the engine logger.
func (e *Engine) Logger() *slog.Logger {
	return e.logger
}
