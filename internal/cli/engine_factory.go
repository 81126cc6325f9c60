package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/aretw0/stepwise"
	"github.com/aretw0/stepwise/internal/config"
	"github.com/aretw0/stepwise/pkg/adapters/file"
	"github.com/aretw0/stepwise/pkg/adapters/memory"
	"github.com/aretw0/stepwise/pkg/adapters/redis"
	"github.com/aretw0/stepwise/pkg/adapters/sqlite"
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/persistence/middleware"
	"github.com/aretw0/stepwise/pkg/ports"
	"github.com/aretw0/stepwise/pkg/structure"
)

// DefaultSQLitePath is used by the sqlite backend when store.path is empty.
var DefaultSQLitePath = filepath.Join(".stepwise", "stepwise.db")

// Backend is an opened workspace store and, for redis, its optional locker.
type Backend struct {
	Store  ports.WorkspaceStore
	Locker ports.DistributedLocker
	close  func() error
}

// Close releases connections held by the store.
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// OpenBackend opens the store selected by cfg, sealing workspaces when an
// encryption key is configured.
func OpenBackend(cfg config.StoreConfig) (*Backend, error) {
	b, err := openStore(cfg)
	if err != nil || cfg.EncryptionKey == "" {
		return b, err
	}

	enc := middleware.EncryptionConfig{}
	if enc.ActiveKey, err = middleware.DecodeKey(cfg.EncryptionKey); err != nil {
		return nil, errors.Join(err, b.Close())
	}
	for _, k := range cfg.FallbackKeys {
		key, err := middleware.DecodeKey(k)
		if err != nil {
			return nil, errors.Join(err, b.Close())
		}
		enc.FallbackKeys = append(enc.FallbackKeys, key)
	}
	b.Store = middleware.NewEncryptionMiddleware(enc)(b.Store)
	return b, nil
}

func openStore(cfg config.StoreConfig) (*Backend, error) {
	switch cfg.Backend {
	case "", config.BackendMemory:
		return &Backend{Store: memory.NewStore()}, nil

	case config.BackendFile:
		return &Backend{Store: file.New(cfg.Path)}, nil

	case config.BackendSQLite:
		path := cfg.Path
		if path == "" {
			path = DefaultSQLitePath
		}
		st, err := sqlite.Open(path)
		if err != nil {
			return nil, err
		}
		return &Backend{Store: st, close: st.Close}, nil

	case config.BackendRedis:
		opts := []redis.Option{redis.WithTTL(cfg.TTL)}
		if cfg.Prefix != "" {
			opts = append(opts, redis.WithPrefix(cfg.Prefix))
		}
		st := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, opts...)
		b := &Backend{Store: st, close: st.Close}
		if cfg.Lock {
			prefix := cfg.Prefix
			if prefix == "" {
				prefix = redis.DefaultPrefix
			}
			b.Locker = redis.NewLocker(st.Client(), prefix)
		}
		return b, nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
}

// NewEngine builds an engine from the configuration. The returned Backend must
// be closed by the caller.
func NewEngine(cfg config.Config, logger *slog.Logger, hooks domain.LifecycleHooks) (*stepwise.Engine, *Backend, error) {
	heapKind, err := structure.ParseHeapKind(cfg.HeapKind)
	if err != nil {
		return nil, nil, err
	}
	backend, err := OpenBackend(cfg.Store)
	if err != nil {
		return nil, nil, fmt.Errorf("error opening store: %w", err)
	}

	opts := []stepwise.Option{
		stepwise.WithLogger(logger),
		stepwise.WithLifecycleHooks(hooks),
		stepwise.WithStore(backend.Store),
		stepwise.WithHeapKind(heapKind),
		stepwise.WithDirectedGraph(cfg.DirectedGraph),
	}
	if cfg.Speed > 0 {
		opts = append(opts, stepwise.WithSpeed(cfg.Speed))
	}
	if backend.Locker != nil {
		opts = append(opts, stepwise.WithLocker(backend.Locker, cfg.Store.LockTTL))
	}

	engine, err := stepwise.New(opts...)
	if err != nil {
		return nil, nil, errors.Join(fmt.Errorf("error initializing engine: %w", err), backend.Close())
	}
	logger.Debug("engine ready", "store", cfg.Store.Backend, "heap_kind", heapKind, "directed_graph", cfg.DirectedGraph)
	return engine, backend, nil
}
