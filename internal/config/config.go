// Package config loads stepwise.yaml, the optional project configuration shared
// by every command.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aretw0/stepwise/internal/logging"
	"github.com/aretw0/stepwise/pkg/persistence/middleware"
	"github.com/aretw0/stepwise/pkg/structure"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no --config flag is given.
const DefaultPath = "stepwise.yaml"

// EnvEncryptionKey overrides store.encryption_key, keeping the key out of the file.
const EnvEncryptionKey = "STEPWISE_ENCRYPTION_KEY"

// Store backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// Config is the project configuration.
type Config struct {
	// Speed is the default autoplay delay ("250ms").
	Speed         time.Duration `yaml:"speed" json:"speed"`
	HeapKind      string        `yaml:"heap_kind" json:"heap_kind"`
	DirectedGraph bool          `yaml:"directed_graph" json:"directed_graph"`
	LogLevel      string        `yaml:"log_level" json:"log_level"`
	Session       string        `yaml:"session" json:"session"`
	Store         StoreConfig   `yaml:"store" json:"store"`
}

// StoreConfig selects where session workspaces live.
type StoreConfig struct {
	Backend string `yaml:"backend" json:"backend"`

	// Path is the directory of the file store or the database file of the sqlite store.
	Path string `yaml:"path" json:"path"`

	RedisAddr     string        `yaml:"redis_addr" json:"redis_addr"`
	RedisPassword string        `yaml:"redis_password" json:"redis_password"`
	RedisDB       int           `yaml:"redis_db" json:"redis_db"`
	Prefix        string        `yaml:"prefix" json:"prefix"`
	TTL           time.Duration `yaml:"ttl" json:"ttl"`

	// Lock enables the distributed session lock (redis only).
	Lock    bool          `yaml:"lock" json:"lock"`
	LockTTL time.Duration `yaml:"lock_ttl" json:"lock_ttl"`

	// EncryptionKey (base64, 32 bytes) seals workspaces at rest with AES-GCM.
	// FallbackKeys still open workspaces sealed before a key rotation.
	EncryptionKey string   `yaml:"encryption_key" json:"encryption_key"`
	FallbackKeys  []string `yaml:"fallback_keys" json:"fallback_keys"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Speed:    500 * time.Millisecond,
		HeapKind: string(structure.MinHeap),
		LogLevel: "info",
		Session:  "default",
		Store: StoreConfig{
			Backend:   BackendMemory,
			RedisAddr: "localhost:6379",
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults unless
// the path was given explicitly (required).
func Load(path string, required bool) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		// YAML is a superset of JSON, so stepwise.json parses here as well.
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case os.IsNotExist(err) && !required:
	default:
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if key := os.Getenv(EnvEncryptionKey); key != "" {
		cfg.Store.EncryptionKey = key
	}
	return cfg, cfg.Validate()
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.Speed < 0 {
		errs = append(errs, fmt.Errorf("speed must not be negative"))
	}
	if _, err := structure.ParseHeapKind(c.HeapKind); err != nil {
		errs = append(errs, err)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if strings.TrimSpace(c.Session) == "" {
		errs = append(errs, fmt.Errorf("session must not be empty"))
	}
	switch c.Store.Backend {
	case BackendMemory, BackendFile, BackendSQLite:
		if c.Store.Lock {
			errs = append(errs, fmt.Errorf("store.lock requires the redis backend"))
		}
	case BackendRedis:
		if c.Store.RedisAddr == "" {
			errs = append(errs, fmt.Errorf("store.redis_addr is required for the redis backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store backend %q", c.Store.Backend))
	}
	if c.Store.TTL < 0 || c.Store.LockTTL < 0 {
		errs = append(errs, fmt.Errorf("store ttl must not be negative"))
	}
	if c.Store.EncryptionKey != "" {
		if _, err := middleware.DecodeKey(c.Store.EncryptionKey); err != nil {
			errs = append(errs, fmt.Errorf("store.encryption_key: %w", err))
		}
	} else if len(c.Store.FallbackKeys) > 0 {
		errs = append(errs, fmt.Errorf("store.fallback_keys requires store.encryption_key"))
	}
	for i, k := range c.Store.FallbackKeys {
		if _, err := middleware.DecodeKey(k); err != nil {
			errs = append(errs, fmt.Errorf("store.fallback_keys[%d]: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
