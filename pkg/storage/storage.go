// Package storage persists serialized builds under string keys.
//
// The engine writes one JSON document per key (by default "lego-build").
// Backends share the [Store] interface:
//   - [MemoryStore]: process-local map, used by tests and ephemeral API scenes
//   - [FileStore]: one JSON file per key under ~/.local/share/brickyard/
//   - [SQLiteStore]: a single-table SQLite database (pure Go, no cgo)
//   - [RedisStore]: Redis strings with an optional key prefix
//   - [MongoStore]: one document per key in a MongoDB collection
//
// [Open] builds a backend from [config.Storage]. [Scoped] namespaces the keys
// of an existing store, which the HTTP API uses to give each scene its own
// save slot.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/matzehuels/brickyard/pkg/config"
	errs "github.com/matzehuels/brickyard/pkg/errors"
)

// ErrNotFound is returned by Get when no value is stored under the key.
var ErrNotFound = errors.New("not found")

// Store is a key-value store for serialized builds.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores data under key, replacing any previous value.
	Set(ctx context.Context, key string, data []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases connections and file handles.
	Close() error
}

// Open creates the backend named by cfg.Backend.
func Open(ctx context.Context, cfg config.Storage) (Store, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return NewMemoryStore(), nil
	case config.BackendFile, "":
		return NewFileStore(config.ExpandHome(cfg.Dir))
	case config.BackendSQLite:
		return NewSQLiteStore(config.ExpandHome(cfg.SQLitePath))
	case config.BackendRedis:
		return NewRedisStore(ctx, RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		})
	case config.BackendMongo:
		return NewMongoStore(ctx, MongoConfig{
			URI:        cfg.MongoURI,
			Database:   cfg.MongoDatabase,
			Collection: cfg.MongoCollection,
		})
	default:
		return nil, errs.New(errs.ErrCodeInvalidConfig, "unknown storage backend %q", cfg.Backend)
	}
}

// =============================================================================
// Scoped
// =============================================================================

// ScopedStore prefixes every key before delegating to an inner store.
type ScopedStore struct {
	inner  Store
	prefix string
}

// Scoped returns a store whose keys are prefix+key in inner.
// Closing a ScopedStore does not close inner.
func Scoped(inner Store, prefix string) *ScopedStore {
	return &ScopedStore{inner: inner, prefix: prefix}
}

func (s *ScopedStore) Get(ctx context.Context, key string) ([]byte, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

func (s *ScopedStore) Set(ctx context.Context, key string, data []byte) error {
	return s.inner.Set(ctx, s.prefix+key, data)
}

func (s *ScopedStore) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, s.prefix+key)
}

func (s *ScopedStore) Close() error { return nil }

// Prefix returns the namespace prepended to keys.
func (s *ScopedStore) Prefix() string { return s.prefix }

var _ Store = (*ScopedStore)(nil)

// checkKey rejects keys that could escape a directory or collide with
// backend-specific syntax.
func checkKey(key string) error {
	if err := errs.ValidateStorageKey(key); err != nil {
		return fmt.Errorf("storage key: %w", err)
	}
	return nil
}
