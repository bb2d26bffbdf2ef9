// Package observability provides hooks for metrics and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks
// at startup to receive events about engine operations and storage access.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Hook interfaces for each event category
//   - No-op default implementations
//   - A registry for custom implementations, set once by main
//
// [LogHooks] is the implementation used by the CLI: it writes every event to
// a charmbracelet/log logger at debug level and failures at warn level.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    hooks := observability.NewLogHooks(logger)
//	    observability.SetEngineHooks(hooks)
//	    observability.SetStorageHooks(hooks)
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Engine().OnApplied("place", 12)
//	observability.Storage().OnSet(ctx, "file", key, len(data), elapsed, err)
package observability

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// =============================================================================
// Engine Hooks
// =============================================================================

// EngineHooks receives events from the builder engine.
type EngineHooks interface {
	// OnApplied records an operation that changed state. bricks is the
	// scene size afterwards.
	OnApplied(op string, bricks int)

	// OnIgnored records an operation whose precondition was not met.
	OnIgnored(op string, reason string)

	// OnPersist records the outcome of a save or load.
	OnPersist(ctx context.Context, op, key string, bricks int, duration time.Duration, err error)
}

// =============================================================================
// Storage Hooks
// =============================================================================

// StorageHooks receives events from storage backends.
type StorageHooks interface {
	// OnGet records a read. found is false for absent keys.
	OnGet(ctx context.Context, backend, key string, found bool, duration time.Duration, err error)

	// OnSet records a write of size bytes.
	OnSet(ctx context.Context, backend, key string, size int, duration time.Duration, err error)

	// OnDelete records a removal.
	OnDelete(ctx context.Context, backend, key string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopEngineHooks is a no-op implementation of EngineHooks.
type NoopEngineHooks struct{}

func (NoopEngineHooks) OnApplied(string, int)    {}
func (NoopEngineHooks) OnIgnored(string, string) {}
func (NoopEngineHooks) OnPersist(context.Context, string, string, int, time.Duration, error) {
}

// NoopStorageHooks is a no-op implementation of StorageHooks.
type NoopStorageHooks struct{}

func (NoopStorageHooks) OnGet(context.Context, string, string, bool, time.Duration, error) {}
func (NoopStorageHooks) OnSet(context.Context, string, string, int, time.Duration, error)  {}
func (NoopStorageHooks) OnDelete(context.Context, string, string, error)                   {}

// =============================================================================
// Log Implementation
// =============================================================================

// LogHooks writes events to a charmbracelet/log logger. It implements both
// EngineHooks and StorageHooks.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to l. A nil logger means log.Default().
func NewLogHooks(l *log.Logger) *LogHooks {
	if l == nil {
		l = log.Default()
	}
	return &LogHooks{logger: l}
}

func (h *LogHooks) OnApplied(op string, bricks int) {
	h.logger.Debug("applied", "op", op, "bricks", bricks)
}

func (h *LogHooks) OnIgnored(op string, reason string) {
	h.logger.Debug("ignored", "op", op, "reason", reason)
}

func (h *LogHooks) OnPersist(ctx context.Context, op, key string, bricks int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn(op+" failed", "key", key, "err", err)
		return
	}
	h.logger.Info(op, "key", key, "bricks", bricks, "took", d.Round(time.Millisecond))
}

func (h *LogHooks) OnGet(ctx context.Context, backend, key string, found bool, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("storage get failed", "backend", backend, "key", key, "err", err)
		return
	}
	h.logger.Debug("storage get", "backend", backend, "key", key, "found", found, "took", d)
}

func (h *LogHooks) OnSet(ctx context.Context, backend, key string, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("storage set failed", "backend", backend, "key", key, "err", err)
		return
	}
	h.logger.Debug("storage set", "backend", backend, "key", key, "bytes", size, "took", d)
}

func (h *LogHooks) OnDelete(ctx context.Context, backend, key string, err error) {
	if err != nil {
		h.logger.Warn("storage delete failed", "backend", backend, "key", key, "err", err)
		return
	}
	h.logger.Debug("storage delete", "backend", backend, "key", key)
}

var (
	_ EngineHooks  = (*LogHooks)(nil)
	_ StorageHooks = (*LogHooks)(nil)
)

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	engineHooks  EngineHooks  = NoopEngineHooks{}
	storageHooks StorageHooks = NoopStorageHooks{}
	hooksMu      sync.RWMutex
)

// SetEngineHooks registers custom engine hooks.
// This should be called once at application startup before any engine is created.
func SetEngineHooks(h EngineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		engineHooks = h
	}
}

// SetStorageHooks registers custom storage hooks.
// This should be called once at application startup before any storage operations.
func SetStorageHooks(h StorageHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storageHooks = h
	}
}

// Engine returns the registered engine hooks.
func Engine() EngineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return engineHooks
}

// Storage returns the registered storage hooks.
func Storage() StorageHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storageHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	engineHooks = NoopEngineHooks{}
	storageHooks = NoopStorageHooks{}
}
