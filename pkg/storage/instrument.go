package storage

import (
	"context"
	"errors"
	"time"

	"github.com/matzehuels/brickyard/pkg/observability"
)

// InstrumentedStore reports every call to the registered storage hooks.
type InstrumentedStore struct {
	inner   Store
	backend string
}

// Instrument wraps s so that reads, writes and deletes are reported to
// observability.Storage() under the given backend name.
func Instrument(s Store, backend string) *InstrumentedStore {
	return &InstrumentedStore{inner: s, backend: backend}
}

func (s *InstrumentedStore) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	data, err := s.inner.Get(ctx, key)
	found := err == nil
	hookErr := err
	if errors.Is(err, ErrNotFound) {
		hookErr = nil
	}
	observability.Storage().OnGet(ctx, s.backend, key, found, time.Since(start), hookErr)
	return data, err
}

func (s *InstrumentedStore) Set(ctx context.Context, key string, data []byte) error {
	start := time.Now()
	err := s.inner.Set(ctx, key, data)
	observability.Storage().OnSet(ctx, s.backend, key, len(data), time.Since(start), err)
	return err
}

func (s *InstrumentedStore) Delete(ctx context.Context, key string) error {
	err := s.inner.Delete(ctx, key)
	observability.Storage().OnDelete(ctx, s.backend, key, err)
	return err
}

func (s *InstrumentedStore) Close() error { return s.inner.Close() }

// Unwrap returns the wrapped store.
func (s *InstrumentedStore) Unwrap() Store { return s.inner }

var _ Store = (*InstrumentedStore)(nil)
