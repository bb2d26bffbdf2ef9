package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	e := NoopEngineHooks{}
	e.OnApplied("place", 1)
	e.OnIgnored("delete", "no selection")
	e.OnPersist(ctx, "save", "lego-build", 3, time.Second, nil)

	s := NoopStorageHooks{}
	s.OnGet(ctx, "file", "lego-build", true, time.Millisecond, nil)
	s.OnSet(ctx, "file", "lego-build", 128, time.Millisecond, nil)
	s.OnDelete(ctx, "file", "lego-build", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	if _, ok := Engine().(NoopEngineHooks); !ok {
		t.Error("Engine() should return NoopEngineHooks by default")
	}
	if _, ok := Storage().(NoopStorageHooks); !ok {
		t.Error("Storage() should return NoopStorageHooks by default")
	}

	customEngine := &testEngineHooks{}
	SetEngineHooks(customEngine)
	if Engine() != customEngine {
		t.Error("SetEngineHooks should set custom hooks")
	}

	customStorage := &testStorageHooks{}
	SetStorageHooks(customStorage)
	if Storage() != customStorage {
		t.Error("SetStorageHooks should set custom hooks")
	}

	Reset()
	if _, ok := Engine().(NoopEngineHooks); !ok {
		t.Error("Reset() should restore NoopEngineHooks")
	}
	if _, ok := Storage().(NoopStorageHooks); !ok {
		t.Error("Reset() should restore NoopStorageHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testEngineHooks{}
	SetEngineHooks(custom)
	SetEngineHooks(nil)

	if Engine() != custom {
		t.Error("SetEngineHooks(nil) should be ignored")
	}

	Reset()
}

func TestLogHooks(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	h := NewLogHooks(log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel}))

	h.OnApplied("place", 2)
	h.OnIgnored("delete", "no selection")
	h.OnPersist(ctx, "save", "lego-build", 2, time.Millisecond, nil)
	h.OnPersist(ctx, "load", "lego-build", 0, time.Millisecond, errors.New("boom"))
	h.OnSet(ctx, "sqlite", "lego-build", 64, time.Millisecond, nil)

	out := buf.String()
	for _, want := range []string{
		"applied", "op=place", "bricks=2",
		"ignored", `reason="no selection"`,
		"save", "load failed", "err=boom",
		"storage set", "backend=sqlite", "bytes=64",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestLogHooksLevels(t *testing.T) {
	var buf bytes.Buffer
	h := NewLogHooks(log.NewWithOptions(&buf, log.Options{Level: log.InfoLevel}))

	h.OnApplied("place", 1)
	h.OnGet(context.Background(), "file", "k", false, 0, nil)
	if buf.Len() != 0 {
		t.Errorf("debug events should be filtered at info level, got %q", buf.String())
	}
}

// Test implementations
type testEngineHooks struct{ NoopEngineHooks }
type testStorageHooks struct{ NoopStorageHooks }
