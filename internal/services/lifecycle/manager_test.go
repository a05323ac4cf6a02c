package lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestShutdownReverseOrder(t *testing.T) {
	m := New(time.Second, nil)

	var order []string
	for _, name := range []string{"mongo", "redis", "http"} {
		component := name
		m.Register(component, func(ctx context.Context) error {
			order = append(order, component)
			return nil
		})
	}

	if err := m.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}
	want := []string{"http", "redis", "mongo"}
	for i, name := range want {
		if order[i] != name {
			t.Fatalf("hooks must run in reverse registration order, got %v", order)
		}
	}
}

func TestShutdownCollectsErrors(t *testing.T) {
	m := New(time.Second, nil)

	failure := errors.New("flush failed")
	var ranAfterFailure bool
	m.Register("first", func(ctx context.Context) error {
		ranAfterFailure = true
		return nil
	})
	m.Register("second", func(ctx context.Context) error {
		return failure
	})

	err := m.Shutdown(context.Background())
	if !errors.Is(err, failure) {
		t.Fatalf("expected the hook error to surface, got %v", err)
	}
	if !ranAfterFailure {
		t.Error("a failing hook must not stop the remaining hooks")
	}
}

func TestRegisterIgnoresNilHook(t *testing.T) {
	m := New(time.Second, nil)
	m.Register("noop", nil)

	if err := m.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}
}

func TestShutdownTimeoutPropagates(t *testing.T) {
	m := New(50*time.Millisecond, nil)

	m.Register("slow", func(ctx context.Context) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
			return nil
		}
	})

	start := time.Now()
	err := m.Shutdown(context.Background())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Error("shutdown should abandon slow hooks at the timeout")
	}
}
