//go:build unix

package signals

import (
	"context"
	"errors"
	"os"
	"syscall"
	"testing"
)

func TestOverride_RestoresPrevious(t *testing.T) {
	h := newHarness(t)
	orig, _ := h.r.Resolve(Custom(func(context.Context, os.Signal) {}).Named("orig"))
	_ = h.r.Set(orig, syscall.SIGUSR1)
	_ = h.r.SetHandler(Ignore, syscall.SIGUSR2)

	restore, err := h.r.Override(Custom(func(context.Context, os.Signal) {}).Named("temp"),
		syscall.SIGUSR1, syscall.SIGUSR2, syscall.SIGHUP)
	if err != nil {
		t.Fatal(err)
	}
	for _, sig := range []os.Signal{syscall.SIGUSR1, syscall.SIGUSR2, syscall.SIGHUP} {
		if got := h.r.Get(sig).Label(); got != "temp" {
			t.Fatalf("during override Get(%v) = %q", sig, got)
		}
	}

	restore()
	if got := h.r.Get(syscall.SIGUSR1); got != orig {
		t.Fatalf("SIGUSR1 restored to %v, want %v", got, orig)
	}
	if got := h.r.Get(syscall.SIGUSR2); got != IgnoreDisposition {
		t.Fatalf("SIGUSR2 restored to %v, want ignore", got)
	}
	if got := h.r.Get(syscall.SIGHUP); got != DefaultDisposition {
		t.Fatalf("SIGHUP restored to %v, want default", got)
	}
	if h.src.subscribed(syscall.SIGHUP) {
		t.Fatal("SIGHUP still routed to the dispatcher after restore")
	}

	// later changes survive a second restore
	_ = h.r.SetHandler(Ignore, syscall.SIGUSR1)
	restore()
	if got := h.r.Get(syscall.SIGUSR1); got != IgnoreDisposition {
		t.Fatalf("second restore clobbered SIGUSR1: %v", got)
	}
}

func TestOverride_PartialFailureStillRestores(t *testing.T) {
	h := newHarness(t)
	restore, err := h.r.Override(Ignore, syscall.SIGKILL, syscall.SIGUSR1)
	if !errors.Is(err, ErrUncatchable) {
		t.Fatalf("expected ErrUncatchable, got %v", err)
	}
	if restore == nil {
		t.Fatal("restore must be returned when the reaction is valid")
	}
	if got := h.r.Get(syscall.SIGUSR1); got != IgnoreDisposition {
		t.Fatalf("SIGUSR1 = %v, want ignore", got)
	}
	restore()
	if got := h.r.Get(syscall.SIGUSR1); got != DefaultDisposition {
		t.Fatalf("SIGUSR1 = %v after restore, want default", got)
	}
}

func TestOverride_InvalidReaction(t *testing.T) {
	h := newHarness(t)
	restore, err := h.r.Override(Reaction{}, syscall.SIGUSR1)
	if restore != nil || !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("got restore=%v err=%v", restore != nil, err)
	}
}

func TestWithOverride_RestoresOnEveryExit(t *testing.T) {
	sentinel := errors.New("block failed")
	tests := []struct {
		name    string
		fn      func(context.Context) error
		wantErr error
		panics  bool
	}{
		{"return", func(context.Context) error { return nil }, nil, false},
		{"error", func(context.Context) error { return sentinel }, sentinel, false},
		{"panic", func(context.Context) error { panic("boom") }, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			orig, _ := h.r.Resolve(Custom(func(context.Context, os.Signal) {}))
			_ = h.r.Set(orig, syscall.SIGUSR1)

			var during *Handler
			run := func() (err error) {
				defer func() {
					if p := recover(); p != nil && !tt.panics {
						t.Fatalf("unexpected panic: %v", p)
					}
				}()
				return h.r.WithOverride(context.Background(), Ignore, []os.Signal{syscall.SIGUSR1}, func(ctx context.Context) error {
					during = h.r.Get(syscall.SIGUSR1)
					return tt.fn(ctx)
				})
			}
			err := run()
			if !tt.panics && !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if during != IgnoreDisposition {
				t.Fatalf("override not in effect inside the block: %v", during)
			}
			if got := h.r.Get(syscall.SIGUSR1); got != orig {
				t.Fatalf("not restored: %v", got)
			}
		})
	}
}

func TestWithOverride_Nested(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	sigs := []os.Signal{syscall.SIGUSR1}
	_ = h.r.WithOverride(ctx, Ignore, sigs, func(ctx context.Context) error {
		return h.r.WithOverride(ctx, Custom(func(context.Context, os.Signal) {}).Named("inner"), sigs, func(context.Context) error {
			if got := h.r.Get(syscall.SIGUSR1).Label(); got != "inner" {
				t.Errorf("inner = %q", got)
			}
			return nil
		})
	})
	if got := h.r.Get(syscall.SIGUSR1); got != DefaultDisposition {
		t.Fatalf("after nested overrides: %v", got)
	}
}

// occupyDispatch parks the dispatch goroutine in a SIGUSR2 callback so later
// deliveries queue up behind it. drain lets it go and returns once everything
// queued before the call has been dispatched.
func occupyDispatch(t *testing.T, h *testHarness) (drain func()) {
	t.Helper()
	entered := make(chan struct{}, 2)
	gate := make(chan struct{})
	_ = h.r.SetHandler(Custom(func(context.Context, os.Signal) {
		entered <- struct{}{}
		<-gate
	}), syscall.SIGUSR2)
	h.src.deliver(syscall.SIGUSR2)
	recv(t, entered, "dispatch to park")
	return func() {
		t.Helper()
		close(gate)
		h.src.deliver(syscall.SIGUSR2)
		recv(t, entered, "queue to drain")
	}
}

func TestOverride_LateDeliveryAfterRestoreIsDropped(t *testing.T) {
	h := newHarness(t)
	drain := occupyDispatch(t, h)

	ran := make(chan os.Signal, 1)
	restore, err := h.r.Override(Custom(func(_ context.Context, sig os.Signal) { ran <- sig }), syscall.SIGUSR1)
	if err != nil {
		t.Fatal(err)
	}
	h.src.deliver(syscall.SIGUSR1)
	restore()
	drain()

	none(t, ran, "callback after restore")
	if raised := h.src.raisedSignals(); len(raised) != 0 {
		t.Fatalf("late delivery got the default action: %v", raised)
	}
	if got := h.r.Get(syscall.SIGUSR1); got != DefaultDisposition {
		t.Fatalf("SIGUSR1 = %v, want default", got)
	}
}
