package signals

import (
	"context"
	"fmt"
	"os"
	"syscall"
	"time"
)

// Callback reacts to a delivered signal. Callbacks run on the registry's
// dispatch goroutine, one at a time; see the package documentation for what
// they may and may not do.
type Callback func(ctx context.Context, sig os.Signal)

// Handler is an installed disposition. Handlers are compared by identity:
// Get returns the same *Handler that was installed.
type Handler struct {
	label string
	fn    Callback
}

var (
	// DefaultDisposition is the platform's default action for a signal.
	DefaultDisposition = &Handler{label: "default"}
	// IgnoreDisposition discards the signal.
	IgnoreDisposition = &Handler{label: "ignore"}
)

// Invocable reports whether h runs a callback, as opposed to being one of the
// two sentinel dispositions.
func (h *Handler) Invocable() bool { return h != nil && h.fn != nil }

// Label is the human-readable name given at registration, or a generated
// identifier.
func (h *Handler) Label() string {
	if h == nil {
		return "<nil>"
	}
	return h.label
}

func (h *Handler) String() string { return h.Label() }

// Call runs the handler's callback. Sentinel dispositions do nothing.
func (h *Handler) Call(ctx context.Context, sig os.Signal) {
	if h.Invocable() {
		h.fn(ctx, sig)
	}
}

type reactionKind uint8

const (
	reactionInvalid reactionKind = iota
	reactionDefault
	reactionIgnore
	reactionTerminate
	reactionCustom
)

// Reaction is the high-level choice of what a signal should do. The zero
// value is invalid; use UseDefault, Ignore, Terminate or Custom.
type Reaction struct {
	kind  reactionKind
	fn    Callback
	label string
}

var (
	UseDefault = Reaction{kind: reactionDefault}
	Ignore     = Reaction{kind: reactionIgnore}
	// Terminate logs the signal, runs the graceful-shutdown callback if one
	// is registered and exits with status 128 + signal number.
	Terminate = Reaction{kind: reactionTerminate}
)

// Custom installs fn verbatim.
func Custom(fn Callback) Reaction {
	return Reaction{kind: reactionCustom, fn: fn}
}

// Named attaches a label used in logs and by Handler.Label.
func (rc Reaction) Named(label string) Reaction {
	rc.label = label
	return rc
}

func (rc Reaction) String() string {
	switch rc.kind {
	case reactionDefault:
		return "default"
	case reactionIgnore:
		return "ignore"
	case reactionTerminate:
		return "terminate"
	case reactionCustom:
		if rc.label != "" {
			return rc.label
		}
		return "custom"
	}
	return "invalid"
}

// Resolve turns a reaction into an installable handler. Custom reactions get
// a fresh handler on every call; Terminate always yields the same cached one.
func (r *Registry) Resolve(rc Reaction) (*Handler, error) {
	switch rc.kind {
	case reactionDefault:
		return DefaultDisposition, nil
	case reactionIgnore:
		return IgnoreDisposition, nil
	case reactionTerminate:
		return r.terminateHandler(), nil
	case reactionCustom:
		if rc.fn == nil {
			return nil, fmt.Errorf("%w: custom reaction without a callback", ErrInvalidArgument)
		}
		return r.newHandler(rc.label, rc.fn), nil
	}
	return nil, fmt.Errorf("%w: reaction %v", ErrInvalidArgument, rc)
}

func (r *Registry) newHandler(label string, fn Callback) *Handler {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	if label == "" {
		label = fmt.Sprintf("handler#%d", r.nextID)
	}
	return &Handler{label: label, fn: fn}
}

func (r *Registry) terminateHandler() *Handler {
	r.termOnce.Do(func() {
		r.debugf("signals: creating terminate handler")
		r.term = &Handler{label: "terminate", fn: r.terminate}
	})
	return r.term
}

func (r *Registry) terminate(_ context.Context, sig os.Signal) {
	r.mu.Lock()
	cb := r.onShutdown
	grace := r.policy.GracePeriod
	logf := r.logf
	exit := r.exit
	r.mu.Unlock()

	logf("signals: received terminating signal %v; initiating shutdown", sig)
	if cb != nil {
		logf("signals: running graceful shutdown callback")
		runShutdown(cb, grace, logf)
	}
	exit(ExitCode(sig))
}

func runShutdown(cb func(), grace time.Duration, logf LoggerFunc) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer func() {
			if rec := recover(); rec != nil {
				logf("signals: panic in shutdown callback: %v", rec)
			}
		}()
		cb()
	}()
	if grace <= 0 {
		<-done
		return
	}
	timer := time.NewTimer(grace)
	defer timer.Stop()
	select {
	case <-done:
	case <-timer.C:
		logf("signals: shutdown callback still running after %s; exiting", grace)
	}
}

// ExitCode is the conventional exit status for a process terminated by sig:
// 128 + signal number.
func ExitCode(sig os.Signal) int {
	if s, ok := sig.(syscall.Signal); ok {
		return 128 + int(s)
	}
	return 128
}
