package signals

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"sync"
	"syscall"

	"github.com/srozzo/simsig"
)

// Registry owns the reaction installed for each signal. Installing a
// handler changes process-wide state: every registry, and any other code
// using os/signal, shares the same dispositions. Prefer a single owner
// (usually main) per signal.
type Registry struct {
	mu sync.Mutex

	// configuration
	src    Source
	policy Policy
	logf   LoggerFunc
	debug  bool
	exit   func(code int)

	// state
	nextID     uint64
	handlers   map[syscall.Signal]*Handler // callable handlers only
	blocked    map[syscall.Signal]int      // per-signal count of open Block scopes
	pending    map[syscall.Signal]bool     // held while blocked, one per signal
	released   map[syscall.Signal]bool     // requeued at unblock with no handler; owed the default action
	onShutdown func()
	term       *Handler
	termOnce   sync.Once

	// dispatch
	started bool
	sigch   chan os.Signal
	stopCh  chan struct{}
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		src:      OSSource(),
		policy:   defaultPolicy(),
		logf:     func(string, ...any) {},
		exit:     os.Exit,
		handlers: make(map[syscall.Signal]*Handler),
		blocked:  make(map[syscall.Signal]int),
		pending:  make(map[syscall.Signal]bool),
		released: make(map[syscall.Signal]bool),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Set installs h for every signal in sigs. A signal that cannot take the
// handler (unknown, uncatchable) is logged and skipped; the remaining
// signals are still installed. The returned error joins one *InstallError
// per skipped signal.
func (r *Registry) Set(h *Handler, sigs ...os.Signal) error {
	if h == nil {
		return fmt.Errorf("%w: nil handler", ErrInvalidArgument)
	}
	var errs []error
	for _, s := range sigs {
		sig, err := identify(s)
		if err != nil {
			r.warnf("signals: could not set handler for %v: %v", s, err)
			errs = append(errs, err)
			continue
		}
		r.debugf("signals: setting handler for %v to %s", sig, h)
		r.mu.Lock()
		r.applyLocked(sig, h)
		r.mu.Unlock()
	}
	return errors.Join(errs...)
}

// SetHandler resolves rc and installs it for sigs.
func (r *Registry) SetHandler(rc Reaction, sigs ...os.Signal) error {
	h, err := r.Resolve(rc)
	if err != nil {
		return err
	}
	return r.Set(h, sigs...)
}

// Get reports the disposition currently in effect for sig. The ignore state
// is read from the process at call time, so code that ignores a signal
// behind the registry's back is still reflected. Catching is not: os/signal
// has no way to ask whether a signal is routed to a channel, so a
// signal.Reset or signal.Stop done outside the registry still reports the
// handler installed here. Unknown signals report DefaultDisposition.
func (r *Registry) Get(s os.Signal) *Handler {
	sig, err := identify(s)
	if err != nil {
		return DefaultDisposition
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getLocked(sig)
}

func (r *Registry) getLocked(sig syscall.Signal) *Handler {
	if r.src.Ignored(sig) {
		return IgnoreDisposition
	}
	if h := r.handlers[sig]; h != nil {
		return h
	}
	return DefaultDisposition
}

// restore reinstalls a snapshotted handler. It never fails: the snapshot was
// only taken for signals that accepted a handler in the first place.
func (r *Registry) restore(sig syscall.Signal, h *Handler) {
	defer func() { _ = recover() }()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.applyLocked(sig, h)
}

func (r *Registry) applyLocked(sig syscall.Signal, h *Handler) {
	switch h {
	case IgnoreDisposition:
		delete(r.handlers, sig)
		delete(r.pending, sig)
		delete(r.released, sig)
		r.src.Ignore(sig)
	case DefaultDisposition:
		delete(r.handlers, sig)
		if r.blocked[sig] > 0 {
			// keep intercepting so the held delivery gets the default action on release
			r.subscribeLocked(sig)
			return
		}
		r.src.Reset(sig)
	default:
		r.handlers[sig] = h
		r.subscribeLocked(sig)
	}
}

func (r *Registry) subscribeLocked(sig syscall.Signal) {
	if !r.started {
		r.startLocked()
	}
	r.src.Notify(r.sigch, sig)
}

func (r *Registry) startLocked() {
	r.sigch = make(chan os.Signal, 16)
	r.stopCh = make(chan struct{})
	r.ctx, r.cancel = context.WithCancel(context.Background())
	r.started = true
	// Pass stable copies of channels to avoid races with Stop mutating fields.
	go r.loop(r.sigch, r.stopCh)
}

// Stop ends dispatch. Signals this registry had routed to callbacks fall back
// to their default disposition; ignored signals stay ignored.
func (r *Registry) Stop() {
	r.mu.Lock()
	if !r.started {
		r.mu.Unlock()
		return
	}
	sigch, stopCh, cancel := r.sigch, r.stopCh, r.cancel
	r.sigch, r.stopCh = nil, nil
	r.started = false
	r.handlers = make(map[syscall.Signal]*Handler)
	r.pending = make(map[syscall.Signal]bool)
	r.released = make(map[syscall.Signal]bool)
	r.mu.Unlock()

	r.src.Stop(sigch)
	close(stopCh)
	cancel()
	r.debugf("signals: dispatch stopped")
}

// Reset puts every catchable signal back to its default disposition.
func (r *Registry) Reset() {
	r.debugf("signals: resetting all handlers to default")
	for _, id := range simsig.All() {
		if !id.Catchable {
			continue
		}
		r.mu.Lock()
		r.applyLocked(id.Num, DefaultDisposition)
		r.mu.Unlock()
	}
}

func (r *Registry) loop(sigch chan os.Signal, stopCh chan struct{}) {
	for {
		select {
		case <-stopCh:
			return
		case s := <-sigch:
			if sig, ok := s.(syscall.Signal); ok {
				r.deliver(sig)
			}
		}
	}
}

// deliver runs on the dispatch goroutine only.
func (r *Registry) deliver(sig syscall.Signal) {
	r.mu.Lock()
	if r.blocked[sig] > 0 {
		r.pending[sig] = true
		r.mu.Unlock()
		r.debugf("signals: holding %v while blocked", sig)
		return
	}
	h := r.handlers[sig]
	ctx := r.ctx
	owed := r.released[sig]
	delete(r.released, sig)
	if h == nil && !owed {
		// queued for a handler that has since been removed
		r.mu.Unlock()
		r.debugf("signals: dropping %v; no handler installed", sig)
		return
	}
	if h == nil {
		// held by a Block scope over the default disposition
		ignored := r.src.Ignored(sig)
		if !ignored {
			r.src.Reset(sig)
		}
		r.mu.Unlock()
		if ignored {
			return
		}
		r.debugf("signals: re-raising %v with default disposition", sig)
		if err := r.src.Raise(sig); err != nil {
			r.warnf("signals: re-raising %v: %v", sig, err)
		}
		return
	}
	logPanics := r.policy.LogPanics
	logf := r.logf
	r.mu.Unlock()

	defer func() {
		if rec := recover(); rec != nil && logPanics {
			logf("signals: panic in handler %s for %v: %v\n%s", h, sig, rec, string(debug.Stack()))
		}
	}()
	h.Call(ctx, sig)
}

// requeueLocked hands a released signal back to the dispatch goroutine. It
// reports false when the queue is full and the signal was dropped.
func (r *Registry) requeueLocked(sig syscall.Signal) bool {
	if !r.started {
		return true
	}
	if r.handlers[sig] == nil {
		r.released[sig] = true
	}
	select {
	case r.sigch <- sig:
		return true
	default:
		delete(r.released, sig)
		return false
	}
}

func identify(s os.Signal) (syscall.Signal, error) {
	id, err := simsig.Resolve(s)
	if err != nil {
		return 0, &InstallError{Signal: s, Err: err}
	}
	if !id.Catchable {
		return 0, &InstallError{Signal: s, Err: ErrUncatchable}
	}
	return id.Num, nil
}
