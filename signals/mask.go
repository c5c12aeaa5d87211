package signals

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"
	"syscall"

	"golang.org/x/exp/slices"

	"github.com/srozzo/simsig"
)

// Block suspends delivery of sigs until the returned unblock func is called.
// Dispositions are untouched: a signal arriving while blocked is held (one
// instance per signal) and delivered to whatever is installed at release.
//
// Scopes nest. Each scope counts once per signal it names, and unblock only
// releases this scope's counts, so a signal also blocked by an outer or
// sibling scope stays blocked. Uncatchable signals are skipped, as
// sigprocmask does. Unknown signals fail with ErrInvalidArgument before
// anything is blocked.
func (r *Registry) Block(sigs ...os.Signal) (unblock func(), err error) {
	if !simsig.SupportsMask {
		return nil, fmt.Errorf("%w: signal masking on %s", ErrUnsupported, runtime.GOOS)
	}

	set := make([]syscall.Signal, 0, len(sigs))
	for _, s := range sigs {
		id, err := simsig.Resolve(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
		if !id.Catchable {
			r.debugf("signals: %v cannot be blocked; skipping", id)
			continue
		}
		if !slices.Contains(set, id.Num) {
			set = append(set, id.Num)
		}
	}

	r.mu.Lock()
	for _, sig := range set {
		r.blocked[sig]++
		if r.blocked[sig] == 1 && r.handlers[sig] == nil && !r.src.Ignored(sig) {
			// default disposition: intercept so the default action is deferred too
			r.subscribeLocked(sig)
		}
	}
	r.mu.Unlock()
	r.debugf("signals: blocked %v", set)

	var once sync.Once
	return func() { once.Do(func() { r.unblock(set) }) }, nil
}

func (r *Registry) unblock(set []syscall.Signal) {
	var released, dropped []syscall.Signal
	r.mu.Lock()
	for _, sig := range set {
		r.blocked[sig]--
		if r.blocked[sig] > 0 {
			continue
		}
		delete(r.blocked, sig)
		if r.pending[sig] {
			delete(r.pending, sig)
			if r.requeueLocked(sig) {
				released = append(released, sig)
			} else {
				dropped = append(dropped, sig)
			}
			continue
		}
		if r.handlers[sig] == nil && !r.src.Ignored(sig) {
			r.src.Reset(sig)
		}
	}
	r.mu.Unlock()
	r.debugf("signals: unblocked %v; releasing %v", set, released)
	if len(dropped) > 0 {
		r.debugf("signals: dispatch queue full; dropped held %v", dropped)
	}
}

// Blocked reports whether delivery of sig is currently suspended.
func (r *Registry) Blocked(s os.Signal) bool {
	id, err := simsig.Resolve(s)
	if err != nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.blocked[id.Num] > 0
}

// WithBlocked runs fn with sigs blocked and unblocks them when fn returns or
// panics.
func (r *Registry) WithBlocked(ctx context.Context, sigs []os.Signal, fn func(context.Context) error) error {
	unblock, err := r.Block(sigs...)
	if err != nil {
		return err
	}
	defer unblock()
	return fn(ctx)
}
