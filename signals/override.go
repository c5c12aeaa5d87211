package signals

import (
	"context"
	"os"
	"sync"
	"syscall"
)

// Override installs rc for sigs and returns a func that puts back whatever
// each signal had before. restore is nil only when rc is invalid; a non-nil
// err alongside it joins per-signal install failures. Calling restore more
// than once is safe.
//
// A signal delivered between the snapshot and the install reaches the
// previous handler. os/signal offers no atomic exchange, and a lock cannot
// keep the kernel from delivering, so this window is accepted.
func (r *Registry) Override(rc Reaction, sigs ...os.Signal) (restore func(), err error) {
	h, err := r.Resolve(rc)
	if err != nil {
		return nil, err
	}

	snapshot := make(map[syscall.Signal]*Handler, len(sigs))
	for _, s := range sigs {
		sig, ierr := identify(s)
		if ierr != nil {
			// Set below reports it
			continue
		}
		if _, seen := snapshot[sig]; !seen {
			snapshot[sig] = r.Get(sig)
		}
	}
	r.debugf("signals: overriding %d signal(s) with %v", len(snapshot), rc)

	err = r.Set(h, sigs...)

	var once sync.Once
	restore = func() {
		once.Do(func() {
			r.debugf("signals: restoring %d overridden signal(s)", len(snapshot))
			for sig, prev := range snapshot {
				r.restore(sig, prev)
			}
		})
	}
	return restore, err
}

// WithOverride runs fn with rc installed for sigs and restores the previous
// handlers when fn returns or panics. Per-signal install failures are logged
// and do not prevent fn from running.
func (r *Registry) WithOverride(ctx context.Context, rc Reaction, sigs []os.Signal, fn func(context.Context) error) error {
	restore, err := r.Override(rc, sigs...)
	if restore == nil {
		return err
	}
	defer restore()
	return fn(ctx)
}
