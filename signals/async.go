package signals

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// Scheduler is a cooperative event loop that can deliver signals to
// callbacks on its own goroutine, outside the Registry.
type Scheduler interface {
	// Running reports whether the loop is currently processing events.
	Running() bool
	// AddSignalHandler arranges for fn to be called on the loop whenever
	// sig arrives.
	AddSignalHandler(sig os.Signal, fn func(os.Signal)) error
}

type schedulerKey struct{}

// WithScheduler returns a context carrying s as the current scheduler.
// Schedulers pass such a context to the work they run.
func WithScheduler(ctx context.Context, s Scheduler) context.Context {
	return context.WithValue(ctx, schedulerKey{}, s)
}

// SchedulerFrom returns the scheduler carried by ctx, or nil.
func SchedulerFrom(ctx context.Context) Scheduler {
	s, _ := ctx.Value(schedulerKey{}).(Scheduler)
	return s
}

// RegisterAsync registers the callback of rc, which must be a Custom
// reaction, with the scheduler running ctx. Installation goes through the
// scheduler only: the Registry's handlers are not consulted or changed, and
// nothing is chained. Each signal is registered independently.
func (r *Registry) RegisterAsync(ctx context.Context, rc Reaction, sigs ...os.Signal) error {
	s := SchedulerFrom(ctx)
	if s == nil || !s.Running() {
		return ErrNoActiveScheduler
	}
	if rc.kind != reactionCustom || rc.fn == nil {
		return fmt.Errorf("%w: only custom callbacks can be registered with a scheduler, got %v", ErrInvalidArgument, rc)
	}
	h := r.newHandler(rc.label, rc.fn)

	var errs []error
	for _, sig := range sigs {
		r.debugf("signals: registering async handler %s for %v", h, sig)
		err := s.AddSignalHandler(sig, func(got os.Signal) { h.Call(ctx, got) })
		if err != nil {
			r.warnf("signals: could not register async handler for %v: %v", sig, err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
