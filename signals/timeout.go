package signals

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/srozzo/simsig"
)

// WithTimeout runs fn with the alarm signal armed to fire after d.
//
// If the alarm fires before fn returns, fn's context is canceled with
// ErrTimeoutExceeded as its cause and WithTimeout returns an error wrapping
// ErrTimeoutExceeded right away, even if fn ignores its context and keeps
// running. However WithTimeout returns, the alarm is disarmed and the alarm
// signal's previous handler is reinstalled. A panic in fn is re-raised on the
// caller's goroutine after that cleanup.
//
// A d of zero or less cancels any pending alarm and runs fn without a
// deadline, the same convention as alarm(0).
//
// On platforms without an alarm countdown WithTimeout returns ErrUnsupported
// without changing anything.
func (r *Registry) WithTimeout(ctx context.Context, d time.Duration, fn func(context.Context) error) error {
	if !simsig.SupportsAlarm {
		return fmt.Errorf("%w: alarm countdown on %s", ErrUnsupported, runtime.GOOS)
	}
	if d <= 0 {
		if err := r.src.Alarm(0); err != nil {
			return fmt.Errorf("signals: canceling alarm: %w", err)
		}
		return fn(ctx)
	}

	timeoutErr := fmt.Errorf("%w: block did not complete in %s", ErrTimeoutExceeded, d)
	tctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	fired := make(chan struct{})
	var fire sync.Once
	h := r.newHandler("timeout", func(context.Context, os.Signal) {
		fire.Do(func() {
			cancel(timeoutErr)
			close(fired)
		})
	})

	alarm := simsig.AlarmSignal
	prev := r.Get(alarm)
	if err := r.Set(h, alarm); err != nil {
		return err
	}
	defer r.restore(alarm, prev)

	r.debugf("signals: arming %v for %s", alarm, d)
	if err := r.src.Alarm(d); err != nil {
		return fmt.Errorf("signals: arming alarm: %w", err)
	}
	defer func() {
		if err := r.src.Alarm(0); err != nil {
			r.warnf("signals: disarming alarm: %v", err)
		}
	}()

	type result struct {
		err      error
		panicked bool
		value    any
	}
	done := make(chan result, 1)
	go func() {
		var res result
		defer func() {
			if p := recover(); p != nil {
				res = result{panicked: true, value: p}
			}
			done <- res
		}()
		res.err = fn(tctx)
	}()

	select {
	case res := <-done:
		if res.panicked {
			panic(res.value)
		}
		if context.Cause(tctx) == timeoutErr {
			return timeoutErr
		}
		return res.err
	case <-fired:
		r.debugf("signals: timeout after %s", d)
		return timeoutErr
	}
}
