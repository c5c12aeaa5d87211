// Package loop is a small cooperative scheduler built on run.Group. Actors
// added to a Loop share a context that carries the loop as the current
// signals.Scheduler, so they can call signals.RegisterAsync. Signal
// callbacks run one at a time on the loop's pump goroutine.
package loop

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"

	"github.com/oklog/run"
	"golang.org/x/exp/slices"

	"github.com/srozzo/simsig/signals"
)

var (
	ErrNotRunning     = errors.New("loop: not running")
	ErrAlreadyRunning = errors.New("loop: already running")
)

type actor struct {
	execute   func(ctx context.Context) error
	interrupt func(error)
}

// Loop implements signals.Scheduler.
type Loop struct {
	mu sync.Mutex

	actors  []actor
	stopOn  []os.Signal
	notify  func(c chan<- os.Signal, sig ...os.Signal)
	release func(c chan<- os.Signal)

	running  bool
	sigch    chan os.Signal
	handlers map[os.Signal][]func(os.Signal)
}

type Option func(*Loop)

// StopOn ends Run with a run.SignalError when one of sigs arrives.
func StopOn(sigs ...os.Signal) Option {
	return func(l *Loop) { l.stopOn = append(l.stopOn, sigs...) }
}

func New(opts ...Option) *Loop {
	l := &Loop{
		notify:  signal.Notify,
		release: signal.Stop,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Add registers an actor. execute receives the loop's context and should
// return when it is canceled; interrupt is called once any actor returns.
// Actors added while the loop runs take effect on the next Run.
func (l *Loop) Add(execute func(ctx context.Context) error, interrupt func(error)) {
	if interrupt == nil {
		interrupt = func(error) {}
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.actors = append(l.actors, actor{execute: execute, interrupt: interrupt})
}

// Running reports whether Run is in progress.
func (l *Loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

// AddSignalHandler calls fn on the loop each time sig arrives, until Run
// returns.
func (l *Loop) AddSignalHandler(sig os.Signal, fn func(os.Signal)) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.running {
		return ErrNotRunning
	}
	l.handlers[sig] = append(l.handlers[sig], fn)
	l.notify(l.sigch, sig)
	return nil
}

// Run executes every actor until the first one returns, ctx is canceled or
// a StopOn signal arrives, then interrupts the rest and returns the first
// error. Signal handlers registered during the run are dropped on return.
func (l *Loop) Run(ctx context.Context) error {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return ErrAlreadyRunning
	}
	l.running = true
	sigch := make(chan os.Signal, 16)
	l.sigch = sigch
	l.handlers = make(map[os.Signal][]func(os.Signal))
	actors := slices.Clone(l.actors)
	stopOn := slices.Clone(l.stopOn)
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		l.release(sigch)
		l.running = false
		l.sigch = nil
		l.handlers = nil
		l.mu.Unlock()
	}()

	ctx, cancel := context.WithCancel(signals.WithScheduler(ctx, l))
	defer cancel()

	var g run.Group
	{
		quit := make(chan struct{})
		g.Add(func() error {
			return l.pump(sigch, quit)
		}, func(error) {
			close(quit)
		})
	}
	g.Add(func() error {
		<-ctx.Done()
		return ctx.Err()
	}, func(error) {
		cancel()
	})
	if len(stopOn) > 0 {
		g.Add(run.SignalHandler(ctx, stopOn...))
	}
	for _, a := range actors {
		a := a
		g.Add(func() error { return a.execute(ctx) }, a.interrupt)
	}
	return g.Run()
}

func (l *Loop) pump(sigch <-chan os.Signal, quit <-chan struct{}) error {
	for {
		select {
		case <-quit:
			return nil
		case sig := <-sigch:
			l.mu.Lock()
			fns := slices.Clone(l.handlers[sig])
			l.mu.Unlock()
			for _, fn := range fns {
				fn(sig)
			}
		}
	}
}
