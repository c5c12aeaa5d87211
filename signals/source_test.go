package signals

import (
	"os"
	"sync"
	"syscall"
	"testing"
	"time"
)

// fakeSource is a test implementation of Source. Deliveries are injected
// with deliver; the alarm countdown uses a real timer so timeouts fire on
// their own.
type fakeSource struct {
	mu      sync.Mutex
	subs    map[syscall.Signal]chan<- os.Signal
	ignored map[syscall.Signal]bool
	raised  []syscall.Signal
	alarms  []time.Duration
	timer   *time.Timer
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		subs:    make(map[syscall.Signal]chan<- os.Signal),
		ignored: make(map[syscall.Signal]bool),
	}
}

func (f *fakeSource) Notify(c chan<- os.Signal, sig ...os.Signal) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range sig {
		n := s.(syscall.Signal)
		f.subs[n] = c
		delete(f.ignored, n)
	}
}

func (f *fakeSource) Stop(c chan<- os.Signal) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for n, sub := range f.subs {
		if sub == c {
			delete(f.subs, n)
		}
	}
}

func (f *fakeSource) Ignore(sig ...os.Signal) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range sig {
		n := s.(syscall.Signal)
		delete(f.subs, n)
		f.ignored[n] = true
	}
}

func (f *fakeSource) Reset(sig ...os.Signal) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range sig {
		n := s.(syscall.Signal)
		delete(f.subs, n)
		delete(f.ignored, n)
	}
}

func (f *fakeSource) Ignored(sig os.Signal) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ignored[sig.(syscall.Signal)]
}

func (f *fakeSource) Raise(sig syscall.Signal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.raised = append(f.raised, sig)
	return nil
}

func (f *fakeSource) Alarm(d time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alarms = append(f.alarms, d)
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	if d > 0 {
		f.timer = time.AfterFunc(d, func() { f.deliver(syscall.SIGALRM) })
	}
	return nil
}

// deliver sends sig to its subscriber and reports whether there was one.
func (f *fakeSource) deliver(sig syscall.Signal) bool {
	f.mu.Lock()
	c, ok := f.subs[sig]
	f.mu.Unlock()
	if ok {
		c <- sig
	}
	return ok
}

func (f *fakeSource) subscribed(sig syscall.Signal) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.subs[sig]
	return ok
}

func (f *fakeSource) raisedSignals() []syscall.Signal {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]syscall.Signal(nil), f.raised...)
}

func (f *fakeSource) alarmCalls() []time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]time.Duration(nil), f.alarms...)
}

// logRecorder collects log lines for assertions.
type logRecorder struct {
	mu    sync.Mutex
	lines []string
}

func (l *logRecorder) logf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, format)
	_ = args
}

func (l *logRecorder) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.lines)
}

type testHarness struct {
	r     *Registry
	src   *fakeSource
	logs  *logRecorder
	exits chan int
}

func newHarness(t *testing.T, opts ...Option) *testHarness {
	t.Helper()
	h := &testHarness{
		src:   newFakeSource(),
		logs:  &logRecorder{},
		exits: make(chan int, 4),
	}
	base := []Option{
		WithSource(h.src),
		WithLogger(h.logs.logf),
		WithExit(func(code int) { h.exits <- code }),
	}
	h.r = NewRegistry(append(base, opts...)...)
	t.Cleanup(h.r.Stop)
	return h
}

// recv waits for one value or fails the test.
func recv[T any](t *testing.T, c <-chan T, what string) T {
	t.Helper()
	select {
	case v := <-c:
		return v
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
	var zero T
	return zero
}

// none asserts nothing arrives on c for a short while.
func none[T any](t *testing.T, c <-chan T, what string) {
	t.Helper()
	select {
	case v := <-c:
		t.Fatalf("unexpected %s: %v", what, v)
	case <-time.After(60 * time.Millisecond):
	}
}

// eventually polls cond until it holds or a second has passed.
func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
