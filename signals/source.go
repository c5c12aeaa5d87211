package signals

import (
	"os"
	"os/signal"
	"syscall"
	"time"
)

// Source is the process-wide signal disposition API the Registry drives.
// It exists so tests can observe and simulate delivery without touching the
// real process state.
type Source interface {
	// Notify routes the given signals to c.
	Notify(c chan<- os.Signal, sig ...os.Signal)
	// Stop routes no more signals to c.
	Stop(c chan<- os.Signal)
	// Ignore sets the ignore disposition and drops any Notify routing.
	Ignore(sig ...os.Signal)
	// Reset restores the default disposition and drops any Notify routing.
	Reset(sig ...os.Signal)
	// Ignored reports whether sig is currently ignored.
	Ignored(sig os.Signal) bool
	// Raise sends sig to the current process.
	Raise(sig syscall.Signal) error
	// Alarm arms the alarm countdown; d <= 0 cancels a pending alarm.
	Alarm(d time.Duration) error
}

// osSource is the production implementation of Source. It delegates to
// os/signal and to the platform alarm and kill primitives.
type osSource struct{}

// OSSource returns the Source backed by the real process.
func OSSource() Source { return osSource{} }

func (osSource) Notify(c chan<- os.Signal, sig ...os.Signal) { signal.Notify(c, sig...) }

func (osSource) Stop(c chan<- os.Signal) { signal.Stop(c) }

func (osSource) Ignore(sig ...os.Signal) { signal.Ignore(sig...) }

func (osSource) Reset(sig ...os.Signal) { signal.Reset(sig...) }

func (osSource) Ignored(sig os.Signal) bool { return signal.Ignored(sig) }

func (osSource) Raise(sig syscall.Signal) error { return raise(sig) }

func (osSource) Alarm(d time.Duration) error { return setAlarm(d) }
