package signals

import (
	"fmt"
	"os"

	"github.com/srozzo/simsig"
)

// Signals whose default action ends the process. SIGKILL is absent on
// purpose: it can never be caught.
var terminatingNames = []string{
	"SIGHUP", "SIGINT", "SIGQUIT", "SIGILL", "SIGABRT", "SIGFPE",
	"SIGSEGV", "SIGPIPE", "SIGALRM", "SIGTERM", "SIGXCPU", "SIGXFSZ",
	"SIGVTALRM", "SIGPROF", "SIGUSR1", "SIGUSR2",
}

// Signals generated by the controlling terminal.
var terminalNames = []string{
	"SIGHUP", "SIGINT", "SIGTSTP", "SIGTTIN", "SIGTTOU", "SIGWINCH",
}

// Available resolves names to signals, dropping the ones this platform
// does not define or will not let us catch.
func Available(names ...string) []os.Signal {
	out := make([]os.Signal, 0, len(names))
	for _, name := range names {
		if id, ok := simsig.Lookup(name); ok && id.Catchable {
			out = append(out, id.Num)
		}
	}
	return out
}

// TerminatingSignals are the catchable signals that terminate a process by
// default.
func TerminatingSignals() []os.Signal { return Available(terminatingNames...) }

// TerminalSignals are the signals related to the controlling terminal.
func TerminalSignals() []os.Signal { return Available(terminalNames...) }

// GracefulShutdown makes cb the shutdown callback and installs Terminate for
// every terminating signal. Each call replaces the previous callback.
func (r *Registry) GracefulShutdown(cb func()) error {
	if cb == nil {
		return fmt.Errorf("%w: nil shutdown callback", ErrInvalidArgument)
	}
	r.mu.Lock()
	r.onShutdown = cb
	r.mu.Unlock()
	r.debugf("signals: registered graceful shutdown callback")
	return r.SetHandler(Terminate, TerminatingSignals()...)
}

// IgnoreTerminalSignals ignores hangups, interrupts and job-control signals
// from the controlling terminal.
func (r *Registry) IgnoreTerminalSignals() error {
	sigs := TerminalSignals()
	if len(sigs) == 0 {
		return nil
	}
	r.debugf("signals: ignoring terminal signals %v", sigs)
	return r.SetHandler(Ignore, sigs...)
}
