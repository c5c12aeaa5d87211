//go:build windows

package simsig

import "syscall"

const (
	SupportsAlarm = false
	SupportsMask  = false
)

// AlarmSignal exists for API symmetry; no countdown delivers it on windows.
const AlarmSignal = syscall.SIGALRM

func platformSignals() []Identity {
	// os/signal only delivers console interrupts and termination on windows
	catchable := func(n syscall.Signal) bool {
		return n == syscall.SIGINT || n == syscall.SIGTERM
	}
	nums := []syscall.Signal{
		syscall.SIGHUP, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGILL,
		syscall.SIGTRAP, syscall.SIGABRT, syscall.SIGBUS, syscall.SIGFPE,
		syscall.SIGKILL, syscall.SIGSEGV, syscall.SIGPIPE, syscall.SIGALRM,
		syscall.SIGTERM,
	}
	names := []string{
		"SIGHUP", "SIGINT", "SIGQUIT", "SIGILL",
		"SIGTRAP", "SIGABRT", "SIGBUS", "SIGFPE",
		"SIGKILL", "SIGSEGV", "SIGPIPE", "SIGALRM",
		"SIGTERM",
	}
	ids := make([]Identity, 0, len(nums))
	for i, n := range nums {
		ids = append(ids, Identity{Name: names[i], Num: n, Catchable: catchable(n)})
	}
	return ids
}

func aliasNum(string) syscall.Signal { return 0 }
