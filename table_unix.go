//go:build unix

package simsig

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// SupportsAlarm reports whether the platform offers an alarm countdown that
// delivers AlarmSignal.
const SupportsAlarm = true

// SupportsMask reports whether delivery of signals can be suspended.
const SupportsMask = true

// AlarmSignal is the signal delivered when an alarm countdown elapses.
const AlarmSignal = syscall.SIGALRM

// maxSignal bounds the scan; real-time signals above NSIG have no name.
const maxSignal = 128

func platformSignals() []Identity {
	ids := make([]Identity, 0, 64)
	for n := syscall.Signal(1); n < maxSignal; n++ {
		name := unix.SignalName(n)
		if name == "" {
			continue
		}
		ids = append(ids, Identity{
			Name:      name,
			Num:       n,
			Catchable: n != syscall.SIGKILL && n != syscall.SIGSTOP,
		})
	}
	return ids
}

func aliasNum(name string) syscall.Signal {
	return unix.SignalNum(name)
}
