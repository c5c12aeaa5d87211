//go:build linux

package signals

import (
	"time"

	"golang.org/x/sys/unix"
)

// setAlarm arms ITIMER_REAL, which delivers SIGALRM when it elapses.
func setAlarm(d time.Duration) error {
	var it unix.Itimerval
	if d > 0 {
		if d < time.Microsecond {
			d = time.Microsecond
		}
		it.Value = unix.NsecToTimeval(d.Nanoseconds())
	}
	_, err := unix.Setitimer(unix.ItimerReal, it)
	return err
}
