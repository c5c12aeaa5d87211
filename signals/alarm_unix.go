//go:build unix && !linux

package signals

import (
	"sync"
	"syscall"
	"time"
)

// Without setitimer in x/sys for this platform the countdown is kept in
// process and delivers SIGALRM to ourselves, like alarm(2) would.
var alarmState struct {
	sync.Mutex
	timer *time.Timer
}

func setAlarm(d time.Duration) error {
	alarmState.Lock()
	defer alarmState.Unlock()
	if alarmState.timer != nil {
		alarmState.timer.Stop()
		alarmState.timer = nil
	}
	if d > 0 {
		alarmState.timer = time.AfterFunc(d, func() { _ = raise(syscall.SIGALRM) })
	}
	return nil
}
