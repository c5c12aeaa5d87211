//go:build windows

package signals

import (
	"fmt"
	"runtime"
	"syscall"
	"time"
)

func raise(sig syscall.Signal) error {
	return fmt.Errorf("%w: raising %v on %s", ErrUnsupported, sig, runtime.GOOS)
}

func setAlarm(time.Duration) error {
	return fmt.Errorf("%w: alarm countdown on %s", ErrUnsupported, runtime.GOOS)
}
