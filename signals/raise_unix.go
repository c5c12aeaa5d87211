//go:build unix

package signals

import (
	"syscall"

	"golang.org/x/sys/unix"
)

func raise(sig syscall.Signal) error {
	return unix.Kill(unix.Getpid(), sig)
}
