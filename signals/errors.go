package signals

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrUnsupported reports a platform without a required primitive (alarm
	// countdown, delivery masking). It is returned before any state changes.
	ErrUnsupported = fmt.Errorf("signals: %w", errors.ErrUnsupported)

	ErrInvalidArgument   = errors.New("signals: invalid argument")
	ErrInstallation      = errors.New("signals: installation failed")
	ErrUncatchable       = errors.New("signal cannot be caught or ignored")
	ErrTimeoutExceeded   = errors.New("signals: timeout exceeded")
	ErrNoActiveScheduler = errors.New("signals: no active scheduler")
)

// InstallError describes a single signal whose disposition could not be
// changed. It matches ErrInstallation with errors.Is.
type InstallError struct {
	Signal os.Signal
	Err    error
}

func (e *InstallError) Error() string {
	return fmt.Sprintf("signals: cannot install handler for %v: %v", e.Signal, e.Err)
}

func (e *InstallError) Unwrap() error { return e.Err }

func (e *InstallError) Is(target error) bool { return target == ErrInstallation }
