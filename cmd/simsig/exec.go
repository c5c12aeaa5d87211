package main

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/srozzo/simsig/signals"
)

// timedOutStatus matches timeout(1).
const timedOutStatus = 124

var (
	execTimeout        time.Duration
	execIgnoreTerminal bool
)

var execCmd = &cobra.Command{
	Use:   "exec [flags] -- command [args...]",
	Short: "Run a command under a managed signal setup",
	Long: `Run a command and relay signals to it.

Hangups, user signals and window changes are forwarded to the child.
Interrupts and terminations are forwarded first and then shut simsig down
gracefully, waiting up to the configured grace period for the child. With
--timeout the child is killed when it runs too long and simsig exits 124.
Otherwise simsig exits with the child's status.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExec,
}

func init() {
	execCmd.Flags().DurationVarP(&execTimeout, "timeout", "t", 0, "Kill the command after this long (0 means never)")
	execCmd.Flags().BoolVar(&execIgnoreTerminal, "ignore-terminal", false, "Ignore signals from the controlling terminal")
	rootCmd.AddCommand(execCmd)
}

func runExec(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if execTimeout > 0 {
		cfg.Timeout = execTimeout
	}
	if execIgnoreTerminal {
		cfg.IgnoreTerminal = true
	}

	r := newRegistry(cfg)
	defer r.Stop()

	s := &supervisor{
		r:      r,
		child:  exec.Command(args[0], args[1:]...),
		exited: make(chan struct{}),
	}
	s.child.Stdin, s.child.Stdout, s.child.Stderr = os.Stdin, os.Stdout, os.Stderr

	// Nothing may slip past between installing the relays and having a
	// child to relay to.
	unblock, err := r.Block(signals.TerminatingSignals()...)
	switch {
	case errors.Is(err, signals.ErrUnsupported):
		unblock = func() {}
	case err != nil:
		return err
	}
	defer unblock()

	if err := s.install(cfg); err != nil {
		log.Warn("%s", err)
	}
	if err := s.child.Start(); err != nil {
		return err
	}
	s.proc.Store(s.child.Process)
	log.SayAs("debug", "started %s (pid %d)", args[0], s.child.Process.Pid)
	unblock()

	return s.wait(cmd.Context(), cfg.Timeout)
}

type supervisor struct {
	r      *signals.Registry
	child  *exec.Cmd
	proc   atomic.Pointer[os.Process]
	exited chan struct{}
}

func (s *supervisor) forward(_ context.Context, sig os.Signal) {
	p := s.proc.Load()
	if p == nil {
		return
	}
	log.SayAs("debug", "forwarding %v to pid %d", sig, p.Pid)
	if err := p.Signal(sig); err != nil && !errors.Is(err, os.ErrProcessDone) {
		log.Warn("forwarding %v: %s", sig, err)
	}
}

// install applies cfg, then relays signals to the child. Signals that cfg
// left ignored stay ignored.
func (s *supervisor) install(cfg *signals.Config) error {
	var errs []error
	errs = append(errs, cfg.Apply(s.r, s.awaitChild))

	relay := signals.Available("SIGHUP", "SIGUSR1", "SIGUSR2", "SIGWINCH")
	stop := signals.Available("SIGINT", "SIGTERM", "SIGQUIT")

	forward := signals.Custom(s.forward).Named("forward")
	for _, sig := range relay {
		if s.r.Get(sig) == signals.IgnoreDisposition {
			continue
		}
		errs = append(errs, s.r.SetHandler(forward, sig))
	}
	for _, sig := range stop {
		if s.r.Get(sig) == signals.IgnoreDisposition {
			continue
		}
		errs = append(errs, s.r.Chain(sig, forward, signals.Before))
	}
	return errors.Join(errs...)
}

// awaitChild is the graceful-shutdown callback: the stop signal has already
// been forwarded, so give the child its grace period to exit.
func (s *supervisor) awaitChild() {
	<-s.exited
}

func (s *supervisor) wait(ctx context.Context, timeout time.Duration) error {
	var waitErr error
	block := func(ctx context.Context) error {
		done := make(chan error, 1)
		go func() { done <- s.child.Wait() }()
		select {
		case waitErr = <-done:
			close(s.exited)
			return nil
		case <-ctx.Done():
			return context.Cause(ctx)
		}
	}

	err := s.r.WithTimeout(ctx, timeout, block)
	switch {
	case errors.Is(err, signals.ErrTimeoutExceeded):
		log.Warn("%s exceeded %s; killing it", s.child.Path, timeout)
		_ = s.child.Process.Kill()
		return exitCodeError{code: timedOutStatus}
	case errors.Is(err, signals.ErrUnsupported):
		if timeout > 0 {
			log.Warn("timeouts are not supported on this platform; waiting without one")
		}
		if err := block(ctx); err != nil {
			return err
		}
	case err != nil:
		return err
	}
	return childStatus(waitErr)
}

// childStatus maps the child's wait error onto our own exit status.
func childStatus(err error) error {
	if err == nil {
		return nil
	}
	var ee *exec.ExitError
	if !errors.As(err, &ee) {
		return err
	}
	code := ee.ExitCode()
	if ws, ok := ee.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		code = signals.ExitCode(ws.Signal())
	}
	if code < 0 {
		code = 1
	}
	log.SayAs("debug", "child exited: %s", err)
	return exitCodeError{code: code}
}
