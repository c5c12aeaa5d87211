package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/oklog/run"
	"github.com/spf13/cobra"

	"github.com/srozzo/simsig"
	"github.com/srozzo/simsig/loop"
	"github.com/srozzo/simsig/signals"
)

var watchCmd = &cobra.Command{
	Use:   "watch [signal...]",
	Short: "Print signals as they arrive",
	Long: `Print each listed signal as it is delivered to this process, until an
interrupt or termination arrives. Defaults to SIGHUP, SIGUSR1 and SIGUSR2.

  simsig watch
  simsig watch winch usr1`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func watchSignals(names []string) ([]os.Signal, error) {
	if len(names) == 0 {
		return signals.Available("SIGHUP", "SIGUSR1", "SIGUSR2"), nil
	}
	out := make([]os.Signal, 0, len(names))
	for _, name := range names {
		id, err := simsig.Resolve(name)
		if err != nil {
			return nil, exitCodeError{code: 2, err: err}
		}
		out = append(out, id.Num)
	}
	return out, nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	sigs, err := watchSignals(args)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	r := newRegistry(cfg)
	defer r.Stop()

	l := loop.New(loop.StopOn(signals.Available("SIGINT", "SIGTERM")...))
	l.Add(watcher(r, sigs, cmd.OutOrStdout()), nil)

	err = l.Run(cmd.Context())
	var se run.SignalError
	if errors.As(err, &se) {
		log.Say("stopping on %v", se.Signal)
		return nil
	}
	return err
}

func watcher(r *signals.Registry, sigs []os.Signal, w io.Writer) func(context.Context) error {
	return func(ctx context.Context) error {
		show := signals.Custom(func(_ context.Context, sig os.Signal) {
			fmt.Fprintf(w, "%s %v\n", time.Now().Format(time.RFC3339), sig)
		}).Named("watch")
		if err := r.RegisterAsync(ctx, show, sigs...); err != nil {
			return err
		}
		log.Say("watching %v (pid %d)", sigs, os.Getpid())
		<-ctx.Done()
		return nil
	}
}
