package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/cortesi/termlog"
	"github.com/spf13/cobra"

	"github.com/srozzo/simsig/signals"
)

var (
	debug      bool
	configPath string

	log = termlog.NewLog()
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Log registry activity")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Signal config file (.yaml, .yml or .toml)")
}

var rootCmd = &cobra.Command{
	Use:   "simsig",
	Short: "Inspect and manage process signals",
	Long: `simsig reports which signals this platform knows about and runs commands
under a managed signal setup.

  simsig list --json
  simsig has TERM
  simsig exec --timeout 30s -- make test
  simsig watch USR1 HUP`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if debug {
			log.Enable("debug")
		}
	},
}

// exitCodeError ends the process with a specific status and no extra output
// beyond what err says.
type exitCodeError struct {
	code int
	err  error
}

func (e exitCodeError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e exitCodeError) Unwrap() error { return e.err }

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(report(err))
	}
}

func report(err error) int {
	var ec exitCodeError
	if errors.As(err, &ec) {
		if ec.err != nil {
			log.Shout("%s", ec.err)
		}
		return ec.code
	}
	log.Shout("%s", err)
	return 1
}

// loadConfig reads --config, or returns the defaults when none was given.
func loadConfig() (*signals.Config, error) {
	if configPath == "" {
		cfg := signals.DefaultConfig()
		cfg.Debug = debug
		return cfg, nil
	}
	cfg, err := signals.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	cfg.Debug = cfg.Debug || debug
	return cfg, nil
}

// newRegistry builds a registry that logs through termlog. The registry
// gates its own debug output on cfg.Debug.
func newRegistry(cfg *signals.Config) *signals.Registry {
	opts := append(cfg.Options(), signals.WithLogger(log.Say))
	return signals.NewRegistry(opts...)
}
