package signals

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/srozzo/simsig"
)

// Config declares a signal setup that can be kept in a file.
type Config struct {
	Debug       bool          `yaml:"debug" toml:"debug"`
	GracePeriod time.Duration `yaml:"gracePeriod" toml:"grace_period"`
	LogPanics   bool          `yaml:"logPanics" toml:"log_panics"`

	// GracefulShutdown installs Terminate on every terminating signal.
	GracefulShutdown bool `yaml:"gracefulShutdown" toml:"graceful_shutdown"`
	// IgnoreTerminal ignores the controlling terminal's signals.
	IgnoreTerminal bool `yaml:"ignoreTerminal" toml:"ignore_terminal"`

	// Ignore and Default list signal names or numbers to set explicitly.
	// They are applied after the switches above, Default last.
	Ignore  []string `yaml:"ignore" toml:"ignore"`
	Default []string `yaml:"default" toml:"default"`

	// Timeout bounds commands run under the config; zero means none.
	Timeout time.Duration `yaml:"timeout" toml:"timeout"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	p := defaultPolicy()
	return &Config{
		GracePeriod:      p.GracePeriod,
		LogPanics:        p.LogPanics,
		GracefulShutdown: true,
	}
}

// LoadConfig reads a YAML (.yaml, .yml) or TOML (.toml) file on top of
// DefaultConfig. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	// #nosec G304 - path comes from the operator
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return DefaultConfig(), fmt.Errorf("signals: parsing %s: %w", path, err)
		}
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return DefaultConfig(), fmt.Errorf("signals: parsing %s: %w", path, err)
		}
	default:
		return DefaultConfig(), fmt.Errorf("%w: config format %q", ErrInvalidArgument, ext)
	}
	return cfg, nil
}

// Options turns the config into registry options.
func (c *Config) Options() []Option {
	return []Option{
		WithDebug(c.Debug),
		WithPolicy(Policy{GracePeriod: c.GracePeriod, LogPanics: c.LogPanics}),
	}
}

// Apply installs the configured reactions on r. onShutdown, if non-nil,
// becomes the graceful-shutdown callback.
func (c *Config) Apply(r *Registry, onShutdown func()) error {
	ignore, err := resolveNames(c.Ignore)
	if err != nil {
		return err
	}
	dflt, err := resolveNames(c.Default)
	if err != nil {
		return err
	}

	var errs []error
	if c.GracefulShutdown {
		if onShutdown != nil {
			errs = append(errs, r.GracefulShutdown(onShutdown))
		} else {
			errs = append(errs, r.SetHandler(Terminate, TerminatingSignals()...))
		}
	}
	if c.IgnoreTerminal {
		errs = append(errs, r.IgnoreTerminalSignals())
	}
	if len(ignore) > 0 {
		errs = append(errs, r.SetHandler(Ignore, ignore...))
	}
	if len(dflt) > 0 {
		errs = append(errs, r.SetHandler(UseDefault, dflt...))
	}
	return errors.Join(errs...)
}

func resolveNames(names []string) ([]os.Signal, error) {
	out := make([]os.Signal, 0, len(names))
	for _, name := range names {
		id, err := simsig.Resolve(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
		out = append(out, id.Num)
	}
	return out, nil
}
