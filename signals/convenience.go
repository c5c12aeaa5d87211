package signals

import (
	"context"
	"os"
	"time"
)

// Default is the process-wide registry used by the package-level functions.
// Everything installed through it affects the whole process.
var Default = NewRegistry()

// Set installs h for sigs on the Default registry.
func Set(h *Handler, sigs ...os.Signal) error { return Default.Set(h, sigs...) }

// SetHandler installs rc for sigs on the Default registry.
func SetHandler(rc Reaction, sigs ...os.Signal) error { return Default.SetHandler(rc, sigs...) }

// Get reports the disposition in effect for sig on the Default registry.
func Get(sig os.Signal) *Handler { return Default.Get(sig) }

// GracefulShutdown is a convenience wrapper over Default.GracefulShutdown.
func GracefulShutdown(cb func()) error { return Default.GracefulShutdown(cb) }

// Chain is a convenience wrapper over Default.Chain.
func Chain(sig os.Signal, rc Reaction, order Order) error { return Default.Chain(sig, rc, order) }

// IgnoreTerminalSignals is a convenience wrapper over Default.IgnoreTerminalSignals.
func IgnoreTerminalSignals() error { return Default.IgnoreTerminalSignals() }

// Reset puts every catchable signal back to default on the Default registry.
func Reset() { Default.Reset() }

// Stop ends dispatch on the Default registry.
func Stop() { Default.Stop() }

// Override is a convenience wrapper over Default.Override.
func Override(rc Reaction, sigs ...os.Signal) (func(), error) { return Default.Override(rc, sigs...) }

// WithOverride is a convenience wrapper over Default.WithOverride.
func WithOverride(ctx context.Context, rc Reaction, sigs []os.Signal, fn func(context.Context) error) error {
	return Default.WithOverride(ctx, rc, sigs, fn)
}

// WithTimeout is a convenience wrapper over Default.WithTimeout.
func WithTimeout(ctx context.Context, d time.Duration, fn func(context.Context) error) error {
	return Default.WithTimeout(ctx, d, fn)
}

// Block is a convenience wrapper over Default.Block.
func Block(sigs ...os.Signal) (func(), error) { return Default.Block(sigs...) }

// WithBlocked is a convenience wrapper over Default.WithBlocked.
func WithBlocked(ctx context.Context, sigs []os.Signal, fn func(context.Context) error) error {
	return Default.WithBlocked(ctx, sigs, fn)
}

// RegisterAsync is a convenience wrapper over Default.RegisterAsync.
func RegisterAsync(ctx context.Context, rc Reaction, sigs ...os.Signal) error {
	return Default.RegisterAsync(ctx, rc, sigs...)
}

// SetLogger sets the logger for the Default registry. Safe for concurrent use.
func SetLogger(l LoggerFunc) {
	Default.mu.Lock()
	Default.logf = l
	Default.mu.Unlock()
}

// SetPolicy sets the policy for the Default registry. Safe for concurrent use;
// the terminate reaction reads it when a signal arrives.
func SetPolicy(p Policy) {
	Default.mu.Lock()
	Default.policy = p
	Default.mu.Unlock()
}

// SetDebug toggles debug logging for the Default registry. Safe for concurrent use.
func SetDebug(enabled bool) {
	Default.mu.Lock()
	Default.debug = enabled
	Default.mu.Unlock()
}
