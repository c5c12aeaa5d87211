// Package signals installs, composes and temporarily overrides reactions to
// OS signals.
//
// A Registry maps each signal to the handler currently in effect. Handlers
// come from a Reaction: UseDefault, Ignore, Terminate, or Custom(callback).
// On top of the registry sit Chain (wrap the installed handler with another
// callback), Override and WithOverride (install for a scope, then restore),
// WithTimeout (bound a block with the alarm signal) and Block/WithBlocked
// (hold delivery for a critical section). RegisterAsync hands callbacks to a
// cooperative Scheduler instead of the registry.
//
// # Process-wide state
//
// Dispositions belong to the process, not to a Registry value. Two
// registries subscribing the same signal both see it, and Ignore or
// UseDefault on one undoes routing for every subscriber. Default is the one
// clearly process-wide registry behind the package-level functions; code
// that wants isolation in tests builds its own with WithSource.
//
// # Callback context
//
// Callbacks do not run inside a kernel signal handler. They run on the
// registry's dispatch goroutine, one delivery at a time, in arrival order.
// Treat that goroutine as a restricted context anyway: a callback that
// blocks holds back every later delivery, including the terminate reaction
// and timeouts. Hand long work to another goroutine. The registry lock is
// never held while a callback runs, so callbacks may install or restore
// handlers.
package signals
