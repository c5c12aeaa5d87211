package signals

import "time"

// Policy tunes the terminate reaction and callback dispatch.
type Policy struct {
	// GracePeriod bounds how long the shutdown callback may run before the
	// process exits anyway. Zero waits for the callback to return.
	GracePeriod time.Duration

	// LogPanics logs panics recovered from callbacks on the dispatch goroutine.
	LogPanics bool
}

func defaultPolicy() Policy {
	return Policy{
		GracePeriod: 30 * time.Second,
		LogPanics:   true,
	}
}
