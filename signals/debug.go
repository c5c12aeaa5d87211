package signals

// debugf logs only when debug output is enabled on r.
func (r *Registry) debugf(format string, args ...any) {
	r.mu.Lock()
	on, logf := r.debug, r.logf
	r.mu.Unlock()
	if on {
		logf(format, args...)
	}
}

// warnf always logs.
func (r *Registry) warnf(format string, args ...any) {
	r.mu.Lock()
	logf := r.logf
	r.mu.Unlock()
	logf(format, args...)
}
