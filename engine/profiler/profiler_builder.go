package profiler

import (
	"log"
	"time"
)

// ProfilerOption is a functional option for configuring a Profiler.
type ProfilerOption func(*Profiler)

// WithInterval sets how often statistics are logged.
//
// Parameters:
//   - interval: the logging interval; values <= 0 are ignored
//
// Returns:
//   - ProfilerOption: option function to apply
func WithInterval(interval time.Duration) ProfilerOption {
	return func(p *Profiler) {
		if interval > 0 {
			p.updateInterval = interval
		}
	}
}

// WithCounter registers a monotonically increasing counter whose rate is logged each interval,
// e.g. camera frames written by the camera stack service.
//
// Parameters:
//   - name: label in the log line
//   - read: returns the counter's current value
//
// Returns:
//   - ProfilerOption: option function to apply
func WithCounter(name string, read func() uint64) ProfilerOption {
	return func(p *Profiler) {
		if read != nil {
			p.counters = append(p.counters, &counter{name: name, read: read})
		}
	}
}

// WithClock replaces the wall clock.
//
// Parameters:
//   - now: the clock function
//
// Returns:
//   - ProfilerOption: option function to apply
func WithClock(now func() time.Time) ProfilerOption {
	return func(p *Profiler) {
		if now != nil {
			p.now = now
		}
	}
}

// WithLogger sets the destination of the summary lines.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - ProfilerOption: option function to apply
func WithLogger(logger *log.Logger) ProfilerOption {
	return func(p *Profiler) {
		if logger != nil {
			p.logger = logger
		}
	}
}
