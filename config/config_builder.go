package config

import "time"

// WatcherOption is a functional option for configuring a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the quiet period after the last file event before reloading.
//
// Parameters:
//   - d: the debounce duration; values <= 0 are ignored
//
// Returns:
//   - WatcherOption: option function to apply
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithErrorHandler replaces the default logging error handler.
//
// Parameters:
//   - fn: called with reload and watch errors
//
// Returns:
//   - WatcherOption: option function to apply
func WithErrorHandler(fn func(error)) WatcherOption {
	return func(w *Watcher) {
		if fn != nil {
			w.onError = fn
		}
	}
}
