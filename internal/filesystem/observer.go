package filesystem

// Observer records filesystem retry metrics. The metrics package provides
// the implementation so that filesystem does not import it.
type Observer interface {
	// op is "stat" or "open".
	ObserveRetryAttempt(op string)
	ObserveRetrySuccess(op string)
	ObserveRetryFailure(op string)
	ObserveRetryDuration(op string, durationSeconds float64)
	ObserveStaleError(op string)
}

// defaultObserver is nil until startup wires one; recording is skipped
// while it is nil.
var defaultObserver Observer

// SetObserver sets the package-level metrics observer.
func SetObserver(o Observer) {
	defaultObserver = o
}

func observe() Observer {
	return defaultObserver
}
