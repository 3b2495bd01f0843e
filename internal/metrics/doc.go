// Package metrics provides Prometheus instrumentation for the video player.
//
// All metrics are prefixed with "video_player_" and registered with the
// default registry through promauto, so importing the package is enough to
// expose them on /metrics.
//
// # Metric Categories
//
// ## HTTP Metrics
//
//   - HTTPRequestsTotal: Counter of requests by method, path, and status
//   - HTTPRequestDuration: Histogram of request duration by method and path
//   - HTTPRequestsInFlight: Gauge of currently processing requests
//
// ## Scanner Metrics
//
//   - ScanDuration: Histogram of course tree build time
//   - ScanVideosFound: Gauge of videos in the last built tree
//   - PlaylistCacheRequests: Counter of fingerprint cache hits and misses
//
// ## Streaming Metrics
//
//   - StreamBytesTotal: Counter of media bytes written
//   - StreamResponsesTotal: Counter of media responses by kind
//   - StreamClientDisconnects: Counter of aborted streams
//
// ## Probe and Conversion Metrics
//
//   - ProbeDuration, ProbeFailures: ffprobe timing and failures by purpose
//   - ConversionPhase: Gauge set to 1 for the active pipeline phase
//   - ConversionPending: Gauge of files awaiting conversion
//   - ConversionFilesTotal: Counter of converted files by mode and result
//   - ConversionStrategyRuns: Counter of encoder runs by strategy and result
//   - ConversionJobDuration: Histogram of encoder run time by strategy
//   - ConversionInProgress: Gauge that is 1 while ffmpeg runs
//
// ## Filesystem Metrics
//
// Retry behavior on network mounts, recorded through the observer returned
// by NewFilesystemObserver.
//
// # Usage
//
//	metrics.InitializeMetrics(version, commit, runtime.Version())
//	filesystem.SetObserver(metrics.NewFilesystemObserver())
//
//	timer := prometheus.NewTimer(metrics.ScanDuration)
//	defer timer.ObserveDuration()
package metrics
