package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_player_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "video_player_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_player_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Scanner metrics
var (
	ScanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "video_player_scan_duration_seconds",
			Help:    "Time taken to build the course tree",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	ScanVideosFound = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_player_scan_videos",
			Help: "Number of videos in the most recently built course tree",
		},
	)

	PlaylistCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_player_playlist_cache_requests_total",
			Help: "Playlist requests served from the fingerprint cache (hit) or rebuilt (miss)",
		},
		[]string{"result"},
	)
)

// Streaming metrics
var (
	StreamBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "video_player_stream_bytes_total",
			Help: "Total bytes of course files written to clients",
		},
	)

	StreamResponsesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_player_stream_responses_total",
			Help: "Media responses by kind (full, partial, unsatisfiable, head)",
		},
		[]string{"kind"},
	)

	StreamClientDisconnects = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "video_player_stream_client_disconnects_total",
			Help: "Media streams aborted because the client went away",
		},
	)
)

// Probe metrics
var (
	ProbeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "video_player_probe_duration_seconds",
			Help:    "ffprobe run time by purpose",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"purpose"},
	)

	ProbeFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_player_probe_failures_total",
			Help: "ffprobe runs that failed or timed out, by purpose",
		},
		[]string{"purpose"},
	)
)

// Conversion metrics
var (
	ConversionPhase = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "video_player_conversion_phase",
			Help: "Current conversion phase (1 for the active phase, 0 otherwise)",
		},
		[]string{"phase"},
	)

	ConversionPending = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_player_conversion_pending_files",
			Help: "Files found by the scan that need remux or transcode",
		},
	)

	ConversionFilesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_player_conversion_files_total",
			Help: "Files processed by the conversion pipeline",
		},
		[]string{"mode", "result"},
	)

	ConversionStrategyRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_player_conversion_strategy_runs_total",
			Help: "Encoder invocations by strategy and outcome",
		},
		[]string{"strategy", "result"},
	)

	ConversionJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "video_player_conversion_job_duration_seconds",
			Help:    "Encoder run time by strategy",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200, 3600},
		},
		[]string{"strategy"},
	)

	ConversionInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_player_conversion_in_progress",
			Help: "Whether an encoder process is currently running",
		},
	)
)

// Filesystem retry metrics
var (
	FilesystemRetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_player_filesystem_retry_attempts_total",
			Help: "Retries after a stale file handle",
		},
		[]string{"operation"},
	)

	FilesystemRetrySuccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_player_filesystem_retry_success_total",
			Help: "Operations that succeeded after at least one retry",
		},
		[]string{"operation"},
	)

	FilesystemRetryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_player_filesystem_retry_failures_total",
			Help: "Operations that still failed after exhausting retries",
		},
		[]string{"operation"},
	)

	FilesystemStaleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_player_filesystem_stale_errors_total",
			Help: "ESTALE errors observed",
		},
		[]string{"operation"},
	)

	FilesystemRetryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "video_player_filesystem_operation_duration_seconds",
			Help:    "Total time spent in a retried filesystem operation",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.05, 0.1, 0.5, 1, 2},
		},
		[]string{"operation"},
	)
)

// Application info
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "video_player_app_info",
			Help: "Build information (always 1)",
		},
		[]string{"version", "commit", "go_version"},
	)
)
