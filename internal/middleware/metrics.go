package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Lacarte/video-player/internal/metrics"
	"github.com/Lacarte/video-player/internal/scanner"
)

// maxPathSegments bounds how much of an unknown path becomes a label.
const maxPathSegments = 5

// wildcardPrefixes collapse to a single label each.
var wildcardPrefixes = []string{scanner.MediaPrefix, "/static/"}

// metricsResponseWriter captures the status code and, for streaming
// responses, the time the first byte went out.
type metricsResponseWriter struct {
	http.ResponseWriter
	statusCode  int
	startTime   time.Time
	firstByte   time.Time
	streaming   bool
	wroteHeader bool
}

func newMetricsResponseWriter(w http.ResponseWriter, startTime time.Time, streaming bool) *metricsResponseWriter {
	return &metricsResponseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
		startTime:      startTime,
		streaming:      streaming,
	}
}

func (rw *metricsResponseWriter) markFirstByte() {
	if !rw.wroteHeader {
		rw.wroteHeader = true
		rw.firstByte = time.Now()
	}
}

func (rw *metricsResponseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
	}
	rw.markFirstByte()
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *metricsResponseWriter) Write(b []byte) (int, error) {
	rw.markFirstByte()
	return rw.ResponseWriter.Write(b)
}

func (rw *metricsResponseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rw *metricsResponseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// GetDuration returns the time to first byte for streaming responses and
// the total handler time otherwise. A media stream can run for an hour;
// its total time says nothing about server latency.
func (rw *metricsResponseWriter) GetDuration() time.Duration {
	if rw.streaming && !rw.firstByte.IsZero() {
		return rw.firstByte.Sub(rw.startTime)
	}
	return time.Since(rw.startTime)
}

// MetricsConfig holds configuration for the metrics middleware
type MetricsConfig struct {
	// SkipPaths are paths that should not be recorded
	SkipPaths []string
}

// DefaultMetricsConfig returns the default metrics configuration
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		SkipPaths: []string{"/metrics", "/healthz", "/livez", "/readyz"},
	}
}

// isStreamingPath reports whether path serves course media.
func isStreamingPath(path string) bool {
	return strings.HasPrefix(path, scanner.MediaPrefix)
}

// Metrics returns a middleware that records Prometheus metrics
func Metrics(config MetricsConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Skip metrics for certain paths
			for _, path := range config.SkipPaths {
				if strings.HasPrefix(r.URL.Path, path) {
					next.ServeHTTP(w, r)
					return
				}
			}

			metrics.HTTPRequestsInFlight.Inc()
			defer metrics.HTTPRequestsInFlight.Dec()

			wrapped := newMetricsResponseWriter(w, time.Now(), isStreamingPath(r.URL.Path))

			next.ServeHTTP(wrapped, r)

			path := normalizePath(r.URL.Path)
			status := strconv.Itoa(wrapped.statusCode)

			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(wrapped.GetDuration().Seconds())
		})
	}
}

// normalizePath normalizes the path for metrics to avoid high cardinality
func normalizePath(path string) string {
	for _, prefix := range wildcardPrefixes {
		if strings.HasPrefix(path, prefix) {
			return prefix + "{path}"
		}
	}

	parts := strings.Split(path, "/")
	if len(parts) > maxPathSegments {
		return strings.Join(parts[:maxPathSegments], "/") + "/{path}"
	}
	return path
}
