package middleware

import (
	"log"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// responseWriter records the status and body size for the access log.
type responseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int64
	wroteHeader  bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
		rw.ResponseWriter.WriteHeader(code)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.wroteHeader = true
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += int64(n)
	return n, err
}

func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// LoggingConfig holds configuration for the logging middleware
type LoggingConfig struct {
	// ServiceName is written to the #Software directive.
	ServiceName string
	// SkipPaths are never logged.
	SkipPaths []string
	// StaticPrefixes mark web UI assets, logged only with LogStaticFiles.
	// Course files under /media/ are never treated as static, whatever
	// their extension.
	StaticPrefixes []string
	// PollPaths are hit every second by the UI while a conversion runs.
	// They are logged only when they fail.
	PollPaths       []string
	LogStaticFiles  bool
	LogHealthChecks bool
}

// DefaultLoggingConfig returns a sensible default configuration
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		ServiceName:     "VideoPlayer/1.0",
		StaticPrefixes:  []string{"/static/", "/favicon.ico"},
		PollPaths:       []string{"/api/conversion-status"},
		LogHealthChecks: true,
	}
}

// W3CLogger handles W3C Extended Log Format logging
type W3CLogger struct {
	config     LoggingConfig
	headerOnce sync.Once
}

// NewW3CLogger creates a new W3C format logger
func NewW3CLogger(config LoggingConfig) *W3CLogger {
	return &W3CLogger{config: config}
}

// w3cFields lists the columns written by logRequest. cs(Range) shows
// where a player seeked to.
const w3cFields = "date time c-ip cs-method cs-uri-stem cs-uri-query sc-status sc-bytes time-taken cs(Range) sc(Content-Encoding) cs(User-Agent) cs(Referer)"

var healthCheckPaths = map[string]bool{
	"/healthz": true,
	"/livez":   true,
	"/readyz":  true,
}

// writeHeader emits the W3C directives before the first entry.
func (l *W3CLogger) writeHeader() {
	l.headerOnce.Do(func() {
		log.Println("#Version: 1.0")
		if l.config.ServiceName != "" {
			log.Println("#Software: " + sanitizeLogField(l.config.ServiceName))
		}
		log.Println("#Fields: " + w3cFields)
	})
}

// sanitizeLogField keeps one request on one log line. Newlines become
// spaces; other control characters except tab are dropped, which also
// removes ANSI escapes. A file name with a newline in it still logs.
func sanitizeLogField(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\n' || r == '\r':
			b.WriteRune(' ')
		case r < 0x20 && r != '\t':
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Logger returns HTTP logging middleware using W3C Extended Log Format
func Logger(config LoggingConfig) func(http.Handler) http.Handler {
	logger := NewW3CLogger(config)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if config.skip(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			wrapped := newResponseWriter(w)
			next.ServeHTTP(wrapped, r)

			if wrapped.statusCode < http.StatusBadRequest && hasPrefix(r.URL.Path, config.PollPaths) {
				return
			}
			logger.logRequest(r, wrapped, time.Since(start))
		})
	}
}

// orDash returns "-" for an empty W3C field.
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// logRequest writes one entry. Every client-supplied field goes through
// sanitizeLogField.
func (l *W3CLogger) logRequest(r *http.Request, rw *responseWriter, duration time.Duration) {
	l.writeHeader()
	now := time.Now().UTC()

	uriQuery := orDash(sanitizeLogField(r.URL.RawQuery))
	rangeHeader := orDash(escapeW3CField(sanitizeLogField(r.Header.Get("Range"))))
	userAgent := orDash(escapeW3CField(sanitizeLogField(r.Header.Get("User-Agent"))))
	referer := orDash(escapeW3CField(sanitizeLogField(r.Header.Get("Referer"))))

	//nolint:gosec // user-controlled fields are sanitized above
	log.Printf("%s %s %s %s %s %s %d %d %d %s %s %s %s",
		now.Format("2006-01-02"),
		now.Format("15:04:05"),
		sanitizeLogField(getClientIP(r)),
		sanitizeLogField(r.Method),
		escapeW3CField(sanitizeLogField(r.URL.Path)),
		uriQuery,
		rw.statusCode,
		rw.bytesWritten,
		duration.Milliseconds(),
		rangeHeader,
		orDash(rw.Header().Get("Content-Encoding")),
		userAgent,
		referer,
	)
}

func hasPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// skip reports whether a request is dropped before it is served.
func (c LoggingConfig) skip(path string) bool {
	if hasPrefix(path, c.SkipPaths) {
		return true
	}
	if !c.LogHealthChecks && healthCheckPaths[path] {
		return true
	}
	return !c.LogStaticFiles && hasPrefix(path, c.StaticPrefixes)
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// escapeW3CField quotes a value containing whitespace or quotes, doubling
// any embedded quote.
func escapeW3CField(s string) string {
	if strings.ContainsAny(s, " \t\"") {
		s = strings.ReplaceAll(s, "\"", "\"\"")
		return "\"" + s + "\""
	}
	return s
}
