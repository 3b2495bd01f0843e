package middleware

import (
	"compress/gzip"
	"io"
	"mime"
	"net/http"
	"slices"
	"strings"
	"sync"

	"github.com/Lacarte/video-player/internal/logging"
	"github.com/Lacarte/video-player/internal/scanner"
)

// CompressionConfig holds configuration for the compression middleware
type CompressionConfig struct {
	// MinSize is the smallest body, in bytes, worth compressing. The
	// conversion status poll usually stays under it; the playlist does not.
	MinSize int
	// Level is the gzip level (gzip.BestSpeed to gzip.BestCompression)
	Level int
	// CompressibleTypes are the media types of the web UI and the API.
	CompressibleTypes []string
	// SkipPrefixes are paths passed through untouched. Media bytes are
	// already compressed and must keep exact ranges; /metrics negotiates
	// its own encoding.
	SkipPrefixes []string
}

// DefaultCompressionConfig returns sensible defaults for compression
func DefaultCompressionConfig() CompressionConfig {
	return CompressionConfig{
		MinSize: 1024,
		Level:   gzip.DefaultCompression,
		CompressibleTypes: []string{
			"text/html",
			"text/css",
			"text/plain",
			"text/javascript",
			"application/javascript",
			"application/json",
			"image/svg+xml",
		},
		SkipPrefixes: []string{scanner.MediaPrefix, "/metrics"},
	}
}

// gzipWriterPool holds writers at gzip.DefaultCompression.
var gzipWriterPool = sync.Pool{
	New: func() any {
		w, _ := gzip.NewWriterLevel(io.Discard, gzip.DefaultCompression)
		return w
	},
}

// gzipResponseWriter holds back the first MinSize bytes so it can decide
// from the content type and size whether the response is compressed.
type gzipResponseWriter struct {
	http.ResponseWriter
	config     CompressionConfig
	buffer     []byte
	statusCode int
	decided    bool
	gzipWriter *gzip.Writer
}

func newGzipResponseWriter(w http.ResponseWriter, config CompressionConfig) *gzipResponseWriter {
	return &gzipResponseWriter{
		ResponseWriter: w,
		config:         config,
		statusCode:     http.StatusOK,
		buffer:         make([]byte, 0, config.MinSize+1),
	}
}

func (g *gzipResponseWriter) WriteHeader(statusCode int) {
	if !g.decided {
		g.statusCode = statusCode
	}
}

func (g *gzipResponseWriter) Write(data []byte) (int, error) {
	if g.decided {
		if g.gzipWriter != nil {
			return g.gzipWriter.Write(data)
		}
		return g.ResponseWriter.Write(data)
	}

	g.buffer = append(g.buffer, data...)
	if len(g.buffer) > g.config.MinSize {
		g.decide()
	}
	return len(data), nil
}

// compressible reports whether the handler's response qualifies. A
// handler that already set Content-Encoding is left alone.
func (g *gzipResponseWriter) compressible() bool {
	h := g.Header()
	if h.Get("Content-Encoding") != "" || len(g.buffer) < g.config.MinSize {
		return false
	}
	switch g.statusCode {
	case http.StatusNoContent, http.StatusNotModified, http.StatusPartialContent:
		return false
	}
	mediaType, _, err := mime.ParseMediaType(h.Get("Content-Type"))
	if err != nil {
		return false
	}
	return slices.Contains(g.config.CompressibleTypes, mediaType)
}

// pooled reports whether this writer's level matches the pooled writers.
func (g *gzipResponseWriter) pooled() bool {
	return g.config.Level == gzip.DefaultCompression
}

func (g *gzipResponseWriter) newGzipWriter() *gzip.Writer {
	if g.pooled() {
		gw := gzipWriterPool.Get().(*gzip.Writer)
		gw.Reset(g.ResponseWriter)
		return gw
	}
	gw, err := gzip.NewWriterLevel(g.ResponseWriter, g.config.Level)
	if err != nil {
		gw = gzip.NewWriter(g.ResponseWriter)
	}
	return gw
}

// decide sends the header and the held-back bytes, compressed or not.
func (g *gzipResponseWriter) decide() {
	if g.decided {
		return
	}
	g.decided = true

	var out io.Writer = g.ResponseWriter
	if g.compressible() {
		h := g.Header()
		h.Del("Content-Length")
		h.Set("Content-Encoding", "gzip")
		h.Add("Vary", "Accept-Encoding")
		g.gzipWriter = g.newGzipWriter()
		out = g.gzipWriter
	}

	g.ResponseWriter.WriteHeader(g.statusCode)
	if len(g.buffer) > 0 {
		if _, err := out.Write(g.buffer); err != nil {
			logging.Debug("compression: write buffered body: %v", err)
		}
	}
	g.buffer = nil
}

// Close flushes what is still held back and returns the gzip writer to
// the pool.
func (g *gzipResponseWriter) Close() error {
	g.decide()
	if g.gzipWriter == nil {
		return nil
	}

	err := g.gzipWriter.Close()
	if g.pooled() {
		gzipWriterPool.Put(g.gzipWriter)
	}
	g.gzipWriter = nil
	return err
}

func (g *gzipResponseWriter) Flush() {
	g.decide()
	if g.gzipWriter != nil {
		if err := g.gzipWriter.Flush(); err != nil {
			logging.Debug("compression: flush: %v", err)
		}
	}
	if flusher, ok := g.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (g *gzipResponseWriter) Unwrap() http.ResponseWriter {
	return g.ResponseWriter
}

// bypass reports whether r is served without the compression wrapper.
func (c CompressionConfig) bypass(r *http.Request) bool {
	if r.Method == http.MethodHead || r.Header.Get("Range") != "" {
		return true
	}
	if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
		return true
	}
	for _, prefix := range c.SkipPrefixes {
		if strings.HasPrefix(r.URL.Path, prefix) {
			return true
		}
	}
	return false
}

// Compression gzips playlist JSON and web assets for clients that accept
// it. Media streams, range requests and HEAD pass straight through.
func Compression(config CompressionConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if config.bypass(r) {
				next.ServeHTTP(w, r)
				return
			}

			gzw := newGzipResponseWriter(w, config)
			defer func() {
				if err := gzw.Close(); err != nil {
					logging.Debug("compression: close: %v", err)
				}
			}()
			next.ServeHTTP(gzw, r)
		})
	}
}
