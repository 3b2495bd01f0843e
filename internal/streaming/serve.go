package streaming

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/Lacarte/video-player/internal/filesystem"
	"github.com/Lacarte/video-player/internal/logging"
	"github.com/Lacarte/video-player/internal/mediatypes"
	"github.com/Lacarte/video-player/internal/metrics"
)

// ServeFile writes the file at path to w, honoring a single byte range
// from the request. The path must already be confined to the course root.
//
// Errors the client caused (going away mid-stream) are swallowed. The
// returned error is only for logging; the response has been written.
func ServeFile(w http.ResponseWriter, r *http.Request, path string, config WriterConfig) error {
	f, err := filesystem.OpenWithRetry(path, filesystem.DefaultRetryConfig())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			http.Error(w, "Not found", http.StatusNotFound)
			return nil
		}
		http.Error(w, "Failed to open file", http.StatusInternalServerError)
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			logging.Debug("close %s: %v", path, cerr)
		}
	}()

	info, err := f.Stat()
	if err != nil {
		http.Error(w, "Failed to stat file", http.StatusInternalServerError)
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		http.Error(w, "Not found", http.StatusNotFound)
		return nil
	}

	size := info.Size()
	h := w.Header()
	h.Set("Content-Type", mediatypes.GetMimeType(strings.ToLower(filepath.Ext(path))))
	h.Set("Accept-Ranges", "bytes")

	kind := "full"
	rng, err := ParseRange(r.Header.Get("Range"), size)
	switch {
	case errors.Is(err, ErrUnsatisfiable):
		h.Set("Content-Range", fmt.Sprintf("bytes */%d", size))
		metrics.StreamResponsesTotal.WithLabelValues("unsatisfiable").Inc()
		http.Error(w, "Requested range not satisfiable", http.StatusRequestedRangeNotSatisfiable)
		return nil

	case err == nil:
		h.Set("Content-Range", rng.ContentRange(size))
		h.Set("Content-Length", strconv.FormatInt(rng.Length(), 10))
		h.Set("Cache-Control", "public, max-age=3600")
		w.WriteHeader(http.StatusPartialContent)
		kind = "partial"

	default:
		if errors.Is(err, ErrMalformedRange) {
			logging.Debug("Ignoring malformed range %q for %s", r.Header.Get("Range"), path)
		}
		rng = ByteRange{Start: 0, End: size - 1}
		h.Set("Content-Length", strconv.FormatInt(size, 10))
		h.Set("Last-Modified", info.ModTime().UTC().Format(http.TimeFormat))
		w.WriteHeader(http.StatusOK)
	}

	if r.Method == http.MethodHead {
		kind = "head"
	}
	metrics.StreamResponsesTotal.WithLabelValues(kind).Inc()

	if r.Method == http.MethodHead || size == 0 {
		return nil
	}

	if rng.Start > 0 {
		if _, err := f.Seek(rng.Start, io.SeekStart); err != nil {
			return fmt.Errorf("seek %s: %w", path, err)
		}
	}

	tw := NewTimeoutWriter(r.Context(), w, config)
	defer func() {
		if cerr := tw.Close(); cerr != nil {
			logging.Debug("close stream writer: %v", cerr)
		}
	}()

	bufSize := config.ChunkSize
	if bufSize <= 0 {
		bufSize = DefaultChunkSize
	}
	buf := make([]byte, min(int64(bufSize), rng.Length()))

	n, err := io.CopyBuffer(tw, io.LimitReader(f, rng.Length()), buf)
	metrics.StreamBytesTotal.Add(float64(n))

	if err != nil {
		if IsClientGone(err) {
			metrics.StreamClientDisconnects.Inc()
			logging.Debug("Client went away after %d bytes of %s", n, filepath.Base(path))
			return nil
		}
		return fmt.Errorf("stream %s: %w", path, err)
	}

	written, elapsed := tw.Stats()
	logging.Debug("Streamed %d bytes of %s in %v", written, filepath.Base(path), elapsed)
	return nil
}

// IsClientGone reports whether err comes from the client disconnecting
// rather than from the server.
func IsClientGone(err error) bool {
	return errors.Is(err, ErrClientGone) ||
		errors.Is(err, ErrStreamCanceled) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, http.ErrHandlerTimeout)
}
