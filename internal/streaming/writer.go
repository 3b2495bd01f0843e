package streaming

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/Lacarte/video-player/internal/logging"
)

// DefaultChunkSize bounds how much of a media file is held in memory and
// handed to the connection per write.
const DefaultChunkSize = 2 << 20

// Sentinel errors for streaming operations.
var (
	// ErrWriteTimeout indicates that a single write exceeded WriteTimeout,
	// usually because the client stopped reading.
	ErrWriteTimeout = errors.New("write timeout exceeded")

	// ErrClientGone indicates that the request context ended before the
	// body was fully written.
	ErrClientGone = errors.New("client disconnected")

	// ErrStreamCanceled indicates that the writer was closed or timed out
	// while idle.
	ErrStreamCanceled = errors.New("stream canceled")
)

// WriterConfig configures a TimeoutWriter.
type WriterConfig struct {
	// WriteTimeout is the maximum time to wait for a single chunk write
	WriteTimeout time.Duration
	// IdleTimeout is the maximum time between successful writes
	IdleTimeout time.Duration
	// ChunkSize splits larger writes and sizes the copy buffer
	ChunkSize int
}

// DefaultWriterConfig returns the configuration used for /media/ responses.
func DefaultWriterConfig() WriterConfig {
	return WriterConfig{
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		ChunkSize:    DefaultChunkSize,
	}
}

// TimeoutWriter wraps an http.ResponseWriter so a stalled client cannot pin
// a handler goroutine forever.
type TimeoutWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
	ctx     context.Context
	cancel  context.CancelFunc
	config  WriterConfig

	mu           sync.Mutex
	start        time.Time
	lastWrite    time.Time
	bytesWritten int64
	closed       bool
}

// NewTimeoutWriter creates a writer bound to ctx, normally the request
// context.
func NewTimeoutWriter(ctx context.Context, w http.ResponseWriter, config WriterConfig) *TimeoutWriter {
	writerCtx, cancel := context.WithCancel(ctx)
	now := time.Now()

	tw := &TimeoutWriter{
		w:         w,
		ctx:       writerCtx,
		cancel:    cancel,
		config:    config,
		start:     now,
		lastWrite: now,
	}
	if f, ok := w.(http.Flusher); ok {
		tw.flusher = f
	}

	go tw.watchIdle()

	return tw
}

// Write implements io.Writer. Payloads larger than ChunkSize are written
// and flushed one chunk at a time.
func (tw *TimeoutWriter) Write(p []byte) (int, error) {
	tw.mu.Lock()
	closed := tw.closed
	tw.mu.Unlock()
	if closed {
		return 0, ErrStreamCanceled
	}

	chunk := tw.config.ChunkSize
	if chunk <= 0 {
		chunk = len(p)
	}

	written := 0
	for len(p) > 0 {
		if err := tw.ctx.Err(); err != nil {
			return written, tw.contextError()
		}

		n := min(chunk, len(p))
		m, err := tw.writeChunk(p[:n])
		written += m
		if err != nil {
			return written, err
		}
		p = p[n:]

		if tw.flusher != nil {
			tw.flusher.Flush()
		}
	}
	return written, nil
}

func (tw *TimeoutWriter) writeChunk(p []byte) (int, error) {
	type result struct {
		n   int
		err error
	}
	done := make(chan result, 1)

	go func() {
		n, err := tw.w.Write(p)
		done <- result{n, err}
	}()

	timer := time.NewTimer(tw.config.WriteTimeout)
	defer timer.Stop()

	select {
	case res := <-done:
		if res.err == nil {
			tw.mu.Lock()
			tw.lastWrite = time.Now()
			tw.bytesWritten += int64(res.n)
			tw.mu.Unlock()
		}
		return res.n, res.err
	case <-timer.C:
		tw.cancel()
		return 0, ErrWriteTimeout
	case <-tw.ctx.Done():
		return 0, tw.contextError()
	}
}

func (tw *TimeoutWriter) watchIdle() {
	if tw.config.IdleTimeout <= 0 {
		return
	}

	ticker := time.NewTicker(tw.config.IdleTimeout / 4)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			tw.mu.Lock()
			idle := time.Since(tw.lastWrite)
			closed := tw.closed
			tw.mu.Unlock()

			if closed {
				return
			}
			if idle > tw.config.IdleTimeout {
				logging.Warn("Stream idle for %v, closing", idle)
				tw.cancel()
				return
			}
		case <-tw.ctx.Done():
			return
		}
	}
}

func (tw *TimeoutWriter) contextError() error {
	tw.mu.Lock()
	closed := tw.closed
	tw.mu.Unlock()
	if !closed && errors.Is(tw.ctx.Err(), context.Canceled) {
		return ErrClientGone
	}
	return ErrStreamCanceled
}

// Close stops the idle watcher. Further writes fail with ErrStreamCanceled.
func (tw *TimeoutWriter) Close() error {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if !tw.closed {
		tw.closed = true
		tw.cancel()
	}
	return nil
}

// Stats returns the bytes written so far and the time since creation.
func (tw *TimeoutWriter) Stats() (int64, time.Duration) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	return tw.bytesWritten, time.Since(tw.start)
}
