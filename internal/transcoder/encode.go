package transcoder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ErrEncoderFailed is returned when ffmpeg exits unsuccessfully.
var ErrEncoderFailed = errors.New("encoder failed")

const stderrTailSize = 4 << 10

// tailBuffer keeps the last limit bytes written to it.
type tailBuffer struct {
	mu    sync.Mutex
	limit int
	buf   []byte
}

func newTailBuffer(limit int) *tailBuffer {
	return &tailBuffer{limit: limit}
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.limit; over > 0 {
		t.buf = t.buf[over:]
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return strings.TrimSpace(string(t.buf))
}

// runEncoder starts ffmpeg and reads its progress stream while a second
// goroutine drains stderr. Both pipes are consumed to EOF before Wait.
func (c *Converter) runEncoder(ctx context.Context, args []string, total float64, onProgress ProgressFunc) error {
	cmd := c.runner.Command(ctx, c.cfg.FFmpegPath, args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("ffmpeg stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("ffmpeg stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: start ffmpeg: %v", ErrEncoderFailed, err)
	}

	tail := newTailBuffer(stderrTailSize)
	var g errgroup.Group
	g.Go(func() error {
		_, err := io.Copy(tail, stderr)
		return err
	})

	progressErr := ReadProgress(stdout, total, onProgress)
	if progressErr != nil {
		// Keep the pipe flowing so ffmpeg does not block on a full buffer.
		_, _ = io.Copy(io.Discard, stdout)
	}

	drainErr := g.Wait()
	waitErr := cmd.Wait()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if waitErr != nil {
		if msg := tail.String(); msg != "" {
			return fmt.Errorf("%w: %v: %s", ErrEncoderFailed, waitErr, lastLine(msg))
		}
		return fmt.Errorf("%w: %v", ErrEncoderFailed, waitErr)
	}
	if progressErr != nil {
		return fmt.Errorf("read ffmpeg progress: %w", progressErr)
	}
	if drainErr != nil {
		return fmt.Errorf("drain ffmpeg stderr: %w", drainErr)
	}
	return nil
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
