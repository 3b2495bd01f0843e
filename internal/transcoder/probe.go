package transcoder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Lacarte/video-player/internal/metrics"
)

// Probe purposes, used as metric labels.
const (
	PurposeDuration = "duration"
	PurposeClassify = "classify"
	PurposeVerify   = "verify"
)

// Stream is one entry of ffprobe's "streams" array.
type Stream struct {
	Index       int    `json:"index"`
	CodecType   string `json:"codec_type"`
	CodecName   string `json:"codec_name"`
	Profile     string `json:"profile,omitempty"`
	PixFmt      string `json:"pix_fmt,omitempty"`
	Duration    string `json:"duration,omitempty"`
	Disposition struct {
		AttachedPic int `json:"attached_pic"`
	} `json:"disposition"`
}

// IsAttachedPicture reports whether the stream is cover art rather than
// playable video.
func (s Stream) IsAttachedPicture() bool {
	return s.Disposition.AttachedPic == 1
}

// Format is ffprobe's "format" object.
type Format struct {
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	Size       string `json:"size,omitempty"`
}

// ProbeResult is the decoded output of
// ffprobe -print_format json -show_format -show_streams.
type ProbeResult struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// ParseProbe decodes ffprobe JSON output.
func ParseProbe(data []byte) (*ProbeResult, error) {
	var res ProbeResult
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("parse ffprobe output: %w", err)
	}
	return &res, nil
}

// Duration returns the container duration in seconds, falling back to the
// first video stream. Zero means unknown.
func (p *ProbeResult) Duration() float64 {
	if d, err := strconv.ParseFloat(p.Format.Duration, 64); err == nil && d > 0 {
		return d
	}
	for _, s := range p.VideoStreams() {
		if d, err := strconv.ParseFloat(s.Duration, 64); err == nil && d > 0 {
			return d
		}
	}
	return 0
}

// VideoStreams returns the video streams that are not attached pictures.
func (p *ProbeResult) VideoStreams() []Stream {
	var out []Stream
	for _, s := range p.Streams {
		if s.CodecType == "video" && !s.IsAttachedPicture() {
			out = append(out, s)
		}
	}
	return out
}

// Prober runs ffprobe with a bounded timeout.
type Prober struct {
	runner  Runner
	path    string
	timeout time.Duration
}

// NewProber creates a Prober using cfg's ffprobe path and timeout.
func NewProber(runner Runner, cfg Config) *Prober {
	return &Prober{
		runner:  runner,
		path:    cfg.FFprobePath,
		timeout: cfg.ProbeTimeout,
	}
}

// Probe returns the container and stream metadata for path. purpose only
// labels metrics.
func (p *Prober) Probe(ctx context.Context, path, purpose string) (*ProbeResult, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	timer := prometheus.NewTimer(metrics.ProbeDuration.WithLabelValues(purpose))
	out, err := p.runner.Output(ctx, p.path,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)
	timer.ObserveDuration()

	if err != nil {
		metrics.ProbeFailures.WithLabelValues(purpose).Inc()
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("ffprobe %s: timed out after %v", filepath.Base(path), p.timeout)
		}
		return nil, fmt.Errorf("ffprobe %s: %w", filepath.Base(path), err)
	}

	res, err := ParseProbe(out)
	if err != nil {
		metrics.ProbeFailures.WithLabelValues(purpose).Inc()
		return nil, err
	}
	return res, nil
}

// Duration returns the whole seconds of path. Callers treat an error as a
// duration of zero.
func (p *Prober) Duration(ctx context.Context, path string) (int, error) {
	res, err := p.Probe(ctx, path, PurposeDuration)
	if err != nil {
		return 0, err
	}
	return int(res.Duration()), nil
}
