package transcoder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Lacarte/video-player/internal/logging"
	"github.com/Lacarte/video-player/internal/metrics"
)

// ErrTargetExists is returned when the .mp4 name a file would be converted
// to is already taken by another file.
var ErrTargetExists = errors.New("target file already exists")

// tempPrefix marks in-progress outputs. The leading dot hides them from the
// scanner and the structure fingerprint.
const tempPrefix = ".vpconv-"

// Job describes one file to convert.
type Job struct {
	Path string
	Mode Mode
	// Duration of the input in seconds; zero if unknown.
	Duration float64
}

// Result describes a successful conversion.
type Result struct {
	Output   string
	Strategy string
	Encoder  string
}

// Converter turns incompatible videos into browser-safe MP4 files in place.
type Converter struct {
	runner   Runner
	prober   *Prober
	cfg      Config
	hardware *Encoder

	// checkContainer is the native box-level check run after ffprobe.
	checkContainer func(path string) error
}

// NewConverter creates a Converter. Call DetectHardware before the first
// Convert to enable hardware encoding.
func NewConverter(runner Runner, cfg Config) *Converter {
	return &Converter{
		runner:         runner,
		prober:         NewProber(runner, cfg),
		cfg:            cfg,
		checkContainer: CheckMP4Boxes,
	}
}

// Prober returns the prober the converter verifies with.
func (c *Converter) Prober() *Prober {
	return c.prober
}

// TargetPath returns where the converted form of path will live.
func TargetPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".mp4"
}

// Convert runs the strategy plan for job until an encoder succeeds, then
// verifies the output and swaps it in for the original. On any failure the
// original is left untouched and the temporary output is removed.
func (c *Converter) Convert(ctx context.Context, job Job, onProgress ProgressFunc) (Result, error) {
	target := TargetPath(job.Path)
	if target != job.Path {
		if _, err := os.Lstat(target); err == nil {
			return Result{}, fmt.Errorf("%w: %s", ErrTargetExists, filepath.Base(target))
		}
	}

	dir := filepath.Dir(job.Path)
	id := uuid.NewString()[:8]
	tmp := filepath.Join(dir, tempPrefix+id+".mp4")
	defer removeIfExists(tmp)

	plan := Plan(job.Mode, c.hardware)
	if len(plan) == 0 {
		return Result{}, fmt.Errorf("nothing to do for mode %q", job.Mode)
	}

	var used *Strategy
	var lastErr error
	for i := range plan {
		s := plan[i]
		if onProgress != nil {
			onProgress(0)
		}

		lastErr = c.runStrategy(ctx, s, job, tmp, onProgress)
		if lastErr == nil {
			used = &s
			break
		}
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}

		logging.Warn("%s failed for %s: %v", s.Name, filepath.Base(job.Path), lastErr)
		removeIfExists(tmp)
	}
	if used == nil {
		return Result{}, lastErr
	}

	if err := c.verify(ctx, tmp, job.Duration); err != nil {
		return Result{}, err
	}

	if err := replace(job.Path, tmp, target, filepath.Join(dir, tempPrefix+id+".bak")); err != nil {
		return Result{}, err
	}

	return Result{Output: target, Strategy: used.Name, Encoder: used.Encoder}, nil
}

func (c *Converter) runStrategy(ctx context.Context, s Strategy, job Job, tmp string, onProgress ProgressFunc) error {
	logging.Info("Converting %s (%s, %s)", filepath.Base(job.Path), s.Name, s.Encoder)

	metrics.ConversionInProgress.Set(1)
	defer metrics.ConversionInProgress.Set(0)

	start := time.Now()
	err := c.runEncoder(ctx, s.Args(job.Path, tmp), job.Duration, onProgress)
	metrics.ConversionJobDuration.WithLabelValues(s.Name).Observe(time.Since(start).Seconds())

	result := "success"
	if err != nil {
		result = "failure"
	}
	metrics.ConversionStrategyRuns.WithLabelValues(s.Name, result).Inc()
	return err
}

// replace moves original aside, puts tmp at target and drops the backup.
// If tmp cannot be moved into place the original is restored.
func replace(original, tmp, target, backup string) error {
	if err := os.Rename(original, backup); err != nil {
		return fmt.Errorf("move original aside: %w", err)
	}

	if err := os.Rename(tmp, target); err != nil {
		if rerr := os.Rename(backup, original); rerr != nil {
			logging.Error("Failed to restore %s from %s: %v", original, backup, rerr)
		}
		return fmt.Errorf("move output into place: %w", err)
	}

	if err := os.Remove(backup); err != nil {
		logging.Warn("Failed to remove backup %s: %v", backup, err)
	}
	return nil
}

func removeIfExists(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logging.Warn("Failed to remove %s: %v", path, err)
	}
}
