package handlers

import (
	"context"
	"path/filepath"
	"time"

	"github.com/Lacarte/video-player/internal/conversion"
	"github.com/Lacarte/video-player/internal/playlist"
	"github.com/Lacarte/video-player/internal/streaming"
)

// CourseSource builds the course tree. *scanner.Cache satisfies it.
type CourseSource interface {
	Course() (playlist.Course, error)
}

// DurationProber measures one video. *transcoder.Prober satisfies it.
type DurationProber interface {
	Duration(ctx context.Context, path string) (int, error)
}

// ConversionController exposes the conversion pipeline to the API.
// *conversion.Pipeline satisfies it.
type ConversionController interface {
	Snapshot() conversion.Snapshot
	Confirm() (int, error)
}

// Config holds the fixed per-process settings the handlers need.
type Config struct {
	// CoursePath is the course root. It is resolved to an absolute,
	// symlink-free path by New.
	CoursePath string
	WebDir     string
	Port       int
	// Stream defaults to streaming.DefaultWriterConfig when zero.
	Stream streaming.WriterConfig
}

type Handlers struct {
	course     CourseSource
	prober     DurationProber
	conversion ConversionController

	root      string
	webDir    string
	port      int
	stream    streaming.WriterConfig
	startTime time.Time
}

func New(course CourseSource, prober DurationProber, conv ConversionController, config Config) *Handlers {
	if config.Stream == (streaming.WriterConfig{}) {
		config.Stream = streaming.DefaultWriterConfig()
	}

	return &Handlers{
		course:     course,
		prober:     prober,
		conversion: conv,
		root:       resolveDir(config.CoursePath),
		webDir:     resolveDir(config.WebDir),
		port:       config.Port,
		stream:     config.Stream,
		startTime:  time.Now(),
	}
}

// resolveDir returns dir as an absolute path with symlinks resolved,
// falling back to the lexical absolute path when dir does not exist.
func resolveDir(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return dir
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}
