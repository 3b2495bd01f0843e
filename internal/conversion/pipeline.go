package conversion

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/Lacarte/video-player/internal/logging"
	"github.com/Lacarte/video-player/internal/mediatypes"
	"github.com/Lacarte/video-player/internal/metrics"
	"github.com/Lacarte/video-player/internal/scanner"
	"github.com/Lacarte/video-player/internal/transcoder"
)

// ErrNotWaiting is returned by Confirm outside the waiting phase.
var ErrNotWaiting = errors.New("conversion can only be started while waiting for confirmation")

// Classifier decides what a video needs.
type Classifier interface {
	Classify(ctx context.Context, path string) transcoder.Classification
}

// Converter repairs a single video.
type Converter interface {
	DetectHardware(ctx context.Context) transcoder.Encoder
	Convert(ctx context.Context, job transcoder.Job, onProgress transcoder.ProgressFunc) (transcoder.Result, error)
}

// pendingFile is a file the scan found and the batch will convert.
type pendingFile struct {
	abs      string
	mode     transcoder.Mode
	duration float64
}

// Pipeline scans the course root, waits for confirmation, then converts.
type Pipeline struct {
	root       string
	classifier Classifier
	converter  Converter
	state      *State
	confirm    chan struct{}

	onConverted func()
}

// NewPipeline creates a pipeline for root. It does nothing until Run.
func NewPipeline(root string, classifier Classifier, converter Converter) *Pipeline {
	return &Pipeline{
		root:       root,
		classifier: classifier,
		converter:  converter,
		state:      NewState(),
		confirm:    make(chan struct{}, 1),
	}
}

// OnConverted registers fn to run after each file that was replaced.
func (p *Pipeline) OnConverted(fn func()) {
	p.onConverted = fn
}

// Snapshot returns the current state.
func (p *Pipeline) Snapshot() Snapshot {
	return p.state.Snapshot()
}

// Skip marks the pipeline done without scanning, for when conversion is
// disabled.
func (p *Pipeline) Skip() {
	p.state.update(func(s *Snapshot) {
		s.Phase = PhaseDone
	})
}

// Confirm starts the batch. It fails with ErrNotWaiting in any phase but
// waiting and returns the number of files that will be converted.
func (p *Pipeline) Confirm() (int, error) {
	var total int
	ok := p.state.transition(PhaseWaiting, PhaseConverting, func(s *Snapshot) {
		total = s.Total
		s.CurrentIndex = 0
		s.CurrentFile = ""
		s.Percent = 0
	})
	if !ok {
		return 0, ErrNotWaiting
	}

	p.confirm <- struct{}{}
	return total, nil
}

// Run scans for incompatible videos and, after Confirm, converts them.
// It blocks until the batch is done or ctx is canceled.
func (p *Pipeline) Run(ctx context.Context) error {
	pending, err := p.scan(ctx)
	if err != nil {
		p.state.update(func(s *Snapshot) { s.Phase = PhaseDone })
		return err
	}

	metrics.ConversionPending.Set(float64(len(pending)))

	if len(pending) == 0 {
		logging.Info("All videos are browser compatible")
		p.state.update(func(s *Snapshot) { s.Phase = PhaseWaiting })
		p.state.transition(PhaseWaiting, PhaseDone, nil)
		return nil
	}

	logging.Info("%d video(s) need conversion, waiting for confirmation", len(pending))
	p.state.update(func(s *Snapshot) { s.Phase = PhaseWaiting })

	select {
	case <-p.confirm:
	case <-ctx.Done():
		logging.Info("Conversion stopped in phase %s", p.state.Phase())
		return ctx.Err()
	}

	return p.convertAll(ctx, pending)
}

// scan classifies every visible video below the root.
func (p *Pipeline) scan(ctx context.Context) ([]pendingFile, error) {
	type candidate struct {
		rel  string
		size int64
	}

	var candidates []candidate
	err := scanner.WalkFiles(p.root, func(rel string, info fs.FileInfo) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if mediatypes.GetFileType(strings.ToLower(path.Ext(rel))) == mediatypes.FileTypeVideo {
			candidates = append(candidates, candidate{rel: rel, size: info.Size()})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", p.root, err)
	}

	p.state.update(func(s *Snapshot) { s.Total = len(candidates) })

	var pending []pendingFile
	var files []FileInfo
	for i, c := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := path.Base(c.rel)
		p.state.update(func(s *Snapshot) {
			s.CurrentIndex = i + 1
			s.CurrentFile = name
		})

		abs := filepath.Join(p.root, filepath.FromSlash(c.rel))
		cls := p.classifier.Classify(ctx, abs)
		if cls.Mode == transcoder.ModeCompatible {
			continue
		}

		logging.Debug("%s needs %s", c.rel, cls.Mode)
		pending = append(pending, pendingFile{abs: abs, mode: cls.Mode, duration: cls.Duration})
		files = append(files, FileInfo{
			Name:   name,
			Path:   c.rel,
			Size:   c.size,
			Mode:   cls.Mode,
			Status: StatusPending,
		})
	}

	p.state.update(func(s *Snapshot) {
		s.Files = files
		s.Total = len(files)
		s.CurrentIndex = 0
		s.CurrentFile = ""
	})
	return pending, nil
}

func (p *Pipeline) convertAll(ctx context.Context, pending []pendingFile) error {
	enc := p.converter.DetectHardware(ctx)
	p.state.update(func(s *Snapshot) { s.Encoder = enc.Name })

	for i, f := range pending {
		if err := ctx.Err(); err != nil {
			return err
		}

		name := filepath.Base(f.abs)
		p.state.update(func(s *Snapshot) {
			s.CurrentIndex = i + 1
			s.CurrentFile = name
			s.Percent = 0
			s.Files[i].Status = StatusConverting
		})

		res, err := p.converter.Convert(ctx, transcoder.Job{Path: f.abs, Mode: f.mode, Duration: f.duration}, func(pct float64) {
			p.state.update(func(s *Snapshot) { s.Percent = roundPercent(pct) })
		})

		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logging.Error("Conversion failed for %s: %v", name, err)
			metrics.ConversionFilesTotal.WithLabelValues(string(f.mode), "failure").Inc()
			p.state.update(func(s *Snapshot) {
				s.FailedCount++
				s.Files[i].Status = StatusFailed
				s.Files[i].Error = err.Error()
			})
			continue
		}

		logging.Info("Converted %s using %s", name, res.Strategy)
		metrics.ConversionFilesTotal.WithLabelValues(string(f.mode), "success").Inc()
		p.state.update(func(s *Snapshot) {
			s.DoneCount++
			s.Percent = 100
			s.Files[i].Status = StatusDone
			if rel, err := filepath.Rel(p.root, res.Output); err == nil {
				s.Files[i].Path = filepath.ToSlash(rel)
				s.Files[i].Name = filepath.Base(res.Output)
			}
		})
		if p.onConverted != nil {
			p.onConverted()
		}
	}

	snap := p.state.Snapshot()
	logging.Info("Conversion finished: %d converted, %d failed", snap.DoneCount, snap.FailedCount)
	metrics.ConversionPending.Set(0)
	p.state.update(func(s *Snapshot) {
		s.Phase = PhaseDone
		s.CurrentFile = ""
	})
	return nil
}
