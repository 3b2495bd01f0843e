package conversion

import (
	"math"
	"slices"
	"sync"

	"github.com/Lacarte/video-player/internal/metrics"
	"github.com/Lacarte/video-player/internal/transcoder"
)

// Phase is the pipeline's position in its state machine.
type Phase string

const (
	PhaseScanning   Phase = "scanning"
	PhaseWaiting    Phase = "waiting"
	PhaseConverting Phase = "converting"
	PhaseDone       Phase = "done"
)

// FileStatus tracks one pending file through the batch.
type FileStatus string

const (
	StatusPending    FileStatus = "pending"
	StatusConverting FileStatus = "converting"
	StatusDone       FileStatus = "done"
	StatusFailed     FileStatus = "failed"
)

// FileInfo is a file that needs repair, as reported to clients.
type FileInfo struct {
	Name   string          `json:"name"`
	Path   string          `json:"path"`
	Size   int64           `json:"size"`
	Mode   transcoder.Mode `json:"mode"`
	Status FileStatus      `json:"status"`
	Error  string          `json:"error,omitempty"`
}

// Snapshot is a point-in-time copy of the conversion state.
type Snapshot struct {
	Phase        Phase      `json:"phase"`
	CurrentFile  string     `json:"current_file"`
	CurrentIndex int        `json:"current_index"`
	Total        int        `json:"total"`
	Percent      float64    `json:"percent"`
	DoneCount    int        `json:"done_count"`
	FailedCount  int        `json:"failed_count"`
	Files        []FileInfo `json:"files"`
	Encoder      string     `json:"encoder,omitempty"`
}

// State guards the current Snapshot. Readers get copies.
type State struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewState returns a state in the scanning phase.
func NewState() *State {
	metrics.SetConversionPhase(string(PhaseScanning))
	return &State{snap: Snapshot{Phase: PhaseScanning, Files: []FileInfo{}}}
}

// Snapshot returns a copy safe to encode while the pipeline keeps running.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.snap
	out.Files = slices.Clone(s.snap.Files)
	if out.Files == nil {
		out.Files = []FileInfo{}
	}
	return out
}

// Phase returns the current phase.
func (s *State) Phase() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Phase
}

func (s *State) update(fn func(*Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.snap.Phase
	fn(&s.snap)
	if s.snap.Phase != before {
		metrics.SetConversionPhase(string(s.snap.Phase))
	}
}

// transition moves from one phase to another and reports whether the
// state was in from.
func (s *State) transition(from, to Phase, fn func(*Snapshot)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snap.Phase != from {
		return false
	}
	s.snap.Phase = to
	if fn != nil {
		fn(&s.snap)
	}
	metrics.SetConversionPhase(string(to))
	return true
}

func roundPercent(p float64) float64 {
	return math.Round(max(0, min(p, 100))*10) / 10
}
