package handlers

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"strings"

	"github.com/Lacarte/video-player/internal/conversion"
	"github.com/Lacarte/video-player/internal/filesystem"
	"github.com/Lacarte/video-player/internal/logging"
	"github.com/Lacarte/video-player/internal/scanner"
)

// maxDurationBody bounds the /api/duration request body.
const maxDurationBody = 64 << 10

// GetPlaylist returns the course tree. The tree is rebuilt whenever the
// folder structure changed since the last call.
func (h *Handlers) GetPlaylist(w http.ResponseWriter, _ *http.Request) {
	course, err := h.course.Course()
	if err != nil {
		logging.Error("Failed to build playlist: %v", err)
		writeJSONError(w, "Failed to scan course folder", http.StatusInternalServerError)
		return
	}

	writeJSONResponse(w, course.WithPort(h.port), http.StatusOK)
}

type durationRequest struct {
	Path string `json:"path"`
}

type durationResponse struct {
	Path     string `json:"path"`
	Duration int    `json:"duration"`
}

// GetDuration measures one video, addressed by its /media/ URL. The player
// calls it lazily per video. A file that cannot be probed reports 0.
func (h *Handlers) GetDuration(w http.ResponseWriter, r *http.Request) {
	var req durationRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxDurationBody)).Decode(&req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Path) == "" {
		writeJSONError(w, "Missing 'path' parameter", http.StatusBadRequest)
		return
	}

	rel, err := scanner.RelFromMediaURL(req.Path)
	if err != nil {
		writeJSONError(w, "Invalid path", http.StatusBadRequest)
		return
	}

	response := durationResponse{Path: req.Path}

	full, err := filesystem.Confine(h.root, rel)
	switch {
	case errors.Is(err, filesystem.ErrOutsideRoot):
		logging.Warn("Duration: rejected path outside course: %s", req.Path)
		writeJSONError(w, "Access denied", http.StatusForbidden)
		return
	case errors.Is(err, fs.ErrNotExist):
		logging.Debug("Duration: file not found: %s", rel)
	case err != nil:
		logging.Warn("Duration: %v", err)
	default:
		seconds, perr := h.prober.Duration(r.Context(), full)
		if perr != nil {
			logging.Warn("Duration: probe failed for %s: %v", rel, perr)
		}
		response.Duration = seconds
	}

	writeJSONResponse(w, response, http.StatusOK)
}

// GetConversionStatus returns the latest conversion snapshot. It never
// blocks on the pipeline.
func (h *Handlers) GetConversionStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSONResponse(w, h.conversion.Snapshot(), http.StatusOK)
}

type convertResponse struct {
	Success bool   `json:"success"`
	Total   int    `json:"total,omitempty"`
	Error   string `json:"error,omitempty"`
}

// StartConversion confirms the pending batch. It only succeeds while the
// pipeline is waiting for confirmation.
func (h *Handlers) StartConversion(w http.ResponseWriter, _ *http.Request) {
	total, err := h.conversion.Confirm()
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, conversion.ErrNotWaiting) {
			status = http.StatusConflict
		}
		writeJSONResponse(w, convertResponse{Error: err.Error()}, status)
		return
	}

	logging.Info("Conversion confirmed for %d file(s)", total)
	writeJSONResponse(w, convertResponse{Success: true, Total: total}, http.StatusOK)
}
