package handlers

import (
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/Lacarte/video-player/internal/filesystem"
	"github.com/Lacarte/video-player/internal/startup"
)

const (
	statusHealthy  = "healthy"
	statusDegraded = "degraded"
)

// HealthResponse contains the health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Ready   bool   `json:"ready"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
	Error   string `json:"error,omitempty"`

	// Conversion progress
	ConversionPhase string `json:"conversionPhase,omitempty"`
	PendingFiles    int    `json:"pendingFiles"`

	// System info
	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`
}

// courseAvailable reports whether the course folder can still be read.
func (h *Handlers) courseAvailable() error {
	info, err := filesystem.StatWithRetry(h.root, filesystem.DefaultRetryConfig())
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return &os.PathError{Op: "stat", Path: h.root, Err: os.ErrInvalid}
	}
	return nil
}

// HealthCheck returns the health status of the service
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:       statusHealthy,
		Ready:        true,
		Version:      startup.Version,
		Uptime:       time.Since(h.startTime).Round(time.Second).String(),
		GoVersion:    runtime.Version(),
		NumCPU:       runtime.NumCPU(),
		NumGoroutine: runtime.NumGoroutine(),
	}

	if h.conversion != nil {
		snap := h.conversion.Snapshot()
		response.ConversionPhase = string(snap.Phase)
		response.PendingFiles = len(snap.Files)
	}

	statusCode := http.StatusOK
	if err := h.courseAvailable(); err != nil {
		response.Status = statusDegraded
		response.Ready = false
		response.Error = err.Error()
		statusCode = http.StatusServiceUnavailable
	}

	if r.Method == http.MethodHead {
		w.Header().Set("Content-Type", contentTypeJSON)
		w.WriteHeader(statusCode)
		return
	}
	writeJSONResponse(w, response, statusCode)
}

// LivenessCheck is a simple liveness probe (always returns 200 if server is running)
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	// For HEAD requests, only send headers (no body)
	if r.Method == http.MethodHead {
		w.Header().Set("Content-Type", contentTypeJSON)
		w.WriteHeader(http.StatusOK)
		return
	}
	writeJSONStatus(w, "alive", http.StatusOK)
}

// ReadinessCheck returns 200 only while the course folder is readable
func (h *Handlers) ReadinessCheck(w http.ResponseWriter, _ *http.Request) {
	if err := h.courseAvailable(); err != nil {
		writeJSONStatus(w, "not_ready", http.StatusServiceUnavailable)
		return
	}
	writeJSONStatus(w, "ready", http.StatusOK)
}
