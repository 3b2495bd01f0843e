package handlers

import (
	"net/http"

	"github.com/Lacarte/video-player/internal/startup"
)

// GetVersion returns the application version and build information
func (h *Handlers) GetVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSONResponse(w, startup.GetBuildInfo(), http.StatusOK)
}
