package handlers

import (
	"errors"
	"io/fs"
	"net/http"

	"github.com/Lacarte/video-player/internal/filesystem"
	"github.com/Lacarte/video-player/internal/logging"
	"github.com/Lacarte/video-player/internal/scanner"
	"github.com/Lacarte/video-player/internal/streaming"
)

// StreamMedia serves a course file addressed by its percent-encoded
// /media/ URL, honoring Range requests.
func (h *Handlers) StreamMedia(w http.ResponseWriter, r *http.Request) {
	rel, err := scanner.RelFromMediaURL(r.URL.EscapedPath())
	if err != nil {
		http.Error(w, "Invalid path", http.StatusBadRequest)
		return
	}

	fullPath, err := filesystem.Confine(h.root, rel)
	if err != nil {
		switch {
		case errors.Is(err, filesystem.ErrOutsideRoot):
			logging.Warn("Media: rejected path outside course: %q", rel)
			http.Error(w, "Access denied", http.StatusForbidden)
		case errors.Is(err, fs.ErrNotExist):
			http.Error(w, "Not found", http.StatusNotFound)
		default:
			logging.Warn("Media: %v", err)
			http.Error(w, "Invalid path", http.StatusBadRequest)
		}
		return
	}

	if err := streaming.ServeFile(w, r, fullPath, h.stream); err != nil {
		logging.Error("Media: %v", err)
	}
}
