package handlers

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"

	"github.com/Lacarte/video-player/internal/filesystem"
	"github.com/Lacarte/video-player/internal/logging"
)

// staticDirs maps a /static/ asset extension to its folder under the web
// directory.
var staticDirs = map[string]string{
	".css": "css",
	".js":  "js",
}

// ServeIndex serves the player page. It is never cached so a new build is
// picked up on reload.
func (h *Handlers) ServeIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeFile(w, r, filepath.Join(h.webDir, "index.html"))
}

// ServeStatic serves /static/<name>.css from web/css and /static/<name>.js
// from web/js.
func (h *Handlers) ServeStatic(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["file"]

	dir, ok := staticDirs[strings.ToLower(filepath.Ext(name))]
	if !ok {
		http.Error(w, "Static file not found", http.StatusNotFound)
		return
	}

	fullPath, err := filesystem.Confine(filepath.Join(h.webDir, dir), name)
	if err != nil {
		if errors.Is(err, filesystem.ErrOutsideRoot) {
			logging.Warn("Static: rejected %q", name)
		}
		http.Error(w, "Static file not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=3600")
	http.ServeFile(w, r, fullPath)
}
