// Package handlers provides the HTTP handlers for the course player.
//
// It includes handlers for:
//   - The course playlist and per-video duration lookups
//   - Conversion status polling and the conversion trigger
//   - Range-aware media streaming confined to the course folder
//   - The player front end (index page and /static/ assets)
//   - Health checks, version information and Prometheus metrics
//
// [Handlers.Router] wires them into a gorilla/mux router. The router does
// not clean paths, so a request such as /media/../secret reaches the media
// handler and is rejected with 403 rather than being redirected.
package handlers
