// Package main provides the entry point for the course video player.
//
// The player serves one course folder to a browser: a playlist built from
// the folder tree, the media files themselves with byte-range support, and
// a background pipeline that finds videos a browser cannot play and, once
// the user agrees, converts them to H.264/AAC MP4 in place.
//
// # Application Lifecycle
//
//  1. Configuration Loading: .env file, PLAYER_* environment, then flags
//  2. Validation: the course folder must exist; a free port is chosen
//  3. Tool Check: ffmpeg and ffprobe are looked up and version-checked
//  4. Component Initialization:
//     - Scanner with a fingerprint-keyed playlist cache
//     - Prober and converter driving ffprobe/ffmpeg
//     - Conversion pipeline (scan, wait for confirmation, convert)
//  5. HTTP Server Setup: routes, middleware, SO_REUSEADDR listener
//  6. Graceful Shutdown: SIGINT/SIGTERM cancel the pipeline (killing a
//     running encoder) and drain in-flight requests
//
// # Usage
//
//	video-player --path "/courses/Go Fundamentals"
//	video-player --port 8010 --no-convert ~/courses/rust
//	PLAYER_COURSE_PATH=/courses/k8s video-player --open
//
// # Flags
//
//   - --path, -p: Course folder (may also be given as the first argument)
//   - --port: HTTP port; 0 searches 8002-8020
//   - --no-convert: Skip the compatibility scan
//   - --log-level: debug, info, warn, error
//   - --open: Open the player in the default browser
//   - --env-file: dotenv file to load (default .env)
//
// Every flag has a PLAYER_* environment equivalent; see package startup.
//
// # Build Information
//
// Version information is injected at build time:
//
//	go build -ldflags "-X github.com/Lacarte/video-player/internal/startup.Version=1.0.0 \
//	  -X github.com/Lacarte/video-player/internal/startup.Commit=$(git rev-parse --short HEAD)" \
//	  ./cmd/video-player
package main
