// Package startup handles configuration loading, startup and shutdown
// logging, and the network listener for the player.
//
// # Configuration
//
// [LoadConfig] reads an optional .env file with godotenv and then the
// PLAYER_* environment through envconfig. Command-line flags are applied
// on top by the caller, after which [Config.Finalize] validates the course
// folder and picks a port.
//
// envconfig falls back to the unprefixed name when a PLAYER_ variable is
// unset, so keys that collide with common shell variables (PATH, HOST) are
// avoided.
//
//   - PLAYER_COURSE_PATH: Course folder to serve (required)
//   - PLAYER_LISTEN_HOST: Listen host (default: all interfaces)
//   - PLAYER_PORT: HTTP port, 0 to search PLAYER_PORT_RANGE_START..END (default: 0)
//   - PLAYER_PORT_RANGE_START / PLAYER_PORT_RANGE_END: Port search range (default: 8002-8020)
//   - PLAYER_WEB_DIR: Folder holding the player front end (default: web)
//   - PLAYER_FFMPEG / PLAYER_FFPROBE: Tool paths (default: looked up on PATH)
//   - PLAYER_PROBE_TIMEOUT: Per-file ffprobe timeout (default: 30s)
//   - PLAYER_HWACCEL_PROBE_TIMEOUT: Hardware encoder test timeout (default: 15s)
//   - PLAYER_CONVERT: Run the compatibility scan (default: true)
//   - PLAYER_PLAYLIST_CACHE: Reuse the course tree while the fingerprint is unchanged (default: true)
//   - PLAYER_METRICS_ENABLED: Serve /metrics (default: true)
//   - PLAYER_OPEN_BROWSER: Open the player in the default browser (default: false)
//   - PLAYER_LOG_LEVEL: debug, info, warn, error
//   - PLAYER_LOG_STATIC_FILES, PLAYER_LOG_HEALTH_CHECKS: Access log filters
//
// # Build Information
//
// Version, Commit and BuildTime are injected via ldflags and exposed via
// [GetBuildInfo].
//
// # Lifecycle Logging
//
// Startup is narrated in sections: [PrintStartupInfo], [Config.Log],
// [CheckTools], [LogConversionInit], [LogHTTPRoutes] and
// [LogServerStarted]; shutdown through [LogShutdownInitiated] and
// [LogShutdownComplete].
//
// # Listener
//
// [Listen] sets SO_REUSEADDR on the listening socket and disables Nagle's
// algorithm on every accepted connection, since media responses are
// latency sensitive.
package startup
