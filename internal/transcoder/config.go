package transcoder

import "time"

// Config holds tool locations and timeouts.
type Config struct {
	FFmpegPath  string
	FFprobePath string

	// ProbeTimeout bounds each ffprobe run. Encoders have no timeout.
	ProbeTimeout time.Duration
	// HardwareProbeTimeout bounds each synthetic hardware encode.
	HardwareProbeTimeout time.Duration
}

// DefaultConfig returns a Config that finds the tools on PATH.
func DefaultConfig() Config {
	return Config{
		FFmpegPath:           "ffmpeg",
		FFprobePath:          "ffprobe",
		ProbeTimeout:         30 * time.Second,
		HardwareProbeTimeout: 15 * time.Second,
	}
}
