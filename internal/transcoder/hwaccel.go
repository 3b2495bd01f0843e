package transcoder

import (
	"context"
	"runtime"

	"github.com/Lacarte/video-player/internal/logging"
)

// Encoder is a video encoder and the ffmpeg arguments that select it with
// a browser-safe H.264 profile and 8-bit pixel format.
type Encoder struct {
	Name     string
	Hardware bool
	Args     []string
}

// SoftwareEncoder is always available wherever ffmpeg is.
var SoftwareEncoder = Encoder{
	Name: "libx264",
	Args: []string{
		"-c:v", "libx264",
		"-preset", "fast",
		"-crf", "23",
		"-profile:v", "high",
		"-pix_fmt", "yuv420p",
	},
}

var (
	nvencEncoder = Encoder{
		Name:     "h264_nvenc",
		Hardware: true,
		Args:     []string{"-c:v", "h264_nvenc", "-preset", "p4", "-cq", "23", "-profile:v", "high", "-pix_fmt", "yuv420p"},
	}
	qsvEncoder = Encoder{
		Name:     "h264_qsv",
		Hardware: true,
		Args:     []string{"-c:v", "h264_qsv", "-global_quality", "23", "-profile:v", "high", "-pix_fmt", "nv12"},
	}
	videoToolboxEncoder = Encoder{
		Name:     "h264_videotoolbox",
		Hardware: true,
		Args:     []string{"-c:v", "h264_videotoolbox", "-q:v", "65", "-profile:v", "high", "-pix_fmt", "yuv420p"},
	}
	amfEncoder = Encoder{
		Name:     "h264_amf",
		Hardware: true,
		Args:     []string{"-c:v", "h264_amf", "-quality", "balanced", "-profile:v", "high", "-pix_fmt", "yuv420p"},
	}
)

// hardwareCandidates lists the encoders worth trying on goos, in order of
// preference.
func hardwareCandidates(goos string) []Encoder {
	candidates := []Encoder{nvencEncoder, qsvEncoder}
	switch goos {
	case "darwin":
		candidates = []Encoder{videoToolboxEncoder}
	case "windows":
		candidates = append(candidates, amfEncoder)
	}
	return candidates
}

// probeEncoderArgs encodes a fraction of a second of synthetic video and
// throws it away.
func probeEncoderArgs(enc Encoder) []string {
	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-f", "lavfi",
		"-i", "color=c=black:s=256x256:d=0.1",
		"-frames:v", "1",
	}
	args = append(args, enc.Args...)
	return append(args, "-f", "null", "-")
}

// DetectHardware tries each hardware encoder for this platform and
// remembers the first that works. It returns the encoder that transcodes
// will use first.
func (c *Converter) DetectHardware(ctx context.Context) Encoder {
	enc, ok := c.detectHardware(ctx, hardwareCandidates(runtime.GOOS))
	if !ok {
		logging.Info("No hardware encoder available, using %s", SoftwareEncoder.Name)
		c.hardware = nil
		return SoftwareEncoder
	}
	logging.Info("Hardware encoder available: %s", enc.Name)
	c.hardware = &enc
	return enc
}

func (c *Converter) detectHardware(ctx context.Context, candidates []Encoder) (Encoder, bool) {
	for _, enc := range candidates {
		if ctx.Err() != nil {
			return Encoder{}, false
		}

		probeCtx, cancel := context.WithTimeout(ctx, c.cfg.HardwareProbeTimeout)
		_, err := c.runner.Output(probeCtx, c.cfg.FFmpegPath, probeEncoderArgs(enc)...)
		cancel()

		if err == nil {
			return enc, true
		}
		logging.Debug("Encoder %s unavailable: %v", enc.Name, err)
	}
	return Encoder{}, false
}
