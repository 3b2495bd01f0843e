package transcoder

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/Lacarte/video-player/internal/logging"
	"github.com/Lacarte/video-player/internal/mediatypes"
)

// Mode is the repair a file needs before a browser can play it.
type Mode string

const (
	ModeCompatible Mode = "compatible"
	ModeRemux      Mode = "remux"
	ModeTranscode  Mode = "transcode"
)

var browserVideoCodecs = map[string]bool{
	"h264": true,
}

var browserAudioCodecs = map[string]bool{
	"aac":  true,
	"mp3":  true,
	"opus": true,
	"flac": true,
}

// Classify decides what a probed file needs. ext is the file's extension
// and is used to tell .mov apart from .mp4, which ffprobe reports under the
// same format name.
func Classify(res *ProbeResult, ext string) Mode {
	for _, s := range res.Streams {
		switch s.CodecType {
		case "video":
			if s.IsAttachedPicture() {
				continue
			}
			if !browserVideoCodecs[s.CodecName] || !browserSafeProfile(s) {
				return ModeTranscode
			}
		case "audio":
			if !browserAudioCodecs[s.CodecName] {
				return ModeTranscode
			}
		}
	}

	if !isMP4Family(res.Format.FormatName) || !mediatypes.MP4Extensions[strings.ToLower(ext)] {
		return ModeRemux
	}
	return ModeCompatible
}

// browserSafeProfile rejects 10-bit and 4:2:2/4:4:4 H.264, which most
// browsers refuse to decode.
func browserSafeProfile(s Stream) bool {
	profile := strings.ToLower(s.Profile)
	if strings.Contains(profile, "10") || strings.Contains(profile, "4:2:2") || strings.Contains(profile, "4:4:4") {
		return false
	}
	pix := strings.ToLower(s.PixFmt)
	return !strings.Contains(pix, "p10") && !strings.Contains(pix, "p12")
}

func isMP4Family(formatName string) bool {
	return strings.Contains(strings.ToLower(formatName), "mp4")
}

// Classification is the outcome of probing one file.
type Classification struct {
	Mode     Mode
	Duration float64
}

// Classify probes path and classifies it. A probe failure is treated as
// compatible so a tooling problem never blocks playback.
func (p *Prober) Classify(ctx context.Context, path string) Classification {
	res, err := p.Probe(ctx, path, PurposeClassify)
	if err != nil {
		logging.Debug("Probe failed for %s, treating as compatible: %v", filepath.Base(path), err)
		return Classification{Mode: ModeCompatible}
	}
	return Classification{
		Mode:     Classify(res, filepath.Ext(path)),
		Duration: res.Duration(),
	}
}
