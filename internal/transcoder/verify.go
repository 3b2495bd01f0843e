package transcoder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/abema/go-mp4"
)

// ErrVerification is returned when a produced file is not a usable MP4.
var ErrVerification = errors.New("verification failed")

// maxDurationDrift is how far the output duration may stray from the
// input, in seconds.
const maxDurationDrift = 2.0

// verify checks the encoder output at path before it may replace the
// original. originalDuration of zero means the input length was unknown.
func (c *Converter) verify(ctx context.Context, path string, originalDuration float64) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: output missing: %v", ErrVerification, err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("%w: output is empty", ErrVerification)
	}

	res, err := c.prober.Probe(ctx, path, PurposeVerify)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrVerification, err)
	}
	if len(res.VideoStreams()) == 0 {
		return fmt.Errorf("%w: no video stream", ErrVerification)
	}
	if !isMP4Family(res.Format.FormatName) {
		return fmt.Errorf("%w: container is %q", ErrVerification, res.Format.FormatName)
	}

	got := res.Duration()
	if originalDuration > 0 {
		if math.Abs(got-originalDuration) > maxDurationDrift {
			return fmt.Errorf("%w: duration %.2fs differs from original %.2fs", ErrVerification, got, originalDuration)
		}
	} else if got <= 0 {
		return fmt.Errorf("%w: output has no duration", ErrVerification)
	}

	if err := c.checkContainer(path); err != nil {
		return fmt.Errorf("%w: %v", ErrVerification, err)
	}
	return nil
}

// CheckMP4Boxes parses the box structure of the file at path and requires
// an ftyp box and at least one track.
func CheckMP4Boxes(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return checkMP4Boxes(f)
}

func checkMP4Boxes(r io.ReadSeeker) error {
	ftyp, err := mp4.ExtractBox(r, nil, mp4.BoxPath{mp4.BoxTypeFtyp()})
	if err != nil {
		return fmt.Errorf("read mp4 boxes: %w", err)
	}
	if len(ftyp) == 0 {
		return errors.New("no ftyp box")
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return err
	}
	tracks, err := mp4.ExtractBox(r, nil, mp4.BoxPath{mp4.BoxTypeMoov(), mp4.BoxTypeTrak()})
	if err != nil {
		return fmt.Errorf("read mp4 tracks: %w", err)
	}
	if len(tracks) == 0 {
		return errors.New("no tracks in moov")
	}
	return nil
}
