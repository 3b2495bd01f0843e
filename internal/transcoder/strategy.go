package transcoder

// Strategy names, also used as metric labels.
const (
	StrategyRemux       = "remux"
	StrategyTranscodeHW = "transcode-hw"
	StrategyTranscodeSW = "transcode-sw"
)

// Strategy is one way of producing a browser-safe MP4 from an input file.
type Strategy struct {
	Name    string
	Encoder string
	args    func(in, out string) []string
}

// Args returns the complete ffmpeg argument list for converting in to out.
func (s Strategy) Args(in, out string) []string {
	return s.args(in, out)
}

// Plan returns the strategies to try for a file, in order. The next
// strategy is only attempted when the previous encoder run fails.
func Plan(mode Mode, hardware *Encoder) []Strategy {
	var plan []Strategy
	if mode == ModeRemux {
		plan = append(plan, Strategy{Name: StrategyRemux, Encoder: "copy", args: remuxArgs})
	}
	if mode == ModeRemux || mode == ModeTranscode {
		if hardware != nil {
			enc := *hardware
			plan = append(plan, Strategy{Name: StrategyTranscodeHW, Encoder: enc.Name, args: transcodeArgs(enc)})
		}
		plan = append(plan, Strategy{Name: StrategyTranscodeSW, Encoder: SoftwareEncoder.Name, args: transcodeArgs(SoftwareEncoder)})
	}
	return plan
}

func inputArgs(in string) []string {
	return []string{"-hide_banner", "-y", "-nostdin", "-i", in}
}

func outputArgs(out string) []string {
	return []string{
		"-movflags", "+faststart",
		"-progress", "pipe:1",
		"-nostats",
		"-f", "mp4",
		out,
	}
}

func remuxArgs(in, out string) []string {
	args := inputArgs(in)
	args = append(args, "-map", "0:V", "-map", "0:a?", "-c", "copy")
	return append(args, outputArgs(out)...)
}

func transcodeArgs(enc Encoder) func(in, out string) []string {
	return func(in, out string) []string {
		args := inputArgs(in)
		args = append(args, "-map", "0:V", "-map", "0:a?")
		args = append(args, enc.Args...)
		args = append(args, "-c:a", "aac", "-b:a", "160k")
		return append(args, outputArgs(out)...)
	}
}
