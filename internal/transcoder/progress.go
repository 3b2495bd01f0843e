package transcoder

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// ProgressFunc receives the completion percentage of the running encode.
type ProgressFunc func(percent float64)

// ReadProgress consumes ffmpeg's -progress key=value stream until EOF,
// reporting out_time against total seconds. "progress=end" reports 100.
// With an unknown total only the final 100 is reported.
func ReadProgress(r io.Reader, total float64, fn ProgressFunc) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		key, value, ok := strings.Cut(strings.TrimSpace(sc.Text()), "=")
		if !ok {
			continue
		}

		switch key {
		// out_time_ms is in microseconds too; ffmpeg kept the old name.
		case "out_time_us", "out_time_ms":
			us, err := strconv.ParseInt(value, 10, 64)
			if err != nil || us < 0 || total <= 0 {
				continue
			}
			pct := float64(us) / 1e6 / total * 100
			if fn != nil {
				fn(min(pct, 99.9))
			}
		case "progress":
			if value == "end" && fn != nil {
				fn(100)
			}
		}
	}
	return sc.Err()
}
