package transcoder

import (
	"context"
	"errors"
	"io"
	"os"
	"slices"
	"strings"
	"sync"
)

// fakeRunner answers ffprobe through probe and ffmpeg encodes through
// encode. Every invocation is recorded.
type fakeRunner struct {
	mu    sync.Mutex
	calls [][]string

	output func(name string, args []string) ([]byte, error)
	encode func(args []string) *fakeCommand
}

func (f *fakeRunner) record(name string, args []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, append([]string{name}, args...))
}

func (f *fakeRunner) Output(_ context.Context, name string, args ...string) ([]byte, error) {
	f.record(name, args)
	if f.output == nil {
		return nil, errors.New("not found")
	}
	return f.output(name, args)
}

func (f *fakeRunner) Command(_ context.Context, name string, args ...string) Command {
	f.record(name, args)
	if f.encode == nil {
		return &fakeCommand{waitErr: errors.New("exit status 1")}
	}
	return f.encode(args)
}

func (f *fakeRunner) encodeCalls() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out [][]string
	for _, c := range f.calls {
		if c[0] == "ffmpeg" && slices.Contains(c, "-progress") {
			out = append(out, c)
		}
	}
	return out
}

type fakeCommand struct {
	stdout   string
	stderr   string
	startErr error
	waitErr  error
	// writeOutput, when set, is written to the last argument on Start.
	writeOutput []byte
	args        []string
}

func (c *fakeCommand) StdoutPipe() (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(c.stdout)), nil
}

func (c *fakeCommand) StderrPipe() (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(c.stderr)), nil
}

func (c *fakeCommand) Start() error {
	if c.startErr != nil {
		return c.startErr
	}
	if c.writeOutput != nil && len(c.args) > 0 {
		return os.WriteFile(c.args[len(c.args)-1], c.writeOutput, 0o644)
	}
	return nil
}

func (c *fakeCommand) Wait() error {
	return c.waitErr
}

const progressOutput = "frame=10\nout_time_us=30000000\nprogress=continue\nout_time_us=60000000\nprogress=end\n"

func probeJSON(formatName, duration string, streams ...string) []byte {
	return []byte(`{"streams":[` + strings.Join(streams, ",") + `],"format":{"format_name":"` + formatName + `","duration":"` + duration + `"}}`)
}

const (
	h264Stream = `{"index":0,"codec_type":"video","codec_name":"h264","profile":"High","pix_fmt":"yuv420p"}`
	aacStream  = `{"index":1,"codec_type":"audio","codec_name":"aac"}`
)
