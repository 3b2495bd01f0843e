/*
Package streaming serves course files over HTTP with byte-range support.

# Overview

Browsers seek inside a video by issuing Range requests. ServeFile answers a
single "bytes=start-end" range with 206 Partial Content, an out-of-bounds
start with 416 and the file's total length, and anything else with the whole
file. The body is copied in bounded chunks through a TimeoutWriter so a
multi-gigabyte lecture never sits in memory and a stalled client cannot hold
a goroutine forever.

# Basic Usage

	func (h *Handlers) StreamMedia(w http.ResponseWriter, r *http.Request) {
		path, err := filesystem.Confine(h.root, rel)
		if err != nil {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		if err := streaming.ServeFile(w, r, path, streaming.DefaultWriterConfig()); err != nil {
			logging.Error("Media: %v", err)
		}
	}

# Range Handling

ParseRange understands exactly one form:

	bytes=<start>-<end>    inclusive, end clamped to size-1
	bytes=<start>-         through end of file

A missing end defaults to end of file. An end before the start, suffix
ranges ("bytes=-500") and multi-range sets are treated as malformed and the
whole file is served instead.

# Error Handling

	var (
		ErrWriteTimeout   = errors.New("write timeout exceeded")
		ErrClientGone     = errors.New("client disconnected")
		ErrStreamCanceled = errors.New("stream canceled")
	)

IsClientGone folds these together with broken-pipe and connection-reset
errors; ServeFile logs such cases at debug level and returns nil.

# Thread Safety

TimeoutWriter guards its counters with a mutex. The idle watcher runs in its
own goroutine and exits when the writer is closed or the request ends.
*/
package streaming
