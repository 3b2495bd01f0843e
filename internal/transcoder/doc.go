// Package transcoder makes course videos playable in a browser using
// ffprobe and ffmpeg.
//
// It covers:
//   - Probing container and stream metadata (typed ffprobe JSON)
//   - Classifying a file as compatible, remux or transcode
//   - Detecting a working hardware H.264 encoder with a tiny synthetic encode
//   - Running an ordered list of encoder strategies with live progress
//   - Verifying the produced MP4 before it replaces the original
//
// External tools are reached through the Runner interface so tests can
// substitute a fake. FFmpeg and FFprobe must be on PATH or configured.
package transcoder
