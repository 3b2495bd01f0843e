// Package conversion finds course videos a browser cannot play and, once
// the user confirms, converts them one at a time.
//
// The pipeline moves through four phases:
//
//	scanning -> waiting -> done                  (nothing to repair)
//	scanning -> waiting -> converting -> done    (after Confirm)
//
// HTTP handlers only read immutable Snapshot values; the pipeline goroutine
// is the only writer.
package conversion
