package streaming

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

var (
	// ErrNoRange is returned by ParseRange for an empty header.
	ErrNoRange = errors.New("no range requested")
	// ErrMalformedRange means the header could not be used; the whole file
	// should be served.
	ErrMalformedRange = errors.New("malformed range")
	// ErrUnsatisfiable means the range starts at or beyond the end of the
	// file.
	ErrUnsatisfiable = errors.New("range not satisfiable")
)

var rangePattern = regexp.MustCompile(`^bytes=(\d+)-(\d*)$`)

// ByteRange is an inclusive span of a file.
type ByteRange struct {
	Start int64
	End   int64
}

// Length returns the number of bytes in the span.
func (r ByteRange) Length() int64 {
	return r.End - r.Start + 1
}

// ContentRange formats the Content-Range header value for a file of size
// bytes.
func (r ByteRange) ContentRange(size int64) string {
	return fmt.Sprintf("bytes %d-%d/%d", r.Start, r.End, size)
}

// ParseRange parses a single "bytes=start-end" header against a file of the
// given size. A missing end means end of file and an end past the file is
// clamped. Suffix ranges and multi-range sets are reported as malformed.
func ParseRange(header string, size int64) (ByteRange, error) {
	if header == "" {
		return ByteRange{}, ErrNoRange
	}

	m := rangePattern.FindStringSubmatch(header)
	if m == nil {
		return ByteRange{}, ErrMalformedRange
	}

	start, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return ByteRange{}, ErrMalformedRange
	}

	end := size - 1
	if m[2] != "" {
		end, err = strconv.ParseInt(m[2], 10, 64)
		if err != nil {
			return ByteRange{}, ErrMalformedRange
		}
		if end < start {
			return ByteRange{}, ErrMalformedRange
		}
		end = min(end, size-1)
	}

	if start >= size {
		return ByteRange{}, ErrUnsatisfiable
	}

	return ByteRange{Start: start, End: end}, nil
}
