package scanner

import (
	"fmt"
	"net/url"
	"strings"
)

// MediaPrefix is the URL prefix under which course files are served.
const MediaPrefix = "/media/"

const upperhex = "0123456789ABCDEF"

// MediaURL maps a slash-separated path relative to the course root to its
// /media/ URL. Every byte outside the unreserved set is percent-encoded,
// including '/' inside a segment, so a name can never add a path level.
func MediaURL(rel string) string {
	segments := strings.Split(rel, "/")
	for i, s := range segments {
		segments[i] = escapeSegment(s)
	}
	return MediaPrefix + strings.Join(segments, "/")
}

func escapeSegment(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-' || c == '_' || c == '.' || c == '~':
		return true
	}
	return false
}

// RelFromMediaURL strips the /media/ prefix from a URL path and
// percent-decodes the rest. It does not confine the result; callers must
// check it stays under the course root.
func RelFromMediaURL(urlPath string) (string, error) {
	rel := strings.TrimPrefix(urlPath, MediaPrefix)
	decoded, err := url.PathUnescape(rel)
	if err != nil {
		return "", fmt.Errorf("decode media path %q: %w", urlPath, err)
	}
	return decoded, nil
}
