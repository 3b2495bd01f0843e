package scanner

import (
	"fmt"
	"io/fs"
	"path"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint hashes the relative path, size and whole-second mtime of
// every file WalkFiles visits. Any add, remove, rename, resize or touch
// changes the result; two calls over an untouched tree agree.
func Fingerprint(root string) (string, error) {
	d := xxhash.New()
	first := true

	err := WalkFiles(root, func(rel string, info fs.FileInfo) error {
		if !first {
			_, _ = d.WriteString("\n")
		}
		first = false

		dir := path.Dir(rel)
		_, _ = fmt.Fprintf(d, "%s/%s|%d|%d", dir, path.Base(rel), info.Size(), info.ModTime().Unix())
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("fingerprint %s: %w", root, err)
	}

	return fmt.Sprintf("%016x", d.Sum64()), nil
}
