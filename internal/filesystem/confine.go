package filesystem

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrOutsideRoot is returned when a path escapes its root.
var ErrOutsideRoot = errors.New("path escapes root")

// IsWithin reports whether path is root or lies below it. Both must be
// absolute and clean.
func IsWithin(root, path string) bool {
	if path == root {
		return true
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

// Confine joins rel onto root and returns the resulting absolute path if
// it stays under root both lexically and after resolving symlinks. root
// must already be absolute and symlink-resolved.
//
// A missing target yields an error satisfying errors.Is(err,
// os.ErrNotExist); an escape yields ErrOutsideRoot.
func Confine(root, rel string) (string, error) {
	joined := filepath.Join(root, filepath.FromSlash(rel))
	if !IsWithin(root, joined) {
		return "", fmt.Errorf("%q: %w", rel, ErrOutsideRoot)
	}

	resolved, err := filepath.EvalSymlinks(joined)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		return "", fmt.Errorf("resolve %q: %w", rel, err)
	}
	if !IsWithin(root, resolved) {
		return "", fmt.Errorf("%q: %w", rel, ErrOutsideRoot)
	}
	return resolved, nil
}
