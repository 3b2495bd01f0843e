package scanner

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// ignoredDirs are tooling or trash folders that never belong to a course.
var ignoredDirs = map[string]bool{
	".git":                      true,
	"__pycache__":               true,
	"node_modules":              true,
	".vscode":                   true,
	".idea":                     true,
	"trash":                     true,
	"deleteVideos":              true,
	"$RECYCLE.BIN":              true,
	"System Volume Information": true,
}

// IsHidden reports whether a file or folder name is skipped by the scanner.
func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// IsIgnoredDir reports whether a folder is pruned from every walk.
func IsIgnoredDir(name string) bool {
	return IsHidden(name) || ignoredDirs[name]
}

// WalkFunc receives the slash-separated path of a regular file relative to
// the walk root together with its FileInfo.
type WalkFunc func(rel string, info fs.FileInfo) error

// WalkFiles visits every visible regular file below root in lexical order.
// A symlinked root is resolved first; symlinks below it are skipped, as
// are hidden entries and ignored folders. Unreadable folders are skipped
// silently. An error returned by fn stops the walk.
func WalkFiles(root string, fn WalkFunc) error {
	resolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		return err
	}
	root = resolved

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			if path == root {
				return err
			}
			return nil
		}

		if d.IsDir() {
			if path != root && IsIgnoredDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if IsHidden(d.Name()) || !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		return fn(filepath.ToSlash(rel), info)
	})
}
