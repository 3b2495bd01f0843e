//go:build !linux && !darwin && !windows

package scanner

import (
	"io/fs"
	"time"
)

func createdTime(info fs.FileInfo) time.Time {
	return info.ModTime()
}
