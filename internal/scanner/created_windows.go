//go:build windows

package scanner

import (
	"io/fs"
	"syscall"
	"time"
)

func createdTime(info fs.FileInfo) time.Time {
	if attrs, ok := info.Sys().(*syscall.Win32FileAttributeData); ok {
		return time.Unix(0, attrs.CreationTime.Nanoseconds())
	}
	return info.ModTime()
}
