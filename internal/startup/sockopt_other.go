//go:build !unix && !windows

package startup

func setReuseAddr(uintptr) error {
	return nil
}
