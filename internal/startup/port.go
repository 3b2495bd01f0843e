package startup

import (
	"errors"
	"fmt"
	"net"
	"strconv"
)

// ErrNoFreePort is returned when every port in the range is taken.
var ErrNoFreePort = errors.New("no free port")

// FindFreePort returns the first port in [start, end] that can be bound on
// host.
func FindFreePort(host string, start, end int) (int, error) {
	if start <= 0 || end < start {
		return 0, fmt.Errorf("invalid port range %d-%d", start, end)
	}

	for port := start; port <= end; port++ {
		l, err := net.Listen("tcp", net.JoinHostPort(host, strconv.Itoa(port)))
		if err != nil {
			continue
		}
		if err := l.Close(); err != nil {
			continue
		}
		return port, nil
	}
	return 0, fmt.Errorf("%w in range %d-%d", ErrNoFreePort, start, end)
}
