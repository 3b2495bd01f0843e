package startup

import (
	"context"
	"net"
	"syscall"

	"github.com/Lacarte/video-player/internal/logging"
)

// Listen opens a TCP listener on addr with SO_REUSEADDR set so a restart
// can rebind while old connections sit in TIME_WAIT. Accepted connections
// have Nagle's algorithm disabled.
func Listen(ctx context.Context, addr string) (net.Listener, error) {
	lc := net.ListenConfig{
		Control: func(_, _ string, c syscall.RawConn) error {
			var sockErr error
			if err := c.Control(func(fd uintptr) {
				sockErr = setReuseAddr(fd)
			}); err != nil {
				return err
			}
			return sockErr
		},
	}

	l, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	return &noDelayListener{Listener: l}, nil
}

type noDelayListener struct {
	net.Listener
}

func (l *noDelayListener) Accept() (net.Conn, error) {
	conn, err := l.Listener.Accept()
	if err != nil {
		return nil, err
	}
	if tcp, ok := conn.(*net.TCPConn); ok {
		if err := tcp.SetNoDelay(true); err != nil {
			logging.Debug("set TCP_NODELAY: %v", err)
		}
	}
	return conn, nil
}
