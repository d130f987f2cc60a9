//go:build !windows

package ipc

import (
	"errors"
	"net"
	"time"
)

func listenPipe(string) (net.Listener, error) {
	return nil, errors.ErrUnsupported
}

func dialPipe(string, time.Duration) (net.Conn, error) {
	return nil, errors.ErrUnsupported
}
