//go:build windows

package ipc

import (
	"net"
	"time"
)

func listen(path string) (net.Listener, error) {
	return nil, ErrNotSupported
}

func removeSocket(path string) {}

func dial(path string, timeout time.Duration) (net.Conn, error) {
	return nil, ErrNotSupported
}
