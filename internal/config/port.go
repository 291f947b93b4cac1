package config

import (
	"fmt"
	"net"
)

// ValidatePort checks that the chosen listen port is in [8000, 9000).
func ValidatePort(port int) error {
	if port < 8000 || port >= 9000 {
		return fmt.Errorf("Please use a port in the range [8000, 9000).")
	}
	return nil
}

// ProbePort attempts a TCP bind on host:port to make sure the port is free,
// then releases it.
func ProbePort(host string, port int) error {
	ln, err := net.Listen("tcp", fmt.Sprintf("%s:%d", host, port))
	if err != nil {
		return fmt.Errorf("Looks like port %d is taken! Choose a different one.", port)
	}
	return ln.Close()
}
