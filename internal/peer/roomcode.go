package peer

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
)

const (
	DefaultPort     = 5555
	DefaultBindHost = "0.0.0.0"
	loopbackIP      = "127.0.0.1"
)

var ErrInvalidRoomCode = errors.New("invalid room code, use host:port")

// FormatRoomCode joins host and port into a room code.
func FormatRoomCode(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// ParseRoomCode splits a room code into a dialable host and port.
func ParseRoomCode(code string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(strings.TrimSpace(code))
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", ErrInvalidRoomCode, err)
	}
	if host == "" {
		return "", 0, fmt.Errorf("%w: missing host", ErrInvalidRoomCode)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port < 1 || port > 65535 {
		return "", 0, fmt.Errorf("%w: bad port %q", ErrInvalidRoomCode, portStr)
	}
	return host, port, nil
}

// LocalIP returns the address this machine would use for outbound traffic,
// falling back to the loopback address. No packet is sent.
func LocalIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return loopbackIP
	}
	defer conn.Close()

	if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok && !addr.IP.IsUnspecified() {
		return addr.IP.String()
	}
	return loopbackIP
}
