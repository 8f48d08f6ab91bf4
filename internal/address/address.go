// Package address parses and validates the user supplied game server endpoint.
package address

import (
	"errors"
	"fmt"
	"net"
	"net/netip"
	"strconv"
)

// ErrInvalidAddress is returned when an endpoint string is not a valid "IP:PORT" pair.
var ErrInvalidAddress = errors.New("invalid address")

// Endpoint is the public game address of a server (the port players connect to).
type Endpoint struct {
	Addr netip.Addr
	Port uint16
}

// QueryEndpoint is the address of the server's A2S query socket.
// Addr is inherited from the game Endpoint, QueryPort is discovered by the directory lookup.
type QueryEndpoint struct {
	Addr      netip.Addr
	QueryPort uint16
}

// Parse validates raw as "<ip>:<port>". IPv6 literals must be bracketed, e.g. "[::1]:2302".
func Parse(raw string) (Endpoint, error) {
	host, portStr, err := net.SplitHostPort(raw)
	if err != nil {
		return Endpoint{}, fmt.Errorf("%w %q: expected IP:PORT", ErrInvalidAddress, raw)
	}

	addr, err := netip.ParseAddr(host)
	if err != nil {
		return Endpoint{}, fmt.Errorf("%w %q: bad ip %q", ErrInvalidAddress, raw, host)
	}

	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return Endpoint{}, fmt.Errorf("%w %q: bad port %q", ErrInvalidAddress, raw, portStr)
	}

	return Endpoint{Addr: addr.Unmap(), Port: uint16(port)}, nil
}

// UnmarshalFlag lets an Endpoint be used directly as a go-flags argument.
func (e *Endpoint) UnmarshalFlag(value string) error {
	ep, err := Parse(value)
	if err != nil {
		return err
	}
	*e = ep

	return nil
}

// IsValid reports whether the endpoint was set.
func (e Endpoint) IsValid() bool {
	return e.Addr.IsValid()
}

// String returns the canonical "IP:PORT" form.
func (e Endpoint) String() string {
	return netip.AddrPortFrom(e.Addr, e.Port).String()
}

// Query returns the query endpoint on the same host with the given port.
func (e Endpoint) Query(port uint16) QueryEndpoint {
	return QueryEndpoint{Addr: e.Addr, QueryPort: port}
}

// String returns the canonical "IP:PORT" form of the query socket.
func (q QueryEndpoint) String() string {
	return netip.AddrPortFrom(q.Addr, q.QueryPort).String()
}
