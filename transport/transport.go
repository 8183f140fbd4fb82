// Package transport abstracts how raw datagrams reach the engine. The
// protocol above only assumes unreliable, unordered, possibly-duplicated
// delivery, so anything datagram-shaped can back it: a UDP socket in
// production, an in-memory pipe in tests.
package transport

import (
	"context"
	"errors"
	"net"
)

// ErrClosed is returned once a transport has been closed.
var ErrClosed = errors.New("Transport is closed")

// Datagram is one raw datagram and where it came from (inbound) or
// should go (outbound).
type Datagram struct {
	Addr net.Addr
	Data []byte
}

// Transport moves raw datagrams. Implementations must allow Send and
// Recv from different goroutines.
type Transport interface {
	// Send transmits one datagram. It never blocks on the network being
	// slow; a datagram that can't be sent right now is dropped, which
	// the protocol already tolerates.
	Send(addr net.Addr, data []byte) error

	// Recv blocks for the next inbound datagram until the context is
	// cancelled or the transport closed.
	Recv(ctx context.Context) (Datagram, error)

	LocalAddr() net.Addr

	Close() error
}
