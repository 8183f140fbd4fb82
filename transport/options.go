package transport

import (
	"go.uber.org/zap"
)

type Options struct {
	// Host to bind or dial
	Host string

	// Port to bind or dial
	Port int

	// Reuseport controls setting SO_REUSEPORT on the socket, which lets
	// several engine processes share one port.
	Reuseport bool

	// Trace will log every datagram. This is only useful in local
	// debugging.
	Trace bool

	// ReadBufferSize overrides the inbound datagram buffer. Anything
	// larger than the protocol's max datagram is wasted.
	ReadBufferSize int

	Log *zap.Logger
}
