package transport

import (
	"context"
	"fmt"
	"net"
	"sync"
)

// PipeAddr names one end of an in-memory pipe.
type PipeAddr struct {
	Name string
}

func (a PipeAddr) Network() string { return "pipe" }
func (a PipeAddr) String() string  { return a.Name }

// Pipe is an in-memory Transport for tests: two ends exchanging
// datagrams over buffered channels. Unlike a real socket it never loses
// anything on its own; tests that want loss just don't forward a
// datagram.
type Pipe struct {
	addr   PipeAddr
	local  chan Datagram
	remote *Pipe

	closed chan struct{}
	once   sync.Once
}

// NewPipe returns two connected ends.
func NewPipe(nameA, nameB string) (*Pipe, *Pipe) {
	a := &Pipe{
		addr:   PipeAddr{Name: nameA},
		local:  make(chan Datagram, 256),
		closed: make(chan struct{}),
	}
	b := &Pipe{
		addr:   PipeAddr{Name: nameB},
		local:  make(chan Datagram, 256),
		closed: make(chan struct{}),
	}
	a.remote = b
	b.remote = a
	return a, b
}

func (p *Pipe) Send(addr net.Addr, data []byte) error {
	select {
	case <-p.closed:
		return ErrClosed
	default:
	}

	dgram := Datagram{Addr: p.addr, Data: append([]byte(nil), data...)}

	select {
	case p.remote.local <- dgram:
		return nil
	case <-p.remote.closed:
		return fmt.Errorf("send to %s: %w", addr, ErrClosed)
	default:
		// A full pipe drops, like a full socket buffer would.
		return nil
	}
}

func (p *Pipe) Recv(ctx context.Context) (Datagram, error) {
	select {
	case dgram := <-p.local:
		return dgram, nil
	case <-p.closed:
		return Datagram{}, ErrClosed
	case <-ctx.Done():
		return Datagram{}, ctx.Err()
	}
}

func (p *Pipe) LocalAddr() net.Addr {
	return p.addr
}

func (p *Pipe) Close() error {
	p.once.Do(func() {
		close(p.closed)
	})
	return nil
}
