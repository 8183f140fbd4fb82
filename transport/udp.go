package transport

import (
	"context"
	"net"
	"strconv"
	"sync"

	reuseport "github.com/kavu/go_reuseport"
	"go.uber.org/zap"
)

const defaultReadBufferSize = 1024

// UDP is the production transport: one packet socket shared by every
// peer, with a read pump feeding Recv.
type UDP struct {
	conn net.PacketConn

	recvCh chan Datagram
	closed chan struct{}
	once   sync.Once

	log   *zap.Logger
	trace bool
}

// NewUDP binds a packet socket and starts its read pump. With Port 0
// the kernel picks a free port, which is what clients want.
func NewUDP(options Options) (*UDP, error) {
	addr := net.JoinHostPort(options.Host, strconv.Itoa(options.Port))

	var (
		conn net.PacketConn
		err  error
	)
	if options.Reuseport {
		conn, err = reuseport.ListenPacket("udp", addr)
	} else {
		conn, err = net.ListenPacket("udp", addr)
	}
	if err != nil {
		return nil, err
	}

	bufSize := options.ReadBufferSize
	if bufSize <= 0 {
		bufSize = defaultReadBufferSize
	}

	u := &UDP{
		conn:   conn,
		recvCh: make(chan Datagram, 64),
		closed: make(chan struct{}),
		log:    options.Log.Named("udp"),
		trace:  options.Trace,
	}

	go u.readLoop(bufSize)
	return u, nil
}

func (u *UDP) readLoop(bufSize int) {
	log := u.log.Named("readLoop")

	for {
		buf := make([]byte, bufSize)
		n, addr, err := u.conn.ReadFrom(buf)
		if err != nil {
			select {
			case <-u.closed:
				return
			default:
			}

			log.Warn("Failed to read datagram", zap.Error(err))
			continue
		}

		if u.trace {
			log.Debug("recv",
				zap.String("from", addr.String()),
				zap.Binary("data", buf[:n]),
			)
		}

		select {
		case u.recvCh <- Datagram{Addr: addr, Data: buf[:n]}:
		case <-u.closed:
			return
		}
	}
}

func (u *UDP) Send(addr net.Addr, data []byte) error {
	select {
	case <-u.closed:
		return ErrClosed
	default:
	}

	if u.trace {
		u.log.Debug("send",
			zap.String("to", addr.String()),
			zap.Binary("data", data),
		)
	}

	_, err := u.conn.WriteTo(data, addr)
	return err
}

func (u *UDP) Recv(ctx context.Context) (Datagram, error) {
	select {
	case dgram := <-u.recvCh:
		return dgram, nil
	case <-u.closed:
		return Datagram{}, ErrClosed
	case <-ctx.Done():
		return Datagram{}, ctx.Err()
	}
}

func (u *UDP) LocalAddr() net.Addr {
	return u.conn.LocalAddr()
}

func (u *UDP) Close() error {
	var err error
	u.once.Do(func() {
		close(u.closed)
		err = u.conn.Close()
	})
	return err
}
