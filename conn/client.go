package conn

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/luma/voxelwire/packet"
	"github.com/luma/voxelwire/peer"
	"github.com/luma/voxelwire/protocol"
	"github.com/luma/voxelwire/transport"
)

// Client drives an Engine as the client end: one peer, the server. It
// opens the association, learns its peer id from the server, and
// surfaces received commands and the connection lifecycle as Events.
type Client struct {
	cancel     context.CancelFunc
	loopWaiter sync.WaitGroup

	clk        clock.Clock
	tr         transport.Transport
	serverAddr net.Addr
	engine     *Engine

	events chan Event

	log *zap.Logger
}

func NewClient(log *zap.Logger, clk clock.Clock, tr transport.Transport, serverAddr net.Addr, cfg peer.Config) *Client {
	return &Client{
		clk:        clk,
		tr:         tr,
		serverAddr: serverAddr,
		engine:     NewEngine(log, peer.RoleClient, cfg),
		events:     make(chan Event, EventBufferSize),
		log:        log.Named("client"),
	}
}

// Connect registers the server as our one peer, starts the loops, and
// opens the association: the first datagram out is an empty command
// stamped with the nil sender id, which is what prompts the server to
// assign us a real one.
func (c *Client) Connect(parentCtx context.Context) error {
	ctx, cancel := context.WithCancel(parentCtx)
	c.cancel = cancel

	c.engine.AddPeer(c.clk.Now(), c.serverAddr, packet.PeerIDServer)

	c.loopWaiter.Add(2)

	go func() {
		defer c.loopWaiter.Done()
		c.readLoop(ctx)
	}()

	go func() {
		defer c.loopWaiter.Done()
		c.tickLoop(ctx)
	}()

	if err := c.engine.SendCommand(packet.PeerIDServer, &protocol.ToServerNull{}); err != nil {
		return err
	}
	c.flush()

	c.log.Info("Connecting", zap.String("server", c.serverAddr.String()))
	return nil
}

// AwaitPeerID blocks until the server has assigned this client its
// peer id, or ctx expires.
func (c *Client) AwaitPeerID(ctx context.Context) (packet.PeerID, error) {
	ticker := c.clk.Ticker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		if id := c.PeerID(); id != packet.PeerIDNil {
			return id, nil
		}

		select {
		case <-ctx.Done():
			return packet.PeerIDNil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// PeerID returns the id the server assigned us, or nil before the
// assignment arrives.
func (c *Client) PeerID() packet.PeerID {
	for _, info := range c.engine.Snapshot() {
		return info.LocalID
	}
	return packet.PeerIDNil
}

// Events is where received commands and the connection lifecycle
// arrive.
func (c *Client) Events() <-chan Event {
	return c.events
}

// SendCommand queues cmd on its default channel and reliability.
func (c *Client) SendCommand(cmd protocol.Command) error {
	if err := c.engine.SendCommand(packet.PeerIDServer, cmd); err != nil {
		return err
	}
	c.flush()
	return nil
}

// Send is SendCommand with explicit channel and reliability.
func (c *Client) Send(cmd protocol.Command, channel uint8, reliable bool) error {
	if err := c.engine.Send(packet.PeerIDServer, cmd, channel, reliable); err != nil {
		return err
	}
	c.flush()
	return nil
}

// Disconnect tells the server we're leaving and tears the client down.
func (c *Client) Disconnect() error {
	addr, data, err := c.engine.Disconnect(packet.PeerIDServer)
	if err == nil {
		if serr := c.tr.Send(addr, data); serr != nil {
			c.log.Warn("Failed to send disconnect", zap.Error(serr))
		}
	} else if !errors.Is(err, ErrUnknownPeer) {
		return err
	}

	c.cancel()
	c.loopWaiter.Wait()
	return c.tr.Close()
}

func (c *Client) readLoop(ctx context.Context) {
	log := c.log.Named("readLoop")

	for {
		dgram, err := c.tr.Recv(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, transport.ErrClosed) {
				log.Info("Read loop exiting")
				return
			}

			log.Warn("Failed to receive datagram", zap.Error(err))
			continue
		}

		now := c.clk.Now()

		if _, err := c.engine.HandleDatagram(now, dgram.Addr, dgram.Data); err != nil {
			log.Warn("Rejected datagram", zap.Error(err))
		}

		c.drainReceived()
		c.flush()
	}
}

func (c *Client) tickLoop(ctx context.Context) {
	log := c.log.Named("tickLoop")

	ticker := c.clk.Ticker(peer.ResendResolution)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Tick loop exiting")
			return

		case <-ticker.C:
			now := c.clk.Now()

			if err := c.engine.Tick(now); err != nil {
				log.Debug("Peer timers", zap.Error(err))
			}
			c.flush()

			for _, entry := range c.engine.Reap() {
				c.emit(Event{
					Kind:   EventPeerLeft,
					PeerID: entry.ID,
					Addr:   entry.Addr,
					Err:    entry.Peer.Err(),
				})
			}
		}
	}
}

func (c *Client) drainReceived() {
	for {
		id, cmd, ok := c.engine.PollReceived()
		if !ok {
			return
		}
		c.emit(Event{Kind: EventCommand, PeerID: id, Cmd: cmd})
	}
}

func (c *Client) flush() {
	now := c.clk.Now()
	for {
		addr, data, ok := c.engine.PollSend(now)
		if !ok {
			return
		}
		if err := c.tr.Send(addr, data); err != nil {
			c.log.Warn("Failed to send datagram", zap.Error(err))
		}
	}
}

func (c *Client) emit(ev Event) {
	select {
	case c.events <- ev:
	default:
		c.log.Warn("Event buffer full, dropping event",
			zap.Uint8("kind", uint8(ev.Kind)),
		)
	}
}
