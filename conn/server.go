package conn

import (
	"context"
	"errors"
	"sync"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/luma/voxelwire/packet"
	"github.com/luma/voxelwire/peer"
	"github.com/luma/voxelwire/protocol"
	"github.com/luma/voxelwire/transport"
)

const EventBufferSize = 255

// Server drives an Engine as the server end: it accepts any number of
// clients over one transport, assigns them peer ids on first contact,
// and surfaces joins, commands and departures as Events.
type Server struct {
	cancel     context.CancelFunc
	loopWaiter sync.WaitGroup

	clk    clock.Clock
	tr     transport.Transport
	engine *Engine

	events chan Event

	log *zap.Logger
}

func NewServer(log *zap.Logger, clk clock.Clock, tr transport.Transport, cfg peer.Config) *Server {
	return &Server{
		clk:    clk,
		tr:     tr,
		engine: NewEngine(log, peer.RoleServer, cfg),
		events: make(chan Event, EventBufferSize),
		log:    log.Named("server"),
	}
}

// Start launches the read and tick loops. It does not block.
func (s *Server) Start(parentCtx context.Context) error {
	ctx, cancel := context.WithCancel(parentCtx)
	s.cancel = cancel

	s.log.Info("Starting server", zap.String("addr", s.tr.LocalAddr().String()))

	s.loopWaiter.Add(2)

	go func() {
		defer s.loopWaiter.Done()
		s.readLoop(ctx)
	}()

	go func() {
		defer s.loopWaiter.Done()
		s.tickLoop(ctx)
	}()

	return nil
}

// Events is where joins, commands and departures arrive. The buffer is
// bounded; events overflowing it are dropped with a warning rather than
// stalling the network loops.
func (s *Server) Events() <-chan Event {
	return s.events
}

// SendCommand queues cmd for one client.
func (s *Server) SendCommand(id packet.PeerID, cmd protocol.Command) error {
	if err := s.engine.SendCommand(id, cmd); err != nil {
		return err
	}
	s.flush()
	return nil
}

// Broadcast queues cmd for every connected client.
func (s *Server) Broadcast(cmd protocol.Command) error {
	var errs error
	for _, info := range s.engine.Snapshot() {
		if err := s.engine.SendCommand(info.ID, cmd); err != nil && !errors.Is(err, peer.ErrPeerClosed) {
			errs = err
		}
	}
	s.flush()
	return errs
}

// Disconnect drops one client, sending it a best-effort disconnect.
func (s *Server) Disconnect(id packet.PeerID) error {
	addr, data, err := s.engine.Disconnect(id)
	if err != nil {
		return err
	}
	return s.tr.Send(addr, data)
}

// PeerCount returns how many clients are connected.
func (s *Server) PeerCount() int {
	return s.engine.PeerCount()
}

// Snapshot lists the connected clients for introspection.
func (s *Server) Snapshot() []PeerInfo {
	return s.engine.Snapshot()
}

// Close stops the loops and the transport.
func (s *Server) Close() error {
	s.log.Info("Stopping server")
	s.cancel()
	s.loopWaiter.Wait()
	return s.tr.Close()
}

func (s *Server) readLoop(ctx context.Context) {
	log := s.log.Named("readLoop")

	for {
		dgram, err := s.tr.Recv(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, transport.ErrClosed) {
				log.Info("Read loop exiting")
				return
			}

			log.Warn("Failed to receive datagram", zap.Error(err))
			continue
		}

		now := s.clk.Now()

		newID, err := s.engine.HandleDatagram(now, dgram.Addr, dgram.Data)
		if err != nil {
			// A malformed datagram says nothing about the rest of the
			// association.
			log.Warn("Rejected datagram",
				zap.String("from", dgram.Addr.String()),
				zap.Error(err),
			)
		}
		if newID != packet.PeerIDNil {
			s.emit(Event{Kind: EventPeerJoined, PeerID: newID, Addr: dgram.Addr})
		}

		s.drainReceived()
		s.flush()
	}
}

func (s *Server) tickLoop(ctx context.Context) {
	log := s.log.Named("tickLoop")

	ticker := s.clk.Ticker(peer.ResendResolution)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Tick loop exiting")
			return

		case <-ticker.C:
			now := s.clk.Now()

			if err := s.engine.Tick(now); err != nil {
				log.Debug("Peer timers", zap.Error(err))
			}
			s.flush()

			for _, entry := range s.engine.Reap() {
				s.emit(Event{
					Kind:   EventPeerLeft,
					PeerID: entry.ID,
					Addr:   entry.Addr,
					Err:    entry.Peer.Err(),
				})
			}
		}
	}
}

func (s *Server) drainReceived() {
	for {
		id, cmd, ok := s.engine.PollReceived()
		if !ok {
			return
		}
		s.emit(Event{Kind: EventCommand, PeerID: id, Cmd: cmd})
	}
}

func (s *Server) flush() {
	now := s.clk.Now()
	for {
		addr, data, ok := s.engine.PollSend(now)
		if !ok {
			return
		}
		if err := s.tr.Send(addr, data); err != nil {
			s.log.Warn("Failed to send datagram",
				zap.String("to", addr.String()),
				zap.Error(err),
			)
		}
	}
}

func (s *Server) emit(ev Event) {
	select {
	case s.events <- ev:
	default:
		s.log.Warn("Event buffer full, dropping event",
			zap.Uint8("kind", uint8(ev.Kind)),
			zap.Uint16("peer", uint16(ev.PeerID)),
		)
	}
}
