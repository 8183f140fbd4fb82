// Package conn connects the clock-free protocol state machines to real
// sockets, goroutines and time. Engine is the thread-safe multiplexer
// over every tracked peer; Server and Client drive an Engine with a
// transport and a clock.
package conn

import (
	"errors"
	"math/rand"
	"net"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/luma/voxelwire/packet"
	"github.com/luma/voxelwire/peer"
	"github.com/luma/voxelwire/protocol"
)

var (
	// ErrUnknownPeer means no tracked peer matches the given id.
	ErrUnknownPeer = errors.New("No such peer")
)

// Engine multiplexes protocol state over any number of peers. It owns
// the peer table and all per-peer state; every method is safe for
// concurrent use. The Engine still never touches a socket or a clock:
// drivers feed it datagrams and time and drain it of datagrams to
// transmit.
type Engine struct {
	log     *zap.Logger
	role    peer.Role
	peerCfg peer.Config

	mu    sync.Mutex
	table *PeerTable
}

// NewEngine builds an engine for one end of the protocol. cfg is the
// template every new peer starts from; its Role and RemoteID are set
// per peer.
func NewEngine(log *zap.Logger, role peer.Role, cfg peer.Config) *Engine {
	return &Engine{
		log:     log.Named("engine"),
		role:    role,
		peerCfg: cfg,
		table:   NewPeerTable(rand.New(rand.NewSource(time.Now().UnixNano()))),
	}
}

// AddPeer tracks a remote end at addr with a fixed id. Clients use it
// to register their one server before connecting.
func (e *Engine) AddPeer(now time.Time, addr net.Addr, id packet.PeerID) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cfg := e.peerCfg
	cfg.Role = e.role
	cfg.RemoteID = id

	p := peer.New(e.log, cfg, now)
	e.table.Insert(addr, id, p)
}

// HandleDatagram routes one inbound datagram to the peer at addr. On a
// server, a datagram from an unknown address creates the peer and
// assigns it an id; newID is that id, or nil when the sender was
// already known. Errors are per-datagram and leave every peer
// consistent.
func (e *Engine) HandleDatagram(now time.Time, addr net.Addr, data []byte) (newID packet.PeerID, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	entry, ok := e.table.ByAddr(addr)
	if !ok {
		if e.role != peer.RoleServer {
			return packet.PeerIDNil, ErrUnknownPeer
		}

		entry, err = e.admit(now, addr)
		if err != nil {
			return packet.PeerIDNil, err
		}
		newID = entry.ID
	}

	if err := entry.Peer.HandleDatagram(now, data); err != nil {
		return newID, err
	}
	return newID, nil
}

func (e *Engine) admit(now time.Time, addr net.Addr) (*Entry, error) {
	id, err := e.table.AllocateID()
	if err != nil {
		return nil, err
	}

	cfg := e.peerCfg
	cfg.Role = peer.RoleServer
	cfg.RemoteID = id

	p := peer.New(e.log.With(zap.Uint16("peer", uint16(id))), cfg, now)
	e.log.Info("peer admitted",
		zap.String("addr", addr.String()),
		zap.Uint16("id", uint16(id)),
	)
	return e.table.Insert(addr, id, p), nil
}

// SendCommand queues cmd for the peer with the given id, on the
// command's default channel and reliability.
func (e *Engine) SendCommand(id packet.PeerID, cmd protocol.Command) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	entry, ok := e.table.ByID(id)
	if !ok {
		return ErrUnknownPeer
	}
	return entry.Peer.SendCommand(cmd)
}

// Send is SendCommand with explicit channel and reliability.
func (e *Engine) Send(id packet.PeerID, cmd protocol.Command, channel uint8, reliable bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	entry, ok := e.table.ByID(id)
	if !ok {
		return ErrUnknownPeer
	}
	return entry.Peer.Send(cmd, channel, reliable)
}

// PollReceived returns the next fully received command from any peer,
// tagged with the id of the peer it came from.
func (e *Engine) PollReceived() (packet.PeerID, protocol.Command, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, entry := range e.table.All() {
		if cmd, ok := entry.Peer.PollReceived(); ok {
			return entry.ID, cmd, true
		}
	}
	return packet.PeerIDNil, nil, false
}

// PollSend returns the next datagram any peer wants transmitted, with
// its destination. A peer that gives up on a reliable send is closed
// here; Reap collects it.
func (e *Engine) PollSend(now time.Time) (net.Addr, []byte, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, entry := range e.table.All() {
		data, err := entry.Peer.PollSend(now)
		if err != nil {
			e.log.Warn("peer send failed",
				zap.Uint16("id", uint16(entry.ID)),
				zap.Error(err),
			)
			continue
		}
		if data != nil {
			return entry.Addr, data, true
		}
	}
	return nil, nil, false
}

// Tick advances every peer's timers.
func (e *Engine) Tick(now time.Time) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var errs error
	for _, entry := range e.table.All() {
		if err := entry.Peer.Tick(now); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

// Reap removes peers that have closed (disconnected, timed out, or
// given up on a reliable send) and returns them.
func (e *Engine) Reap() []*Entry {
	e.mu.Lock()
	defer e.mu.Unlock()

	var reaped []*Entry
	for _, entry := range e.table.All() {
		if entry.Peer.Closed() {
			e.table.Remove(entry)
			reaped = append(reaped, entry)

			e.log.Info("peer removed",
				zap.Uint16("id", uint16(entry.ID)),
				zap.NamedError("reason", entry.Peer.Err()),
			)
		}
	}
	return reaped
}

// Disconnect closes the peer and returns the final disconnect datagram
// with its destination for the driver to transmit.
func (e *Engine) Disconnect(id packet.PeerID) (net.Addr, []byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	entry, ok := e.table.ByID(id)
	if !ok {
		return nil, nil, ErrUnknownPeer
	}

	data, err := entry.Peer.Disconnect()
	if err != nil {
		return nil, nil, err
	}

	e.table.Remove(entry)
	return entry.Addr, data, nil
}

// PeerInfo is a point-in-time view of one peer for introspection.
type PeerInfo struct {
	ID      packet.PeerID
	Addr    string
	LocalID packet.PeerID
}

// Snapshot lists the tracked peers.
func (e *Engine) Snapshot() []PeerInfo {
	e.mu.Lock()
	defer e.mu.Unlock()

	infos := make([]PeerInfo, 0, e.table.Len())
	for _, entry := range e.table.All() {
		infos = append(infos, PeerInfo{
			ID:      entry.ID,
			Addr:    entry.Addr.String(),
			LocalID: entry.Peer.ID(),
		})
	}
	return infos
}

// PeerCount returns how many peers are tracked.
func (e *Engine) PeerCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.table.Len()
}
