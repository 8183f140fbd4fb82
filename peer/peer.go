// Package peer holds the per-association protocol state machines:
// reliable sequencing with retransmission, fragmentation and
// reassembly, the peer id handshake and liveness timers. Everything
// here is clock-free and I/O-free; the conn package wraps it with
// sockets, goroutines and locks.
package peer

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/luma/voxelwire/packet"
	"github.com/luma/voxelwire/protocol"
)

const (
	// DefaultWindowSize caps unacked reliable datagrams per channel.
	DefaultWindowSize = 1024

	// DefaultResendTimeout is how long an unacked reliable datagram
	// waits before retransmission.
	DefaultResendTimeout = 500 * time.Millisecond

	// ResendResolution is how finely drivers should poll for due
	// retransmissions; deadlines are not worth waking up for more often
	// than this.
	ResendResolution = 20 * time.Millisecond

	// DefaultSplitTimeout is how long an incomplete fragment group may
	// go without a new fragment before it is discarded.
	DefaultSplitTimeout = 30 * time.Second

	// DefaultPingInterval is how long a peer stays quiet before it
	// pings to keep the association alive.
	DefaultPingInterval = 5 * time.Second

	// DefaultIdleTimeout is how long without any inbound traffic before
	// a peer is declared dead.
	DefaultIdleTimeout = 30 * time.Second

	// PeerIDGracePeriod is how long a server keeps accepting datagrams
	// stamped with the nil sender id after assigning a real one. The
	// assignment travels reliably but the client only learns it on
	// arrival; its traffic in the meantime is still stamped nil.
	PeerIDGracePeriod = 20 * time.Second
)

// Role says which end of the association this peer state represents.
type Role uint8

const (
	// RoleClient talks to a server: it starts with the nil id and is
	// told its real one.
	RoleClient Role = iota

	// RoleServer represents one client on a server: it assigns the
	// remote end its id.
	RoleServer
)

// Config carries the per-peer knobs. Zero values mean the defaults
// above.
type Config struct {
	Role     Role
	RemoteID packet.PeerID

	WindowSize    int
	ResendTimeout time.Duration
	MaxRetries    int
	SplitTimeout  time.Duration
	PingInterval  time.Duration
	IdleTimeout   time.Duration
}

func (c *Config) fillDefaults() {
	if c.WindowSize == 0 {
		c.WindowSize = DefaultWindowSize
	}
	if c.ResendTimeout == 0 {
		c.ResendTimeout = DefaultResendTimeout
	}
	if c.SplitTimeout == 0 {
		c.SplitTimeout = DefaultSplitTimeout
	}
	if c.PingInterval == 0 {
		c.PingInterval = DefaultPingInterval
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = DefaultIdleTimeout
	}
}

type ackRef struct {
	channel uint8
	seqnum  uint16
}

// Peer is the full protocol state for one remote end: three channels of
// reliability and splitting, peer id handshake state, and liveness
// tracking.
//
// A Peer never does I/O and never looks at a clock: callers feed it
// datagrams and deadlines and drain it of datagrams to transmit.
// HandleDatagram ingests, PollReceived yields decoded commands,
// PollSend yields datagrams (acks before everything else), and Tick
// drives timers. None of its methods are safe for concurrent use; the
// drivers in the conn package add the locking and the clock.
type Peer struct {
	log *zap.Logger
	cfg Config

	localID  packet.PeerID
	remoteID packet.PeerID

	channels [packet.ChannelCount]*channel

	acks          []ackRef
	unreliableOut [][]byte
	received      []protocol.Command

	lastHeard     time.Time
	lastSent      time.Time
	graceDeadline time.Time

	closed      bool
	closeReason error
}

// New builds peer state. A server-side peer immediately queues the
// reliable id assignment for the remote end; now anchors its grace
// period and the liveness timers.
func New(log *zap.Logger, cfg Config, now time.Time) *Peer {
	cfg.fillDefaults()

	p := &Peer{
		log:       log.Named("peer"),
		cfg:       cfg,
		remoteID:  cfg.RemoteID,
		lastHeard: now,
		lastSent:  now,
	}

	switch cfg.Role {
	case RoleClient:
		p.localID = packet.PeerIDNil
		p.remoteID = packet.PeerIDServer
	case RoleServer:
		p.localID = packet.PeerIDServer
	}

	for i := range p.channels {
		num := uint8(i)
		frame := func(seqnum uint16, inner packet.Body) ([]byte, error) {
			pkt := &packet.Packet{
				PeerID:  p.localID,
				Channel: num,
				Body:    &packet.Reliable{Seqnum: seqnum, Inner: inner},
			}
			return pkt.Marshal()
		}
		p.channels[i] = newChannel(num, frame, cfg.WindowSize, cfg.ResendTimeout, cfg.MaxRetries)
	}

	if cfg.Role == RoleServer {
		p.graceDeadline = now.Add(PeerIDGracePeriod)

		assign := &packet.Control{Kind: packet.ControlSetPeerID, PeerID: cfg.RemoteID}
		if err := p.channels[0].sender.push(assign); err != nil {
			// Impossible on a fresh window.
			p.log.Error("queue peer id assignment", zap.Error(err))
		}
	}

	return p
}

// ID returns the id this peer stamps on outgoing datagrams. For a
// client it is nil until the server's assignment arrives.
func (p *Peer) ID() packet.PeerID {
	return p.localID
}

// RemoteID returns the id expected on inbound datagrams.
func (p *Peer) RemoteID() packet.PeerID {
	return p.remoteID
}

// Closed reports whether the peer has disconnected, timed out or given
// up on a reliable send. Err returns why.
func (p *Peer) Closed() bool {
	return p.closed
}

func (p *Peer) Err() error {
	return p.closeReason
}

func (p *Peer) close(reason error) {
	if !p.closed {
		p.closed = true
		p.closeReason = reason
	}
}

// HandleDatagram ingests one raw datagram. Malformed datagrams and ones
// stamped with the wrong sender id are rejected without touching any
// state, so one bad datagram cannot poison the association.
func (p *Peer) HandleDatagram(now time.Time, data []byte) error {
	if p.closed {
		return ErrPeerClosed
	}

	pkt, err := packet.Unmarshal(data)
	if err != nil {
		return err
	}

	if err := p.checkSender(now, pkt.PeerID); err != nil {
		return err
	}
	p.lastHeard = now

	ch := p.channels[pkt.Channel]

	if rel, ok := pkt.AsReliable(); ok {
		// Ack everything reliable, duplicates included: a duplicate
		// means the first ack was lost.
		p.acks = append(p.acks, ackRef{channel: ch.num, seqnum: rel.Seqnum})

		if !ch.receiver.push(rel.Seqnum, rel.Inner) {
			return nil
		}
		for {
			body, ok := ch.receiver.pop()
			if !ok {
				return nil
			}
			if err := p.handleBody(now, ch, body); err != nil {
				return err
			}
		}
	}

	return p.handleBody(now, ch, pkt.Body)
}

func (p *Peer) checkSender(now time.Time, sender packet.PeerID) error {
	if sender == p.remoteID {
		return nil
	}

	// A freshly assigned client keeps stamping nil until the
	// assignment reaches it.
	if p.cfg.Role == RoleServer && sender == packet.PeerIDNil && now.Before(p.graceDeadline) {
		return nil
	}

	return fmt.Errorf("sender %d, expected %d: %w", sender, p.remoteID, ErrPeerIDMismatch)
}

func (p *Peer) handleBody(now time.Time, ch *channel, body packet.Body) error {
	switch b := body.(type) {
	case *packet.Control:
		return p.handleControl(ch, b)

	case *packet.Original:
		return p.deliver(b.Payload)

	case *packet.Split:
		payload, done, err := ch.splitIn.push(now, b)
		if err != nil {
			return err
		}
		if done {
			return p.deliver(payload)
		}
		return nil

	default:
		return fmt.Errorf("packet kind %T: %w", body, packet.ErrFraming)
	}
}

func (p *Peer) handleControl(ch *channel, c *packet.Control) error {
	switch c.Kind {
	case packet.ControlAck:
		// Acks arrive on the channel whose reliable send they ack, so
		// the same seqnum in flight on another channel is untouched.
		ch.sender.ack(c.Seqnum)
		return nil

	case packet.ControlSetPeerID:
		if p.cfg.Role != RoleClient {
			return fmt.Errorf("peer id assignment sent to a server: %w", packet.ErrFraming)
		}
		if p.localID != packet.PeerIDNil && p.localID != c.PeerID {
			return fmt.Errorf("peer id reassigned %d to %d: %w", p.localID, c.PeerID, ErrPeerIDMismatch)
		}
		p.localID = c.PeerID
		p.log.Debug("peer id assigned", zap.Uint16("id", uint16(c.PeerID)))
		return nil

	case packet.ControlPing:
		return nil

	case packet.ControlDisconnect:
		p.log.Info("remote disconnected")
		p.close(ErrPeerClosed)
		return nil

	default:
		return fmt.Errorf("control kind %d: %w", c.Kind, packet.ErrFraming)
	}
}

func (p *Peer) deliver(payload []byte) error {
	dir := protocol.ToClient
	if p.cfg.Role == RoleServer {
		dir = protocol.ToServer
	}

	cmd, err := protocol.Unmarshal(dir, payload)
	if err != nil {
		return err
	}

	p.received = append(p.received, cmd)
	return nil
}

// PollReceived returns the next fully received command, in order per
// channel.
func (p *Peer) PollReceived() (protocol.Command, bool) {
	if len(p.received) == 0 {
		return nil, false
	}

	cmd := p.received[0]
	p.received = p.received[1:]
	return cmd, true
}

// SendCommand queues cmd on its default channel with its default
// reliability.
func (p *Peer) SendCommand(cmd protocol.Command) error {
	return p.Send(cmd, protocol.DefaultChannel(cmd), protocol.DefaultReliable(cmd))
}

// Send queues cmd on an explicit channel, reliably or not. Payloads too
// large for one datagram are fragmented; the fragments inherit the
// reliability of the whole.
func (p *Peer) Send(cmd protocol.Command, channelNum uint8, reliable bool) error {
	if p.closed {
		return ErrPeerClosed
	}
	if channelNum >= packet.ChannelCount {
		return fmt.Errorf("channel %d: %w", channelNum, packet.ErrFraming)
	}

	payload, err := protocol.Marshal(cmd)
	if err != nil {
		return err
	}

	ch := p.channels[channelNum]
	bodies, err := ch.splitOut.chunk(payload)
	if err != nil {
		return err
	}

	if reliable {
		// All or nothing: admitting half a fragment group would jam
		// the receiver until its discard timeout.
		if ch.sender.inFlight()+len(bodies) > p.cfg.WindowSize {
			return fmt.Errorf("%d fragments over window: %w", len(bodies), ErrWindowExhausted)
		}
		for _, body := range bodies {
			if err := ch.sender.push(body); err != nil {
				return err
			}
		}
		return nil
	}

	for _, body := range bodies {
		data, err := (&packet.Packet{PeerID: p.localID, Channel: channelNum, Body: body}).Marshal()
		if err != nil {
			return err
		}
		p.unreliableOut = append(p.unreliableOut, data)
	}
	return nil
}

// PollSend returns the next datagram to put on the wire, or nil when
// nothing is due. Acks always go first so the remote window keeps
// moving even under outbound backlog, then queued unreliable traffic,
// then reliable sends and due retransmissions.
func (p *Peer) PollSend(now time.Time) ([]byte, error) {
	if len(p.acks) > 0 {
		ack := p.acks[0]
		p.acks = p.acks[1:]

		pkt := &packet.Packet{
			PeerID:  p.localID,
			Channel: ack.channel,
			Body:    &packet.Control{Kind: packet.ControlAck, Seqnum: ack.seqnum},
		}
		data, err := pkt.Marshal()
		if err != nil {
			return nil, err
		}
		p.lastSent = now
		return data, nil
	}

	if len(p.unreliableOut) > 0 {
		data := p.unreliableOut[0]
		p.unreliableOut = p.unreliableOut[1:]
		p.lastSent = now
		return data, nil
	}

	for _, ch := range p.channels {
		data, err := ch.sender.pop(now)
		if err != nil {
			p.close(err)
			return nil, err
		}
		if data != nil {
			p.lastSent = now
			return data, nil
		}
	}

	return nil, nil
}

// Tick drives the timers: reaping stale fragment groups, keepalive
// pings, and the idle timeout. It reports the timeout by closing the
// peer and returning the reason.
func (p *Peer) Tick(now time.Time) error {
	if p.closed {
		return nil
	}

	if now.Sub(p.lastHeard) >= p.cfg.IdleTimeout {
		p.log.Warn("peer timed out",
			zap.Duration("idle", now.Sub(p.lastHeard)),
		)
		p.close(ErrPeerTimeout)
		return ErrPeerTimeout
	}

	cutoff := now.Add(-p.cfg.SplitTimeout)
	for _, ch := range p.channels {
		if dropped := ch.splitIn.reap(cutoff); dropped > 0 {
			p.log.Debug("dropped stale split groups",
				zap.Uint8("channel", ch.num),
				zap.Int("count", dropped),
			)
		}
	}

	// lastSent only advances in PollSend: a queued ping is not wire
	// traffic yet.
	if now.Sub(p.lastSent) >= p.cfg.PingInterval {
		data, err := (&packet.Packet{
			PeerID:  p.localID,
			Channel: 0,
			Body:    &packet.Control{Kind: packet.ControlPing},
		}).Marshal()
		if err != nil {
			return err
		}
		p.unreliableOut = append(p.unreliableOut, data)
	}

	return nil
}

// Disconnect marks the peer closed and returns the final disconnect
// datagram for the caller to transmit. It is best-effort and
// unreliable: the remote's idle timeout covers the case where it is
// lost.
func (p *Peer) Disconnect() ([]byte, error) {
	data, err := (&packet.Packet{
		PeerID:  p.localID,
		Channel: 0,
		Body:    &packet.Control{Kind: packet.ControlDisconnect},
	}).Marshal()
	if err != nil {
		return nil, err
	}

	p.close(ErrPeerClosed)
	return data, nil
}

// NextWakeup returns the earliest moment PollSend could have new work,
// if any is scheduled. A zero time means work is due immediately.
func (p *Peer) NextWakeup() (time.Time, bool) {
	if len(p.acks) > 0 || len(p.unreliableOut) > 0 {
		return time.Time{}, true
	}

	var earliest time.Time
	found := false
	for _, ch := range p.channels {
		t, ok := ch.sender.nextWakeup()
		if !ok {
			continue
		}
		if t.IsZero() {
			return time.Time{}, true
		}
		if !found || t.Before(earliest) {
			earliest = t
			found = true
		}
	}
	return earliest, found
}
