// Package packet implements the datagram framing layer: every raw
// datagram is a Packet carrying the sender's peer id, a channel number
// and one body. Bodies are either control traffic (acks, peer id
// assignment, pings, disconnects), an original payload, one fragment of
// a split payload, or a reliable wrapper that adds a sequence number
// around any of the former.
package packet

import (
	"errors"
	"fmt"

	"github.com/luma/voxelwire/wire"
)

// ProtocolID must be at the start of every datagram.
const ProtocolID uint32 = 0x4f457403

// ProtocolVersion is the single protocol revision this engine speaks.
const ProtocolVersion uint16 = 41

const (
	// MaxPacketSize is the largest datagram the engine will emit.
	MaxPacketSize = 512

	// HeaderSize covers protocol id, peer id and channel.
	HeaderSize = 7

	ReliableHeaderSize = 3
	SplitHeaderSize    = 7

	// MaxOriginalBodySize is the most payload an unsplit body can carry,
	// leaving room for a reliable wrapper.
	MaxOriginalBodySize = MaxPacketSize - HeaderSize - ReliableHeaderSize

	// MaxSplitBodySize is the chunk size used when fragmenting.
	MaxSplitBodySize = MaxOriginalBodySize - SplitHeaderSize
)

// SeqnumInitial is where every channel's sequence space starts. Starting
// close to the 16-bit wrap point means the wrap path is exercised almost
// immediately on every connection.
const SeqnumInitial uint16 = 65500

// ChannelCount is the fixed number of independent channels per peer.
const ChannelCount = 3

type PeerID uint16

const (
	// PeerIDNil is used by clients before the server assigns them an id.
	PeerIDNil PeerID = 0

	// PeerIDServer is the server's fixed id.
	PeerIDServer PeerID = 1

	// PeerIDClientMin is the lowest id a server will assign.
	PeerIDClientMin PeerID = 2
)

var ErrFraming = errors.New("Malformed packet")

type bodyKind uint8

const (
	kindControl bodyKind = iota
	kindOriginal
	kindSplit
	kindReliable
)

// Body is one of Control, Original, Split or Reliable.
type Body interface {
	marshalTo(w *wire.Writer) error
}

type ControlKind uint8

const (
	ControlAck ControlKind = iota
	ControlSetPeerID
	ControlPing
	ControlDisconnect
)

// Control is handshake-adjacent traffic that never reaches the command
// layer. Seqnum is meaningful for ControlAck, PeerID for ControlSetPeerID.
type Control struct {
	Kind   ControlKind
	Seqnum uint16
	PeerID PeerID
}

func (c *Control) marshalTo(w *wire.Writer) error {
	w.U8(uint8(kindControl))
	w.U8(uint8(c.Kind))

	switch c.Kind {
	case ControlAck:
		w.U16(c.Seqnum)
	case ControlSetPeerID:
		w.U16(uint16(c.PeerID))
	case ControlPing, ControlDisconnect:
	default:
		return fmt.Errorf("control kind %d: %w", c.Kind, ErrFraming)
	}
	return nil
}

// Original carries one serialized command.
type Original struct {
	Payload []byte
}

func (o *Original) marshalTo(w *wire.Writer) error {
	w.U8(uint8(kindOriginal))
	w.Raw(o.Payload)
	return nil
}

// Split carries one fragment of a payload too large for a single
// datagram. Fragments of a group share Seqnum and ChunkCount.
type Split struct {
	Seqnum     uint16
	ChunkCount uint16
	ChunkNum   uint16
	Data       []byte
}

func (s *Split) marshalTo(w *wire.Writer) error {
	w.U8(uint8(kindSplit))
	w.U16(s.Seqnum)
	w.U16(s.ChunkCount)
	w.U16(s.ChunkNum)
	w.Raw(s.Data)
	return nil
}

// Reliable wraps an inner body with a sequence number. The inner body is
// never itself Reliable.
type Reliable struct {
	Seqnum uint16
	Inner  Body
}

func (r *Reliable) marshalTo(w *wire.Writer) error {
	if _, ok := r.Inner.(*Reliable); ok {
		return fmt.Errorf("reliable body nested inside reliable body: %w", ErrFraming)
	}

	w.U8(uint8(kindReliable))
	w.U16(r.Seqnum)
	return r.Inner.marshalTo(w)
}

// Packet is one full datagram.
type Packet struct {
	PeerID  PeerID
	Channel uint8
	Body    Body
}

func (p *Packet) Marshal() ([]byte, error) {
	w := wire.NewWriter()
	w.U32(ProtocolID)
	w.U16(uint16(p.PeerID))
	w.U8(p.Channel)

	if err := p.Body.marshalTo(w); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// Inner returns the body with any reliable wrapper removed.
func (p *Packet) Inner() Body {
	if rb, ok := p.Body.(*Reliable); ok {
		return rb.Inner
	}
	return p.Body
}

// AsReliable returns the reliable wrapper, if the body has one.
func (p *Packet) AsReliable() (*Reliable, bool) {
	rb, ok := p.Body.(*Reliable)
	return rb, ok
}

// AsControl returns the control body, if that is what the packet
// (reliable or not) carries.
func (p *Packet) AsControl() (*Control, bool) {
	cb, ok := p.Inner().(*Control)
	return cb, ok
}

// Unmarshal parses one raw datagram. Errors are per-datagram: a bad
// packet from one peer never affects another.
func Unmarshal(data []byte) (*Packet, error) {
	r := wire.NewReader(data)

	id, err := r.U32()
	if err != nil {
		return nil, fmt.Errorf("packet header: %w", err)
	}
	if id != ProtocolID {
		return nil, fmt.Errorf("protocol id %#x: %w", id, ErrFraming)
	}

	sender, err := r.U16()
	if err != nil {
		return nil, fmt.Errorf("packet header: %w", err)
	}

	channel, err := r.U8()
	if err != nil {
		return nil, fmt.Errorf("packet header: %w", err)
	}
	if channel >= ChannelCount {
		return nil, fmt.Errorf("channel %d: %w", channel, ErrFraming)
	}

	body, err := unmarshalBody(r, true)
	if err != nil {
		return nil, err
	}

	return &Packet{
		PeerID:  PeerID(sender),
		Channel: channel,
		Body:    body,
	}, nil
}

func unmarshalBody(r *wire.Reader, allowReliable bool) (Body, error) {
	kind, err := r.U8()
	if err != nil {
		return nil, fmt.Errorf("packet body: %w", err)
	}

	switch bodyKind(kind) {
	case kindControl:
		return unmarshalControl(r)

	case kindOriginal:
		return &Original{Payload: r.TakeAll()}, nil

	case kindSplit:
		return unmarshalSplit(r)

	case kindReliable:
		if !allowReliable {
			return nil, fmt.Errorf("reliable body nested inside reliable body: %w", ErrFraming)
		}

		seqnum, err := r.U16()
		if err != nil {
			return nil, fmt.Errorf("reliable header: %w", err)
		}

		inner, err := unmarshalBody(r, false)
		if err != nil {
			return nil, err
		}
		return &Reliable{Seqnum: seqnum, Inner: inner}, nil

	default:
		return nil, fmt.Errorf("packet kind %d: %w", kind, ErrFraming)
	}
}

func unmarshalSplit(r *wire.Reader) (*Split, error) {
	seqnum, err := r.U16()
	if err != nil {
		return nil, fmt.Errorf("split header: %w", err)
	}

	chunkCount, err := r.U16()
	if err != nil {
		return nil, fmt.Errorf("split header: %w", err)
	}

	chunkNum, err := r.U16()
	if err != nil {
		return nil, fmt.Errorf("split header: %w", err)
	}

	return &Split{
		Seqnum:     seqnum,
		ChunkCount: chunkCount,
		ChunkNum:   chunkNum,
		Data:       r.TakeAll(),
	}, nil
}

func unmarshalControl(r *wire.Reader) (*Control, error) {
	kind, err := r.U8()
	if err != nil {
		return nil, fmt.Errorf("control body: %w", err)
	}

	c := &Control{Kind: ControlKind(kind)}

	switch c.Kind {
	case ControlAck:
		seqnum, err := r.U16()
		if err != nil {
			return nil, fmt.Errorf("ack body: %w", err)
		}
		c.Seqnum = seqnum

	case ControlSetPeerID:
		id, err := r.U16()
		if err != nil {
			return nil, fmt.Errorf("set peer id body: %w", err)
		}
		c.PeerID = PeerID(id)

	case ControlPing, ControlDisconnect:

	default:
		return nil, fmt.Errorf("control kind %d: %w", kind, ErrFraming)
	}

	return c, nil
}
