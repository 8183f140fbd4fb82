package protocol

import (
	"fmt"

	"github.com/luma/voxelwire/wire"
)

// Direction says which way a command travels. The two directions have
// independent command id spaces.
type Direction uint8

const (
	// ToServer commands are sent by clients.
	ToServer Direction = iota

	// ToClient commands are sent by servers.
	ToClient
)

func (d Direction) String() string {
	switch d {
	case ToServer:
		return "to-server"
	case ToClient:
		return "to-client"
	default:
		return fmt.Sprintf("direction(%d)", uint8(d))
	}
}

// attrs is the static identity of a command type.
type attrs struct {
	id       uint16
	dir      Direction
	name     string
	channel  uint8
	reliable bool
}

// Command is one typed protocol message.
type Command interface {
	attrs() attrs
	marshalTo(f *fieldWriter)
	unmarshalFrom(f *fieldReader)
}

// CommandID returns the numeric id cmd is sent with.
func CommandID(cmd Command) uint16 { return cmd.attrs().id }

// CommandName returns a stable human-readable name for cmd.
func CommandName(cmd Command) string { return cmd.attrs().name }

// DirectionOf returns which way cmd travels.
func DirectionOf(cmd Command) Direction { return cmd.attrs().dir }

// DefaultChannel returns the channel cmd is sent on unless the caller
// overrides it.
func DefaultChannel(cmd Command) uint8 { return cmd.attrs().channel }

// DefaultReliable reports whether cmd is sent reliably unless the
// caller overrides it.
func DefaultReliable(cmd Command) bool { return cmd.attrs().reliable }

// Marshal serializes cmd into the payload form carried inside a packet
// body.
func Marshal(cmd Command) ([]byte, error) {
	w := wire.NewWriter()
	w.U16(cmd.attrs().id)

	f := &fieldWriter{w: w}
	cmd.marshalTo(f)
	if f.err != nil {
		return nil, fmt.Errorf("marshal %s: %w", cmd.attrs().name, f.err)
	}

	return w.Bytes(), nil
}

// Unmarshal parses one command payload travelling in direction dir.
//
// A payload whose id has no typed decoder is not an error: it comes
// back as *Unknown with the body preserved verbatim, so unrecognized
// traffic can be logged or forwarded without loss.
func Unmarshal(dir Direction, data []byte) (Command, error) {
	r := wire.NewReader(data)

	id, err := r.U16()
	if err != nil {
		return nil, fmt.Errorf("command id: %w", err)
	}

	ctor := lookupCommand(dir, id)
	if ctor == nil {
		return &Unknown{
			Dir:     dir,
			ID:      id,
			Payload: append([]byte(nil), r.TakeAll()...),
		}, nil
	}

	cmd := ctor()
	f := &fieldReader{r: r}
	cmd.unmarshalFrom(f)
	if f.err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", cmd.attrs().name, f.err)
	}

	return cmd, nil
}

// Unknown carries a command this engine has no typed decoder for.
// Marshalling it reproduces the original payload byte for byte.
type Unknown struct {
	Dir     Direction
	ID      uint16
	Payload []byte
}

func (c *Unknown) attrs() attrs {
	return attrs{
		id:       c.ID,
		dir:      c.Dir,
		name:     fmt.Sprintf("Unknown(%#04x)", c.ID),
		channel:  0,
		reliable: true,
	}
}

func (c *Unknown) marshalTo(f *fieldWriter) {
	f.raw(c.Payload)
}

func (c *Unknown) unmarshalFrom(f *fieldReader) {
	c.Payload = f.rest()
}
