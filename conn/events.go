package conn

import (
	"net"

	"github.com/luma/voxelwire/packet"
	"github.com/luma/voxelwire/protocol"
)

type EventKind uint8

const (
	// EventPeerJoined fires when a server admits a new client.
	EventPeerJoined EventKind = iota

	// EventCommand fires for every fully received command.
	EventCommand

	// EventPeerLeft fires when a peer disconnects, times out or is
	// dropped; Err carries why.
	EventPeerLeft
)

// Event is one thing that happened on the wire, surfaced to the
// application.
type Event struct {
	Kind   EventKind
	PeerID packet.PeerID
	Addr   net.Addr
	Cmd    protocol.Command
	Err    error
}
