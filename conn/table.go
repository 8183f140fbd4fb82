package conn

import (
	"fmt"
	"math/rand"
	"net"

	"github.com/luma/voxelwire/packet"
	"github.com/luma/voxelwire/peer"
)

// Entry is one tracked remote end.
type Entry struct {
	Addr net.Addr
	ID   packet.PeerID
	Peer *peer.Peer
}

// PeerTable maps remote ends both ways: by network address for routing
// inbound datagrams, by peer id for everything else. It does no locking
// of its own; the Engine serializes access.
type PeerTable struct {
	byAddr map[string]*Entry
	byID   map[packet.PeerID]*Entry
	rng    *rand.Rand
}

func NewPeerTable(rng *rand.Rand) *PeerTable {
	return &PeerTable{
		byAddr: make(map[string]*Entry),
		byID:   make(map[packet.PeerID]*Entry),
		rng:    rng,
	}
}

func (t *PeerTable) ByAddr(addr net.Addr) (*Entry, bool) {
	e, ok := t.byAddr[addr.String()]
	return e, ok
}

func (t *PeerTable) ByID(id packet.PeerID) (*Entry, bool) {
	e, ok := t.byID[id]
	return e, ok
}

// AllocateID picks an unused client id at random. Random rather than
// sequential so a reconnecting client is unlikely to collide with its
// own stale id.
func (t *PeerTable) AllocateID() (packet.PeerID, error) {
	const maxID = 65534

	if len(t.byID) >= maxID-int(packet.PeerIDClientMin) {
		return packet.PeerIDNil, fmt.Errorf("all %d client ids in use", maxID-int(packet.PeerIDClientMin)+1)
	}

	for {
		id := packet.PeerID(t.rng.Intn(maxID-int(packet.PeerIDClientMin)+1)) + packet.PeerIDClientMin
		if _, taken := t.byID[id]; !taken {
			return id, nil
		}
	}
}

func (t *PeerTable) Insert(addr net.Addr, id packet.PeerID, p *peer.Peer) *Entry {
	e := &Entry{Addr: addr, ID: id, Peer: p}
	t.byAddr[addr.String()] = e
	t.byID[id] = e
	return e
}

func (t *PeerTable) Remove(e *Entry) {
	delete(t.byAddr, e.Addr.String())
	delete(t.byID, e.ID)
}

func (t *PeerTable) Len() int {
	return len(t.byID)
}

// All returns the entries in no particular order.
func (t *PeerTable) All() []*Entry {
	entries := make([]*Entry, 0, len(t.byID))
	for _, e := range t.byID {
		entries = append(entries, e)
	}
	return entries
}
