package peer

import (
	"github.com/luma/voxelwire/packet"
)

// reliableReceiver reorders one channel's incoming reliable bodies.
// Arrivals ahead of the next expected seqnum are buffered; arrivals
// behind it are duplicates of something already delivered and are
// dropped. Either way the sender needs an ack, which the caller emits
// for every reliable arrival.
type reliableReceiver struct {
	nextAbs uint64
	buffer  map[uint64]packet.Body
}

func newReliableReceiver() *reliableReceiver {
	return &reliableReceiver{
		nextAbs: uint64(seqnumInitial),
		buffer:  make(map[uint64]packet.Body),
	}
}

// push files one reliable arrival. It reports false for duplicates.
func (r *reliableReceiver) push(seqnum uint16, body packet.Body) bool {
	abs := relToAbs(r.nextAbs, seqnum)
	if abs < r.nextAbs {
		return false
	}
	if _, ok := r.buffer[abs]; ok {
		return false
	}

	r.buffer[abs] = body
	return true
}

// pop returns the next in-order body, if it has arrived.
func (r *reliableReceiver) pop() (packet.Body, bool) {
	body, ok := r.buffer[r.nextAbs]
	if !ok {
		return nil, false
	}

	delete(r.buffer, r.nextAbs)
	r.nextAbs++
	return body, true
}
