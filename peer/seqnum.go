package peer

import "github.com/luma/voxelwire/packet"

// Sequence numbers are 16 bits on the wire and wrap. Internally both
// ends track positions in an unbounded 64-bit sequence space and map
// wire seqnums back onto it, so wrap-around needs no special cases
// anywhere else.

// seqnumInitial aliases the wire constant so the two cannot drift.
const seqnumInitial = packet.SeqnumInitial

// relativeDistance returns how far ahead b is of a in wrap-around
// sequence space. The result is in (-32768, 32768]: a seqnum exactly
// half the space away is taken to be ahead.
func relativeDistance(a, b uint16) int {
	d := int(b) - int(a)
	if d > 32768 {
		d -= 65536
	} else if d <= -32768 {
		d += 65536
	}
	return d
}

// relToAbs widens a wire seqnum to the absolute sequence position
// closest to base.
func relToAbs(base uint64, seqnum uint16) uint64 {
	return uint64(int64(base) + int64(relativeDistance(uint16(base), seqnum)))
}
