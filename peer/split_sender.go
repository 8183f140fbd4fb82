package peer

import (
	"fmt"
	"math"

	"github.com/luma/voxelwire/packet"
)

// splitSender fragments payloads too large for one datagram. Each
// oversized payload becomes a group of Split bodies sharing a fresh
// group seqnum; payloads that fit become a single Original. The group
// seqnum space is independent of the reliable seqnum space, though it
// starts at the same place.
type splitSender struct {
	nextSeqnum uint16
}

func newSplitSender() *splitSender {
	return &splitSender{nextSeqnum: seqnumInitial}
}

// chunk returns the bodies needed to carry payload.
func (s *splitSender) chunk(payload []byte) ([]packet.Body, error) {
	if len(payload) <= packet.MaxOriginalBodySize {
		return []packet.Body{&packet.Original{Payload: payload}}, nil
	}

	count := (len(payload) + packet.MaxSplitBodySize - 1) / packet.MaxSplitBodySize
	if count > math.MaxUint16 {
		return nil, fmt.Errorf("payload of %d bytes needs %d chunks: %w", len(payload), count, ErrPayloadTooLarge)
	}

	seqnum := s.nextSeqnum
	s.nextSeqnum++

	bodies := make([]packet.Body, 0, count)
	for i := 0; i < count; i++ {
		start := i * packet.MaxSplitBodySize
		end := start + packet.MaxSplitBodySize
		if end > len(payload) {
			end = len(payload)
		}

		bodies = append(bodies, &packet.Split{
			Seqnum:     seqnum,
			ChunkCount: uint16(count),
			ChunkNum:   uint16(i),
			Data:       payload[start:end],
		})
	}

	return bodies, nil
}
