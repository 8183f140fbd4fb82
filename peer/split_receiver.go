package peer

import (
	"fmt"
	"time"

	"github.com/luma/voxelwire/packet"
)

// splitReceiver reassembles fragment groups. Groups are keyed by their
// group seqnum; fragments may arrive in any order and duplicates are
// harmless. A group that never completes is discarded once it has gone
// unfed for the discard timeout, so a lost unreliable fragment cannot
// leak its group forever.
type splitReceiver struct {
	groups map[uint16]*splitGroup
}

type splitGroup struct {
	chunkCount uint16
	chunks     map[uint16][]byte
	lastFed    time.Time
}

func newSplitReceiver() *splitReceiver {
	return &splitReceiver{groups: make(map[uint16]*splitGroup)}
}

// push feeds one fragment. When the fragment completes its group the
// reassembled payload is returned.
func (s *splitReceiver) push(now time.Time, sp *packet.Split) ([]byte, bool, error) {
	if sp.ChunkCount == 0 {
		return nil, false, fmt.Errorf("chunk count 0: %w", ErrSplitMalformed)
	}
	if sp.ChunkNum >= sp.ChunkCount {
		return nil, false, fmt.Errorf("chunk %d of %d: %w", sp.ChunkNum, sp.ChunkCount, ErrSplitMalformed)
	}

	group, ok := s.groups[sp.Seqnum]
	if !ok {
		group = &splitGroup{
			chunkCount: sp.ChunkCount,
			chunks:     make(map[uint16][]byte, sp.ChunkCount),
		}
		s.groups[sp.Seqnum] = group
	} else if group.chunkCount != sp.ChunkCount {
		return nil, false, fmt.Errorf("chunk count %d for group of %d: %w", sp.ChunkCount, group.chunkCount, ErrSplitMalformed)
	}

	group.lastFed = now
	if _, dup := group.chunks[sp.ChunkNum]; !dup {
		group.chunks[sp.ChunkNum] = append([]byte(nil), sp.Data...)
	}

	if uint16(len(group.chunks)) < group.chunkCount {
		return nil, false, nil
	}

	size := 0
	for _, chunk := range group.chunks {
		size += len(chunk)
	}

	payload := make([]byte, 0, size)
	for i := uint16(0); i < group.chunkCount; i++ {
		payload = append(payload, group.chunks[i]...)
	}

	delete(s.groups, sp.Seqnum)
	return payload, true, nil
}

// reap discards groups that have gone unfed since before cutoff and
// returns how many were dropped.
func (s *splitReceiver) reap(cutoff time.Time) int {
	dropped := 0
	for seqnum, group := range s.groups {
		if group.lastFed.Before(cutoff) {
			delete(s.groups, seqnum)
			dropped++
		}
	}
	return dropped
}
