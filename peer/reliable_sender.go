package peer

import (
	"fmt"
	"time"

	"github.com/luma/voxelwire/packet"
)

// frameFunc builds the full datagram for a reliable body with the given
// seqnum. The sender keeps the framed bytes so every retransmission is
// byte-identical to the first send.
type frameFunc func(seqnum uint16, inner packet.Body) ([]byte, error)

// reliableSender owns one channel's outgoing reliable pipeline: it
// assigns seqnums in order, holds every unacked datagram, and schedules
// retransmissions. The window caps how many datagrams may be unacked at
// once; the cap is far below half the seqnum space, so a wire seqnum
// identifies an in-flight datagram unambiguously.
type reliableSender struct {
	frame         frameFunc
	nextSeqnum    uint16
	window        map[uint16]*pendingSend
	order         []uint16
	capacity      int
	resendTimeout time.Duration
	maxRetries    int
}

type pendingSend struct {
	seqnum   uint16
	data     []byte
	deadline time.Time
	sent     bool
	retries  int
}

func newReliableSender(frame frameFunc, capacity int, resendTimeout time.Duration, maxRetries int) *reliableSender {
	return &reliableSender{
		frame:         frame,
		nextSeqnum:    seqnumInitial,
		window:        make(map[uint16]*pendingSend),
		capacity:      capacity,
		resendTimeout: resendTimeout,
		maxRetries:    maxRetries,
	}
}

// push assigns the next seqnum to body and admits it to the window.
func (s *reliableSender) push(body packet.Body) error {
	if len(s.window) >= s.capacity {
		return fmt.Errorf("window of %d in flight: %w", len(s.window), ErrWindowExhausted)
	}

	seqnum := s.nextSeqnum
	data, err := s.frame(seqnum, body)
	if err != nil {
		return err
	}
	s.nextSeqnum++

	s.window[seqnum] = &pendingSend{seqnum: seqnum, data: data}
	s.order = append(s.order, seqnum)
	return nil
}

// ack removes the acked datagram from the window. Acks are idempotent:
// one for a seqnum no longer in flight reports false and changes
// nothing.
func (s *reliableSender) ack(seqnum uint16) bool {
	if _, ok := s.window[seqnum]; !ok {
		return false
	}
	delete(s.window, seqnum)

	for i, sq := range s.order {
		if sq == seqnum {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// pop returns the next datagram due for transmission, oldest first:
// fresh sends are due immediately, sent ones once their deadline
// passes. It returns nil when nothing is due. A datagram that has used
// up its retries is dropped from the window and reported instead.
func (s *reliableSender) pop(now time.Time) ([]byte, error) {
	for _, seqnum := range s.order {
		p := s.window[seqnum]

		if p.sent {
			if p.deadline.After(now) {
				continue
			}
			if s.maxRetries > 0 && p.retries >= s.maxRetries {
				s.ack(seqnum)
				return nil, fmt.Errorf("seqnum %d after %d retries: %w", seqnum, p.retries, ErrRetriesExhausted)
			}
			p.retries++
		}

		p.sent = true
		p.deadline = now.Add(s.resendTimeout)
		return p.data, nil
	}
	return nil, nil
}

// nextWakeup returns when pop next has work, if it ever will.
func (s *reliableSender) nextWakeup() (time.Time, bool) {
	var earliest time.Time
	found := false

	for _, p := range s.window {
		if !p.sent {
			return time.Time{}, true
		}
		if !found || p.deadline.Before(earliest) {
			earliest = p.deadline
			found = true
		}
	}
	return earliest, found
}

func (s *reliableSender) inFlight() int {
	return len(s.window)
}
