package peer

import "errors"

var (
	// ErrWindowExhausted means the reliable send window and its backlog
	// are full; the caller must drain acks before sending more.
	ErrWindowExhausted = errors.New("Reliable send window is exhausted")

	// ErrPayloadTooLarge means a payload cannot be carried even after
	// splitting.
	ErrPayloadTooLarge = errors.New("Payload exceeds what splitting can carry")

	// ErrPeerIDMismatch means a datagram arrived stamped with a sender
	// id this peer does not own.
	ErrPeerIDMismatch = errors.New("Datagram sender id does not match the peer")

	// ErrSplitMalformed means a split fragment contradicts its group:
	// zero chunk count, chunk index out of range, or a count that
	// disagrees with earlier fragments.
	ErrSplitMalformed = errors.New("Split fragment is inconsistent with its group")

	// ErrPeerClosed means the peer has disconnected or timed out; no
	// further traffic is accepted.
	ErrPeerClosed = errors.New("Peer is closed")

	// ErrRetriesExhausted means a reliable packet was retransmitted the
	// configured maximum number of times without an ack.
	ErrRetriesExhausted = errors.New("Reliable packet retries exhausted")

	// ErrPeerTimeout means nothing was heard from the remote end for
	// longer than the configured timeout.
	ErrPeerTimeout = errors.New("Peer timed out")
)
