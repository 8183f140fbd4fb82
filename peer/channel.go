package peer

import "time"

// channel bundles the four per-channel state machines. The three
// channels of a peer are fully independent: each has its own reliable
// seqnum spaces in both directions and its own split groups.
type channel struct {
	num      uint8
	sender   *reliableSender
	receiver *reliableReceiver
	splitOut *splitSender
	splitIn  *splitReceiver
}

func newChannel(num uint8, frame frameFunc, windowSize int, resendTimeout time.Duration, maxRetries int) *channel {
	return &channel{
		num:      num,
		sender:   newReliableSender(frame, windowSize, resendTimeout, maxRetries),
		receiver: newReliableReceiver(),
		splitOut: newSplitSender(),
		splitIn:  newSplitReceiver(),
	}
}
