package peer

import (
	"errors"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/luma/voxelwire/packet"
)

func testFrame(seqnum uint16, inner packet.Body) ([]byte, error) {
	return (&packet.Packet{
		PeerID:  packet.PeerIDServer,
		Channel: 0,
		Body:    &packet.Reliable{Seqnum: seqnum, Inner: inner},
	}).Marshal()
}

var _ = Describe("reliableSender", func() {
	var (
		now    time.Time
		sender *reliableSender
	)

	BeforeEach(func() {
		now = time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
		sender = newReliableSender(testFrame, 4, 500*time.Millisecond, 0)
	})

	It("sends fresh datagrams immediately, oldest first", func() {
		Expect(sender.push(&packet.Original{Payload: []byte("a")})).To(Succeed())
		Expect(sender.push(&packet.Original{Payload: []byte("b")})).To(Succeed())

		first, err := sender.pop(now)
		Expect(err).To(Succeed())
		second, err := sender.pop(now)
		Expect(err).To(Succeed())

		pktA, err := packet.Unmarshal(first)
		Expect(err).To(Succeed())
		pktB, err := packet.Unmarshal(second)
		Expect(err).To(Succeed())

		relA, _ := pktA.AsReliable()
		relB, _ := pktB.AsReliable()
		Expect(relA.Seqnum).To(Equal(uint16(65500)))
		Expect(relB.Seqnum).To(Equal(uint16(65501)))
	})

	It("retransmits byte-identically once the deadline passes", func() {
		Expect(sender.push(&packet.Original{Payload: []byte("a")})).To(Succeed())

		first, err := sender.pop(now)
		Expect(err).To(Succeed())
		Expect(first).NotTo(BeNil())

		early, err := sender.pop(now.Add(100 * time.Millisecond))
		Expect(err).To(Succeed())
		Expect(early).To(BeNil())

		resent, err := sender.pop(now.Add(600 * time.Millisecond))
		Expect(err).To(Succeed())
		Expect(resent).To(Equal(first))
	})

	It("stops retransmitting once acked", func() {
		Expect(sender.push(&packet.Original{Payload: []byte("a")})).To(Succeed())
		_, err := sender.pop(now)
		Expect(err).To(Succeed())

		Expect(sender.ack(65500)).To(BeTrue())
		Expect(sender.inFlight()).To(BeZero())

		data, err := sender.pop(now.Add(time.Hour))
		Expect(err).To(Succeed())
		Expect(data).To(BeNil())
	})

	It("ignores a second ack for the same seqnum", func() {
		Expect(sender.push(&packet.Original{Payload: []byte("a")})).To(Succeed())
		Expect(sender.ack(65500)).To(BeTrue())
		Expect(sender.ack(65500)).To(BeFalse())
	})

	It("refuses to admit past the window", func() {
		for i := 0; i < 4; i++ {
			Expect(sender.push(&packet.Original{Payload: []byte{byte(i)}})).To(Succeed())
		}

		err := sender.push(&packet.Original{Payload: []byte("overflow")})
		Expect(errors.Is(err, ErrWindowExhausted)).To(BeTrue())
	})

	It("gives up after the configured retries", func() {
		sender = newReliableSender(testFrame, 4, 500*time.Millisecond, 2)
		Expect(sender.push(&packet.Original{Payload: []byte("a")})).To(Succeed())

		for i := 0; i < 3; i++ {
			data, err := sender.pop(now.Add(time.Duration(i) * time.Second))
			Expect(err).To(Succeed())
			Expect(data).NotTo(BeNil())
		}

		_, err := sender.pop(now.Add(3 * time.Second))
		Expect(errors.Is(err, ErrRetriesExhausted)).To(BeTrue())
		Expect(sender.inFlight()).To(BeZero())
	})
})

var _ = Describe("reliableReceiver", func() {
	body := func(tag byte) *packet.Original {
		return &packet.Original{Payload: []byte{tag}}
	}

	It("buffers out-of-order arrivals and delivers in order", func() {
		recv := newReliableReceiver()

		Expect(recv.push(65502, body(2))).To(BeTrue())
		_, ok := recv.pop()
		Expect(ok).To(BeFalse())

		Expect(recv.push(65500, body(0))).To(BeTrue())
		Expect(recv.push(65501, body(1))).To(BeTrue())

		for i := byte(0); i < 3; i++ {
			got, ok := recv.pop()
			Expect(ok).To(BeTrue())
			Expect(got).To(Equal(body(i)))
		}
	})

	It("drops duplicates of delivered and buffered seqnums", func() {
		recv := newReliableReceiver()

		Expect(recv.push(65500, body(0))).To(BeTrue())
		Expect(recv.push(65500, body(0))).To(BeFalse())

		_, ok := recv.pop()
		Expect(ok).To(BeTrue())
		Expect(recv.push(65500, body(0))).To(BeFalse())
	})

	It("follows the seqnum space across the 16-bit wrap", func() {
		recv := newReliableReceiver()

		for i := 0; i < 100; i++ {
			seqnum := seqnumInitial + uint16(i)
			Expect(recv.push(seqnum, body(byte(i)))).To(BeTrue())

			got, ok := recv.pop()
			Expect(ok).To(BeTrue())
			Expect(got).To(Equal(body(byte(i))))
		}
	})
})
