package peer

import (
	"errors"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/luma/voxelwire/packet"
)

var _ = Describe("splitSender and splitReceiver", func() {
	var now time.Time

	BeforeEach(func() {
		now = time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	})

	It("leaves payloads that fit in one datagram whole", func() {
		payload := make([]byte, packet.MaxOriginalBodySize)

		bodies, err := newSplitSender().chunk(payload)
		Expect(err).To(Succeed())
		Expect(bodies).To(HaveLen(1))
		Expect(bodies[0]).To(BeAssignableToTypeOf(&packet.Original{}))
	})

	It("fragments an oversized payload and reassembles it in any order", func() {
		payload := make([]byte, 10000)
		for i := range payload {
			payload[i] = byte(i)
		}

		bodies, err := newSplitSender().chunk(payload)
		Expect(err).To(Succeed())
		Expect(bodies).To(HaveLen(21)) // ceil(10000 / 495)

		recv := newSplitReceiver()
		for i := len(bodies) - 1; i > 0; i-- {
			_, done, err := recv.push(now, bodies[i].(*packet.Split))
			Expect(err).To(Succeed())
			Expect(done).To(BeFalse())
		}

		got, done, err := recv.push(now, bodies[0].(*packet.Split))
		Expect(err).To(Succeed())
		Expect(done).To(BeTrue())
		Expect(got).To(Equal(payload))
	})

	It("gives every group its own seqnum", func() {
		sender := newSplitSender()

		first, err := sender.chunk(make([]byte, 1000))
		Expect(err).To(Succeed())
		second, err := sender.chunk(make([]byte, 1000))
		Expect(err).To(Succeed())

		Expect(second[0].(*packet.Split).Seqnum).To(
			Equal(first[0].(*packet.Split).Seqnum + 1))
	})

	It("tolerates duplicate fragments", func() {
		bodies, err := newSplitSender().chunk(make([]byte, 600))
		Expect(err).To(Succeed())
		Expect(bodies).To(HaveLen(2))

		recv := newSplitReceiver()
		_, done, err := recv.push(now, bodies[0].(*packet.Split))
		Expect(err).To(Succeed())
		Expect(done).To(BeFalse())

		_, done, err = recv.push(now, bodies[0].(*packet.Split))
		Expect(err).To(Succeed())
		Expect(done).To(BeFalse())

		_, done, err = recv.push(now, bodies[1].(*packet.Split))
		Expect(err).To(Succeed())
		Expect(done).To(BeTrue())
	})

	Describe("malformed fragments", func() {
		It("rejects a zero chunk count", func() {
			_, _, err := newSplitReceiver().push(now, &packet.Split{ChunkCount: 0})
			Expect(errors.Is(err, ErrSplitMalformed)).To(BeTrue())
		})

		It("rejects a chunk number past the count", func() {
			_, _, err := newSplitReceiver().push(now, &packet.Split{ChunkCount: 2, ChunkNum: 2})
			Expect(errors.Is(err, ErrSplitMalformed)).To(BeTrue())
		})

		It("rejects a count that disagrees with the group", func() {
			recv := newSplitReceiver()
			_, _, err := recv.push(now, &packet.Split{Seqnum: 1, ChunkCount: 3, ChunkNum: 0})
			Expect(err).To(Succeed())

			_, _, err = recv.push(now, &packet.Split{Seqnum: 1, ChunkCount: 4, ChunkNum: 1})
			Expect(errors.Is(err, ErrSplitMalformed)).To(BeTrue())
		})
	})

	It("reaps groups that stopped receiving fragments", func() {
		recv := newSplitReceiver()

		_, _, err := recv.push(now, &packet.Split{Seqnum: 1, ChunkCount: 2, ChunkNum: 0})
		Expect(err).To(Succeed())
		_, _, err = recv.push(now.Add(25*time.Second), &packet.Split{Seqnum: 2, ChunkCount: 2, ChunkNum: 0})
		Expect(err).To(Succeed())

		Expect(recv.reap(now.Add(20 * time.Second))).To(Equal(1))

		// The reaped group restarts from nothing; the fed one is intact.
		_, done, err := recv.push(now.Add(26*time.Second), &packet.Split{Seqnum: 2, ChunkCount: 2, ChunkNum: 1})
		Expect(err).To(Succeed())
		Expect(done).To(BeTrue())
	})
})
