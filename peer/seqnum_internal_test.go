package peer

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("seqnum arithmetic", func() {
	It("measures forward distance across the wrap", func() {
		Expect(relativeDistance(65535, 0)).To(Equal(1))
		Expect(relativeDistance(65500, 100)).To(Equal(136))
	})

	It("measures backward distance across the wrap", func() {
		Expect(relativeDistance(0, 65535)).To(Equal(-1))
		Expect(relativeDistance(100, 65500)).To(Equal(-136))
	})

	It("treats the exact half-space as forward", func() {
		Expect(relativeDistance(0, 32768)).To(Equal(32768))
		Expect(relativeDistance(32768, 0)).To(Equal(32768))
	})

	It("widens wire seqnums onto the absolute counter", func() {
		Expect(relToAbs(uint64(seqnumInitial), 100)).To(Equal(uint64(65636)))
		Expect(relToAbs(65636, 65500)).To(Equal(uint64(65500)))
	})
})
