package wire_test

import (
	"errors"
	"strings"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/luma/voxelwire/wire"
)

var _ = Describe("Reader and Writer", func() {
	It("round-trips the integer primitives big-endian", func() {
		w := wire.NewWriter()
		w.U8(0xab)
		w.U16(0x0102)
		w.U32(0xdeadbeef)
		w.U64(0x0102030405060708)
		w.S16(-2)
		w.S32(-100000)

		Expect(w.Bytes()[:3]).To(Equal([]byte{0xab, 0x01, 0x02}))

		r := wire.NewReader(w.Bytes())
		Expect(r.U8()).To(Equal(uint8(0xab)))
		Expect(r.U16()).To(Equal(uint16(0x0102)))
		Expect(r.U32()).To(Equal(uint32(0xdeadbeef)))
		Expect(r.U64()).To(Equal(uint64(0x0102030405060708)))
		Expect(r.S16()).To(Equal(int16(-2)))
		Expect(r.S32()).To(Equal(int32(-100000)))
		Expect(r.Remaining()).To(Equal(0))
	})

	It("round-trips floats bit-exactly", func() {
		w := wire.NewWriter()
		w.F32(3.25)
		w.F32(-0.000123)

		r := wire.NewReader(w.Bytes())
		Expect(r.F32()).To(Equal(float32(3.25)))
		Expect(r.F32()).To(Equal(float32(-0.000123)))
	})

	It("returns ErrTruncated when values run past the end", func() {
		r := wire.NewReader([]byte{0x01})
		_, err := r.U32()
		Expect(errors.Is(err, wire.ErrTruncated)).To(BeTrue())
	})

	Describe("Bool", func() {
		It("accepts exactly 0 and 1", func() {
			r := wire.NewReader([]byte{0x00, 0x01})
			Expect(r.Bool()).To(BeFalse())
			Expect(r.Bool()).To(BeTrue())
		})

		It("rejects any other byte", func() {
			r := wire.NewReader([]byte{0x02})
			_, err := r.Bool()
			Expect(errors.Is(err, wire.ErrInvalidEncoding)).To(BeTrue())
		})
	})

	Describe("String", func() {
		It("round-trips arbitrary bytes without validating them as text", func() {
			raw := string([]byte{0xff, 0xfe, 0x00, 0x41})

			w := wire.NewWriter()
			Expect(w.String(raw)).To(Succeed())

			r := wire.NewReader(w.Bytes())
			Expect(r.String()).To(Equal(raw))
		})

		It("errors when the declared length exceeds what remains", func() {
			r := wire.NewReader([]byte{0x00, 0x05, 'h', 'i'})
			_, err := r.String()
			Expect(errors.Is(err, wire.ErrTruncated)).To(BeTrue())
		})
	})

	Describe("WString", func() {
		It("encodes a u16 count of UTF-16 code units", func() {
			w := wire.NewWriter()
			Expect(w.WString("hi")).To(Succeed())
			Expect(w.Bytes()).To(Equal([]byte{0x00, 0x02, 0x00, 'h', 0x00, 'i'}))
		})

		It("round-trips text outside the basic multilingual plane", func() {
			text := "voxel \U0001F3D4"

			w := wire.NewWriter()
			Expect(w.WString(text)).To(Succeed())

			r := wire.NewReader(w.Bytes())
			Expect(r.WString()).To(Equal(text))
		})
	})

	Describe("Bytes32", func() {
		It("rejects an adversarial length before allocating", func() {
			r := wire.NewReader([]byte{0xff, 0xff, 0xff, 0xff, 0x00})
			_, err := r.Bytes32()
			Expect(errors.Is(err, wire.ErrTruncated)).To(BeTrue())
		})
	})

	Describe("Wrap16", func() {
		It("back-patches the length once the body is written", func() {
			w := wire.NewWriter()
			err := w.Wrap16(func(inner *wire.Writer) error {
				inner.U32(7)
				return inner.String("abc")
			})
			Expect(err).To(Succeed())

			r := wire.NewReader(w.Bytes())
			sub, err := r.Sub16()
			Expect(err).To(Succeed())
			Expect(sub.Remaining()).To(Equal(9))
			Expect(r.Remaining()).To(Equal(0))
		})
	})

	Describe("ZlibBytes32", func() {
		It("round-trips a compressible blob", func() {
			blob := []byte(strings.Repeat("stone and dirt and ", 500))

			w := wire.NewWriter()
			Expect(w.ZlibBytes32(blob)).To(Succeed())
			Expect(w.Len()).To(BeNumerically("<", len(blob)))

			r := wire.NewReader(w.Bytes())
			Expect(r.ZlibBytes32()).To(Equal(blob))
		})

		It("rejects a corrupt stream", func() {
			w := wire.NewWriter()
			Expect(w.Bytes32([]byte("not zlib at all"))).To(Succeed())

			r := wire.NewReader(w.Bytes())
			_, err := r.ZlibBytes32()
			Expect(errors.Is(err, wire.ErrInvalidEncoding)).To(BeTrue())
		})
	})
})
