package wire

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf16"
)

// Writer builds a payload by appending values to a growing buffer.
type Writer struct {
	buf []byte
}

func NewWriter() *Writer {
	return &Writer{buf: make([]byte, 0, 64)}
}

// Bytes returns the payload written so far. It aliases the writer's
// buffer; callers that keep writing should copy it first.
func (w *Writer) Bytes() []byte {
	return w.buf
}

func (w *Writer) Len() int {
	return len(w.buf)
}

func (w *Writer) Raw(b []byte) {
	w.buf = append(w.buf, b...)
}

func (w *Writer) U8(v uint8) {
	w.buf = append(w.buf, v)
}

func (w *Writer) U16(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *Writer) U32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *Writer) U64(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *Writer) S8(v int8)   { w.U8(uint8(v)) }
func (w *Writer) S16(v int16) { w.U16(uint16(v)) }
func (w *Writer) S32(v int32) { w.U32(uint32(v)) }

func (w *Writer) F32(v float32) {
	w.U32(math.Float32bits(v))
}

func (w *Writer) Bool(v bool) {
	if v {
		w.U8(1)
	} else {
		w.U8(0)
	}
}

func (w *Writer) String(s string) error {
	if len(s) > math.MaxUint16 {
		return fmt.Errorf("string of %d bytes: %w", len(s), ErrValueTooLarge)
	}

	w.U16(uint16(len(s)))
	w.buf = append(w.buf, s...)
	return nil
}

func (w *Writer) LongString(s string) error {
	if len(s) > math.MaxUint32 {
		return fmt.Errorf("long string of %d bytes: %w", len(s), ErrValueTooLarge)
	}

	w.U32(uint32(len(s)))
	w.buf = append(w.buf, s...)
	return nil
}

func (w *Writer) WString(s string) error {
	units := utf16.Encode([]rune(s))
	if len(units) > math.MaxUint16 {
		return fmt.Errorf("wide string of %d units: %w", len(units), ErrValueTooLarge)
	}

	w.U16(uint16(len(units)))
	for _, u := range units {
		w.U16(u)
	}
	return nil
}

func (w *Writer) Bytes16(b []byte) error {
	if len(b) > math.MaxUint16 {
		return fmt.Errorf("blob of %d bytes: %w", len(b), ErrValueTooLarge)
	}

	w.U16(uint16(len(b)))
	w.buf = append(w.buf, b...)
	return nil
}

func (w *Writer) Bytes32(b []byte) error {
	if len(b) > math.MaxUint32 {
		return fmt.Errorf("blob of %d bytes: %w", len(b), ErrValueTooLarge)
	}

	w.U32(uint32(len(b)))
	w.buf = append(w.buf, b...)
	return nil
}

// Wrap16 writes a u16 length-framed sub-message. The length isn't known
// until fn has run, so a placeholder is written and patched afterwards.
func (w *Writer) Wrap16(fn func(*Writer) error) error {
	mark := len(w.buf)
	w.U16(0)

	if err := fn(w); err != nil {
		return err
	}

	n := len(w.buf) - mark - 2
	if n > math.MaxUint16 {
		return fmt.Errorf("wrapped message of %d bytes: %w", n, ErrValueTooLarge)
	}

	binary.BigEndian.PutUint16(w.buf[mark:], uint16(n))
	return nil
}

// Wrap32 is Wrap16 with a u32 length prefix.
func (w *Writer) Wrap32(fn func(*Writer) error) error {
	mark := len(w.buf)
	w.U32(0)

	if err := fn(w); err != nil {
		return err
	}

	n := len(w.buf) - mark - 4
	binary.BigEndian.PutUint32(w.buf[mark:], uint32(n))
	return nil
}
