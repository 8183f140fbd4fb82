package wire

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf16"
)

// Reader consumes a single payload left to right.
//
// It never copies the underlying buffer; slices returned by Take and the
// blob readers alias the input and must not be held past the lifetime of
// the datagram they came from unless copied.
type Reader struct {
	data []byte
}

func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

func (r *Reader) Remaining() int {
	return len(r.data)
}

// Take consumes the next n bytes.
func (r *Reader) Take(n int) ([]byte, error) {
	if n > len(r.data) {
		return nil, fmt.Errorf("take %d of %d bytes: %w", n, len(r.data), ErrTruncated)
	}

	out := r.data[:n]
	r.data = r.data[n:]
	return out, nil
}

// Peek returns the next n bytes without consuming them.
func (r *Reader) Peek(n int) ([]byte, error) {
	if n > len(r.data) {
		return nil, fmt.Errorf("peek %d of %d bytes: %w", n, len(r.data), ErrTruncated)
	}

	return r.data[:n], nil
}

// TakeAll consumes everything that remains.
func (r *Reader) TakeAll() []byte {
	out := r.data
	r.data = nil
	return out
}

func (r *Reader) U8() (uint8, error) {
	b, err := r.Take(1)
	if err != nil {
		return 0, err
	}

	return b[0], nil
}

func (r *Reader) U16() (uint16, error) {
	b, err := r.Take(2)
	if err != nil {
		return 0, err
	}

	return binary.BigEndian.Uint16(b), nil
}

func (r *Reader) U32() (uint32, error) {
	b, err := r.Take(4)
	if err != nil {
		return 0, err
	}

	return binary.BigEndian.Uint32(b), nil
}

func (r *Reader) U64() (uint64, error) {
	b, err := r.Take(8)
	if err != nil {
		return 0, err
	}

	return binary.BigEndian.Uint64(b), nil
}

func (r *Reader) S8() (int8, error) {
	v, err := r.U8()
	return int8(v), err
}

func (r *Reader) S16() (int16, error) {
	v, err := r.U16()
	return int16(v), err
}

func (r *Reader) S32() (int32, error) {
	v, err := r.U32()
	return int32(v), err
}

func (r *Reader) F32() (float32, error) {
	v, err := r.U32()
	return math.Float32frombits(v), err
}

func (r *Reader) Bool() (bool, error) {
	v, err := r.U8()
	if err != nil {
		return false, err
	}

	switch v {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("bool byte %d: %w", v, ErrInvalidEncoding)
	}
}

// String reads a u16 length-prefixed byte string. The bytes are not
// validated as text so arbitrary payloads round-trip.
func (r *Reader) String() (string, error) {
	n, err := r.U16()
	if err != nil {
		return "", err
	}

	b, err := r.Take(int(n))
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// LongString reads a u32 length-prefixed byte string.
func (r *Reader) LongString() (string, error) {
	n, err := r.U32()
	if err != nil {
		return "", err
	}

	b, err := r.Take(int(n))
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// WString reads a u16 count of big-endian UTF-16 code units.
func (r *Reader) WString() (string, error) {
	n, err := r.U16()
	if err != nil {
		return "", err
	}

	raw, err := r.Take(2 * int(n))
	if err != nil {
		return "", err
	}

	units := make([]uint16, n)
	for i := range units {
		units[i] = binary.BigEndian.Uint16(raw[2*i:])
	}

	return string(utf16.Decode(units)), nil
}

// Bytes16 reads a u16 length-prefixed binary blob.
func (r *Reader) Bytes16() ([]byte, error) {
	n, err := r.U16()
	if err != nil {
		return nil, err
	}

	return r.Take(int(n))
}

// Bytes32 reads a u32 length-prefixed binary blob.
func (r *Reader) Bytes32() ([]byte, error) {
	n, err := r.U32()
	if err != nil {
		return nil, err
	}

	if int64(n) > int64(r.Remaining()) {
		// Reject before allocating anything; an adversarial length here
		// must not cost memory.
		return nil, fmt.Errorf("blob of %d bytes with %d remaining: %w", n, r.Remaining(), ErrTruncated)
	}

	return r.Take(int(n))
}

// Sub16 reads a u16 length-framed sub-message and returns a Reader
// restricted to it.
func (r *Reader) Sub16() (*Reader, error) {
	b, err := r.Bytes16()
	if err != nil {
		return nil, err
	}

	return NewReader(b), nil
}

// Sub32 reads a u32 length-framed sub-message and returns a Reader
// restricted to it.
func (r *Reader) Sub32() (*Reader, error) {
	b, err := r.Bytes32()
	if err != nil {
		return nil, err
	}

	return NewReader(b), nil
}
