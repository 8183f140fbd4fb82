package wire

import (
	"bytes"
	"fmt"
	"io"
	"io/ioutil"

	"github.com/klauspost/compress/zlib"
)

// maxInflatedSize caps how much a compressed blob may inflate to. The
// protocol gives no bound of its own, so decoding enforces one rather
// than letting a tiny datagram allocate without limit.
const maxInflatedSize = 64 << 20

// ZlibBytes32 writes a u32 length prefix followed by the zlib-compressed
// form of b.
func (w *Writer) ZlibBytes32(b []byte) error {
	var buf bytes.Buffer

	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(b); err != nil {
		return fmt.Errorf("compress blob: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("compress blob: %w", err)
	}

	return w.Bytes32(buf.Bytes())
}

// ZlibBytes32 reads a u32 length-prefixed zlib stream and returns the
// inflated bytes.
func (r *Reader) ZlibBytes32() ([]byte, error) {
	raw, err := r.Bytes32()
	if err != nil {
		return nil, err
	}

	zr, err := zlib.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("inflate blob: %v: %w", err, ErrInvalidEncoding)
	}
	defer zr.Close()

	out, err := ioutil.ReadAll(&limitedReader{r: zr, n: maxInflatedSize})
	if err != nil {
		return nil, fmt.Errorf("inflate blob: %v: %w", err, ErrInvalidEncoding)
	}

	return out, nil
}

type limitedReader struct {
	r io.Reader
	n int
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if l.n <= 0 {
		return 0, fmt.Errorf("inflated blob exceeds %d bytes: %w", maxInflatedSize, ErrInvalidEncoding)
	}
	if len(p) > l.n {
		p = p[:l.n]
	}

	n, err := l.r.Read(p)
	l.n -= n
	return n, err
}
