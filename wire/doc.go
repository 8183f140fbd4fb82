package wire

// This package implements the byte-level codec that the rest of the engine
// builds on. It knows nothing about packets or commands, only values.
//
// Encoding rules
//
// - all integers are fixed width, big endian
// - booleans are a single byte, 0 or 1; anything else is rejected
// - `String` is a u16 byte length followed by the raw bytes. The bytes are
//   not required to be valid text and must round-trip exactly
// - `LongString` is the same with a u32 length
// - `WString` is a u16 count of UTF-16 code units, each written big endian
// - `Bytes16`/`Bytes32` are length-prefixed binary blobs (u16/u32 lengths)
// - `Wrap16`/`Wrap32` frame a nested sub-message with a byte length written
//   before it. The length isn't known until the nested content has been
//   written, so the writer back-patches it
// - `ZlibBytes32` is a u32 length followed by a zlib stream
//
// Reading is cursor based: a Reader is handed one payload and consumes it
// left to right. Running out of bytes yields ErrTruncated; a value outside
// its domain yields ErrInvalidEncoding. Both are wrapped so callers can
// test with errors.Is.
