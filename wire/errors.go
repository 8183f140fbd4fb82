package wire

import "errors"

var (
	ErrTruncated       = errors.New("Not enough bytes remain to decode the value")
	ErrInvalidEncoding = errors.New("Value is outside its valid domain")
	ErrValueTooLarge   = errors.New("Value does not fit in its length prefix")
)
