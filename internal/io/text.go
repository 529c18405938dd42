package ioutils

import (
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// NewTextReader returns a reader yielding UTF-8 text from r.
//
// A leading byte order mark selects the encoding (UTF-8 or UTF-16 in either
// byte order) and is dropped. Without one the bytes pass through unchanged.
func NewTextReader(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(transform.Nop))
}

// DecodeText is the []byte form of NewTextReader.
func DecodeText(data []byte) ([]byte, error) {
	out, _, err := transform.Bytes(unicode.BOMOverride(transform.Nop), data)
	return out, err
}
