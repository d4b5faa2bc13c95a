// Package readutil contains methods to parse the encoded objects
package readutil

import "bytes"

// ReadTo returns the bytes of b located before the first occurrence
// of to. nil is returned if b doesn't contain to.
// The returned slice cannot be used to write past its length
func ReadTo(b []byte, to byte) []byte {
	i := bytes.IndexByte(b, to)
	if i < 0 {
		return nil
	}
	return b[:i:i]
}
