package ginternals

import (
	"crypto/sha1" //nolint:gosec // objects are addressed by their SHA-1
	"encoding/hex"
	"errors"
)

const (
	// OidSize is the length of an oid, in bytes
	OidSize = sha1.Size
	// OidHexSize is the length of an oid once hex encoded, in chars
	OidHexSize = OidSize * 2
)

var (
	// NullOid is the value of an empty Oid, or one that's all 0s
	NullOid = Oid{}

	// ErrInvalidOid is returned when a given value isn't a valid Oid
	ErrInvalidOid = errors.New("invalid Oid")
)

// Oid represents an object id: the SHA-1 of the exact bytes of an
// object as stored on disk
type Oid [OidSize]byte

// NewOidFromContent returns the Oid of the given content.
// The oid will be the SHA1 sum of the content
func NewOidFromContent(bytes []byte) Oid {
	return sha1.Sum(bytes) //nolint:gosec
}

// NewOidFromChars creates an Oid from the given char bytes
// For the SHA {'9', 'b', '9', '1', 'd', 'a', ...}
// the oid will be {0x9b, 0x91, 0xda, ...}
func NewOidFromChars(id []byte) (Oid, error) {
	return NewOidFromStr(string(id))
}

// NewOidFromStr creates an Oid from the given string
// For the SHA 9b91da06e69613397b38e0808e0ba5ee6983251b
// the oid will be {0x9b, 0x91, 0xda, ...}
//
// The shape of the string is checked before anything else: it must
// contain exactly OidHexSize hexadecimal chars. This is what prevents
// arbitrary strings (like "../../HEAD") from ever being used to build
// a path in the object directory.
func NewOidFromStr(id string) (Oid, error) {
	if !IsOidShapeValid(id) {
		return NullOid, ErrInvalidOid
	}
	bytes, err := hex.DecodeString(id)
	if err != nil {
		return NullOid, ErrInvalidOid
	}

	var oid Oid
	copy(oid[:], bytes)
	return oid, nil
}

// IsOidShapeValid returns whether the given string has the shape
// of an hex-encoded oid
func IsOidShapeValid(id string) bool {
	if len(id) != OidHexSize {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// Bytes returns a byte slice of the Oid
func (o Oid) Bytes() []byte {
	return o[:]
}

// String converts an oid to a string
func (o Oid) String() string {
	return hex.EncodeToString(o[:])
}

// Short returns the abbreviated version of the oid, as displayed to
// the users
func (o Oid) Short() string {
	return o.String()[:7]
}

// IsZero returns whether the oid has the zero value (NullOid)
func (o Oid) IsZero() bool {
	return o == NullOid
}
