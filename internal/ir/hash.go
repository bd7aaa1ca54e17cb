package ir

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/zeebo/xxh3"
)

// HashSize is the size of a Hash in bytes.
const HashSize = 32

// Hash is a 256-bit structural identifier.
//
// WARNING: the current algorithm is a non-cryptographic placeholder. A 64-bit
// xxh3 digest is repeated four times to fill 32 bytes, so collisions are as
// likely as for any 64-bit hash. Do not rely on it for security-sensitive
// content addressing until it is replaced by SHA-256.
type Hash [HashSize]byte

// String renders the hash as upper-case hex.
func (h Hash) String() string {
	return strings.ToUpper(hex.EncodeToString(h[:]))
}

// IsZero reports whether h is the zero hash. No computed hash is zero in
// practice, so the zero hash marks "absent".
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// MarshalText implements encoding.TextMarshaler.
func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *Hash) UnmarshalText(text []byte) error {
	parsed, err := ParseHash(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// ParseHash parses a 64-character hex string (either case).
func ParseHash(s string) (Hash, error) {
	var h Hash
	if len(s) != hex.EncodedLen(HashSize) {
		return h, fmt.Errorf("hash must be %d hex characters, got %d", hex.EncodedLen(HashSize), len(s))
	}
	if _, err := hex.Decode(h[:], []byte(s)); err != nil {
		return h, fmt.Errorf("invalid hash %q: %w", s, err)
	}
	return h, nil
}

// MustParseHash is like ParseHash but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustParseHash(s string) Hash {
	h, err := ParseHash(s)
	if err != nil {
		panic(err)
	}
	return h
}

// computeHash folds tag, child count, byte length, child hashes (in order)
// and bytes into one digest.
//
// TODO: switch to SHA-256 once artifact caching relies on collision resistance.
func computeHash(v *Value) Hash {
	h := xxh3.New()

	var n [8]byte
	h.Write(v.tag[:])
	binary.BigEndian.PutUint32(n[:4], uint32(len(v.children)))
	h.Write(n[:4])
	binary.BigEndian.PutUint64(n[:], uint64(len(v.bytes)))
	h.Write(n[:])
	for _, c := range v.children {
		ch := c.Hash()
		h.Write(ch[:])
	}
	h.Write(v.bytes)

	var out Hash
	binary.BigEndian.PutUint64(out[:8], h.Sum64())
	for i := 8; i < HashSize; i += 8 {
		copy(out[i:i+8], out[:8])
	}
	return out
}
