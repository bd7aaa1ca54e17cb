package ir

import "fmt"

// Tag identifies the kind of a value. Tags are exactly four bytes; shorter
// names are padded with spaces (see TagNil).
type Tag [4]byte

// Well-known tags.
var (
	TagAtom = Tag{'a', 't', 'o', 'm'}
	TagCons = Tag{'c', 'o', 'n', 's'}
	TagNil  = Tag{'n', 'i', 'l', ' '}
)

// ParseTag converts a 4-byte string into a Tag.
func ParseTag(s string) (Tag, error) {
	var t Tag
	if len(s) != len(t) {
		return t, fmt.Errorf("tag %q must be exactly %d bytes, got %d", s, len(t), len(s))
	}
	copy(t[:], s)
	return t, nil
}

// MustParseTag is like ParseTag but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustParseTag(s string) Tag {
	t, err := ParseTag(s)
	if err != nil {
		panic(err)
	}
	return t
}

// String returns the tag bytes as a string, padding included.
func (t Tag) String() string {
	return string(t[:])
}
