package ir

import (
	"strconv"
	"strings"
	"sync/atomic"
)

// Value is a node in the program graph. Values carry their source position
// so that diagnostics and debug information can point back at the source.
//
// Values are created by a Pool and are immutable afterwards. The fields are
// unexported so that nothing can change a node after its hash has been
// cached. The only state written after construction is the hash cache,
// which moves once from unset to the one correct digest.
type Value struct {
	pos      Position
	tag      Tag
	children []*Value
	bytes    []byte
	hash     atomic.Pointer[Hash]
}

// Tag returns the tag of the value.
func (v *Value) Tag() Tag { return v.tag }

// Children returns the child values. The slice is owned by the pool and
// must not be modified.
func (v *Value) Children() []*Value { return v.children }

// Bytes returns the byte payload. The slice is owned by the pool and must
// not be modified.
func (v *Value) Bytes() []byte { return v.bytes }

// Position returns the source position, or the zero Position if unknown.
func (v *Value) Position() Position { return v.pos }

// Hash returns the structural hash of the value, ignoring source position.
//
// The hash is computed on first use and cached for the node's lifetime.
// Concurrent first calls may both compute it; they produce the same bytes
// and only the first store wins.
func (v *Value) Hash() Hash {
	if h := v.hash.Load(); h != nil {
		return *h
	}
	h := computeHash(v)
	if !v.hash.CompareAndSwap(nil, &h) {
		return *v.hash.Load()
	}
	return h
}

// hashed reports whether the hash has already been cached.
func (v *Value) hashed() bool {
	return v.hash.Load() != nil
}

// Equal reports whether v and w are structurally identical.
func (v *Value) Equal(w *Value) bool {
	if v == w {
		return true
	}
	if v == nil || w == nil {
		return false
	}
	return v.Hash() == w.Hash()
}

// IsList reports whether the value is a cons or a nil.
func (v *Value) IsList() bool {
	return v.IsCons() || v.IsNil()
}

// IsCons reports whether the value is a cons cell: tagged cons with at
// least a head and a tail.
func (v *Value) IsCons() bool {
	return v.tag == TagCons && len(v.children) >= 2
}

// IsNil reports whether the value is the empty list.
func (v *Value) IsNil() bool {
	return v.tag == TagNil
}

// ListUncons returns the head and tail of a cons. ok is false if the value
// is not a cons.
func (v *Value) ListUncons() (head, tail *Value, ok bool) {
	if !v.IsCons() {
		return nil, nil, false
	}
	return v.children[0], v.children[1], true
}

// IsAtom reports whether the value is an atom.
func (v *Value) IsAtom() bool {
	return v.tag == TagAtom
}

// AtomName returns the name of an atom. ok is false if the value is not an
// atom.
func (v *Value) AtomName() (name []byte, ok bool) {
	if !v.IsAtom() {
		return nil, false
	}
	return v.bytes, true
}

// String renders the value as an s-expression for debugging. Atoms print
// as their name, lists in parentheses (with a dotted tail when improper),
// and every other node as #tag followed by its quoted bytes and bracketed
// children.
func (v *Value) String() string {
	var b strings.Builder
	writeValue(&b, v)
	return b.String()
}

func writeValue(b *strings.Builder, v *Value) {
	switch {
	case v == nil:
		b.WriteString("<nil>")
	case v.IsAtom() && len(v.children) == 0:
		b.Write(v.bytes)
	case v.IsList():
		writeList(b, v)
	default:
		b.WriteByte('#')
		b.WriteString(strings.TrimRight(v.tag.String(), " "))
		if len(v.bytes) > 0 {
			b.WriteString(strconv.Quote(string(v.bytes)))
		}
		if len(v.children) > 0 {
			b.WriteByte('[')
			for i, c := range v.children {
				if i > 0 {
					b.WriteByte(' ')
				}
				writeValue(b, c)
			}
			b.WriteByte(']')
		}
	}
}

func writeList(b *strings.Builder, v *Value) {
	b.WriteByte('(')
	first := true
	for {
		head, tail, ok := v.ListUncons()
		if !ok {
			break
		}
		if !first {
			b.WriteByte(' ')
		}
		first = false
		writeValue(b, head)
		v = tail
	}
	if !v.IsNil() {
		b.WriteString(" . ")
		writeValue(b, v)
	}
	b.WriteByte(')')
}
