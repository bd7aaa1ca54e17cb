package parse

import (
	"bytes"

	"github.com/roach88/petrolc/internal/ir"
)

// Map runs p and then refines its result with f. The composite matches only
// if both do.
func Map[T, U any](p Parser[T], f func(T) (U, bool)) Parser[U] {
	return func(v *ir.Value) (U, bool) {
		t, ok := p(v)
		if !ok {
			var zero U
			return zero, false
		}
		return f(t)
	}
}

// Or tries each parser in turn and yields the first match.
func Or[T any](ps ...Parser[T]) Parser[T] {
	return func(v *ir.Value) (T, bool) {
		for _, p := range ps {
			if t, ok := p(v); ok {
				return t, true
			}
		}
		var zero T
		return zero, false
	}
}

// Each matches a proper list whose every element matches p, yielding the
// parsed elements. One failing element fails the whole list.
func Each[T any](p Parser[T]) Parser[[]T] {
	return Map(List(), func(elems []*ir.Value) ([]T, bool) {
		out := make([]T, 0, len(elems))
		for _, e := range elems {
			t, ok := p(e)
			if !ok {
				return nil, false
			}
			out = append(out, t)
		}
		return out, true
	})
}

// Keyword matches an atom with exactly the given name.
func Keyword(name string) Parser[struct{}] {
	return Map(Atom(), func(got []byte) (struct{}, bool) {
		return struct{}{}, bytes.Equal(got, []byte(name))
	})
}

// Form matches a proper list whose head is the keyword atom and yields the
// remaining elements.
func Form(keyword string) Parser[[]*ir.Value] {
	kw := Keyword(keyword)
	return Map(List(), func(elems []*ir.Value) ([]*ir.Value, bool) {
		if len(elems) == 0 {
			return nil, false
		}
		if _, ok := kw(elems[0]); !ok {
			return nil, false
		}
		return elems[1:], true
	})
}
