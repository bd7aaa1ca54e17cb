package parse

import "github.com/roach88/petrolc/internal/ir"

// Parser recognizes a shape T in a value.
type Parser[T any] func(v *ir.Value) (T, bool)

// Parse applies the parser to v. A nil value never matches.
func (p Parser[T]) Parse(v *ir.Value) (T, bool) {
	if v == nil {
		var zero T
		return zero, false
	}
	return p(v)
}

// Pair is the head and tail of a cons.
type Pair struct {
	Head *ir.Value
	Tail *ir.Value
}

// Triple is the three elements of a three-element proper list.
type Triple struct {
	First  *ir.Value
	Second *ir.Value
	Third  *ir.Value
}

// Atom matches an atom and yields its name.
func Atom() Parser[[]byte] {
	return func(v *ir.Value) ([]byte, bool) {
		return v.AtomName()
	}
}

// Cons matches a cons cell and yields its head and tail.
func Cons() Parser[Pair] {
	return func(v *ir.Value) (Pair, bool) {
		head, tail, ok := v.ListUncons()
		if !ok {
			return Pair{}, false
		}
		return Pair{Head: head, Tail: tail}, true
	}
}

// Nil matches the empty list.
func Nil() Parser[struct{}] {
	return func(v *ir.Value) (struct{}, bool) {
		return struct{}{}, v.IsNil()
	}
}

// List matches a proper list and yields its elements in order. A chain
// whose final tail is neither a cons nor nil does not match at all; no
// partial prefix is returned.
func List() Parser[[]*ir.Value] {
	return func(v *ir.Value) ([]*ir.Value, bool) {
		elems := []*ir.Value{}
		for {
			head, tail, ok := v.ListUncons()
			if !ok {
				break
			}
			elems = append(elems, head)
			v = tail
		}
		if !v.IsNil() {
			return nil, false
		}
		return elems, true
	}
}

// Triplet matches a proper list of exactly three elements.
func Triplet() Parser[Triple] {
	return func(v *ir.Value) (Triple, bool) {
		var elems [3]*ir.Value
		for i := range elems {
			head, tail, ok := v.ListUncons()
			if !ok {
				return Triple{}, false
			}
			elems[i] = head
			v = tail
		}
		if !v.IsNil() {
			return Triple{}, false
		}
		return Triple{First: elems[0], Second: elems[1], Third: elems[2]}, true
	}
}
