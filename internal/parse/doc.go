// Package parse provides combinators that destructure values into typed
// shapes.
//
// A Parser attempts to recognize one shape in a single value and returns
// either the parsed shape and true, or the zero shape and false. Parsers
// have no side effects and hold no state, so a failed attempt can be
// followed by another parser on the same value.
//
// Lowering builds recognizers for syntactic forms out of these primitives:
//
//	// (define name body)
//	define := parse.Map(parse.Form("define"), func(rest []*ir.Value) (Define, bool) {
//	    if len(rest) != 2 {
//	        return Define{}, false
//	    }
//	    name, ok := parse.Atom()(rest[0])
//	    return Define{Name: name, Body: rest[1]}, ok
//	})
package parse
