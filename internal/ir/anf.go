package ir

import (
	"fmt"
	"strings"
)

// Local names the result of one binding (or one routine parameter) within
// a single ANF body. Locals are dense and allocated in increasing order by
// a Builder; they are only meaningful inside the body that produced them.
type Local uint64

// Global names a top-level routine. Globals compare as opaque byte strings.
type Global string

// Simple is an operand that costs nothing to evaluate: either a Local that
// an earlier binding produced, or a quoted Value.
// Only Local and Quote implement this interface.
type Simple interface {
	simpleExpr() // Sealed
}

// Quote embeds a literal value as an operand.
type Quote struct {
	Value *Value
}

func (Local) simpleExpr() {}
func (Quote) simpleExpr() {}

// Complex is an expression that computes something and is therefore always
// bound to a fresh Local. The variant set is open: new call forms are added
// here as lowering learns them.
type Complex interface {
	complexExpr() // Sealed
}

// CallRoutine calls a named routine with a fixed argument list.
type CallRoutine struct {
	Routine   Global
	Arguments []Simple
}

func (CallRoutine) complexExpr() {}

// Binding pairs a Local with the expression that produced it.
type Binding struct {
	Result     Local
	Expression Complex
}

// Anf is a body in A-normal form: bindings evaluated in order, then a
// result operand. Every Local used by a binding or by the result is either
// a parameter of the enclosing routine or the result of an earlier binding.
type Anf struct {
	Bindings []Binding
	Result   Simple
}

// Item is a top-level definition. The variant set is open: data
// definitions will join routines.
type Item interface {
	item() // Sealed
}

// Routine is a named procedure with pre-bound parameters and a body.
// Parameters are Locals that no binding produces.
type Routine struct {
	Name       Global
	Parameters []Local
	Body       Anf
}

func (Routine) item() {}

func (l Local) String() string {
	return fmt.Sprintf("%%%d", uint64(l))
}

func (q Quote) String() string {
	if q.Value == nil {
		return "'<nil>"
	}
	return "'" + q.Value.String()
}

func (c CallRoutine) String() string {
	var b strings.Builder
	b.WriteString("call ")
	b.WriteString(string(c.Routine))
	b.WriteByte('(')
	for i, a := range c.Arguments {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(simpleString(a))
	}
	b.WriteByte(')')
	return b.String()
}

func (b Binding) String() string {
	return fmt.Sprintf("%s = %s", b.Result, complexString(b.Expression))
}

// String renders the body one binding per line, followed by the result.
func (a Anf) String() string {
	var b strings.Builder
	a.write(&b, "")
	return b.String()
}

func (a Anf) write(b *strings.Builder, indent string) {
	for _, binding := range a.Bindings {
		b.WriteString(indent)
		b.WriteString(binding.String())
		b.WriteByte('\n')
	}
	b.WriteString(indent)
	b.WriteString("return ")
	b.WriteString(simpleString(a.Result))
	b.WriteByte('\n')
}

func (r Routine) String() string {
	var b strings.Builder
	b.WriteString("routine ")
	b.WriteString(string(r.Name))
	b.WriteByte('(')
	for i, p := range r.Parameters {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.String())
	}
	b.WriteString("):\n")
	r.Body.write(&b, "  ")
	return b.String()
}

func simpleString(s Simple) string {
	switch s := s.(type) {
	case Local:
		return s.String()
	case Quote:
		return s.String()
	case nil:
		return "<nil>"
	default:
		return fmt.Sprintf("<%T>", s)
	}
}

func complexString(c Complex) string {
	switch c := c.(type) {
	case CallRoutine:
		return c.String()
	case nil:
		return "<nil>"
	default:
		return fmt.Sprintf("<%T>", c)
	}
}
