package ir

import (
	"fmt"
	"slices"
)

// Builder generates ANF bindings. It allocates binding names and
// accumulates bindings in call order; Finish turns them into an Anf body
// owned by a pool.
//
// A Builder is single-use. After Finish (or Routine) every further call
// panics: reusing a finished builder is a bug in the lowering code, not a
// condition to recover from.
type Builder struct {
	next     Local
	bindings []Binding
	finished bool
}

// NewBuilder creates a builder with no bindings. Its first Local is 0.
func NewBuilder() *Builder {
	return &Builder{}
}

// Parameter allocates a Local for a routine parameter. No binding produces
// it; it is bound on entry to the body.
func (b *Builder) Parameter() Local {
	b.mustBeOpen("Parameter")
	return b.fresh()
}

// Local returns l as an operand. It does not touch the builder state and
// exists so that lowering code reads uniformly.
func (b *Builder) Local(l Local) Simple {
	return l
}

// Quote returns v as a literal operand. Like Local, it does not touch the
// builder state.
func (b *Builder) Quote(v *Value) Simple {
	return Quote{Value: v}
}

// CallRoutine binds a call of routine with arguments and returns the
// operand naming its result. The argument slice is copied.
//
// Every Local among the arguments must have been returned by this builder
// earlier; anything else panics.
func (b *Builder) CallRoutine(routine Global, arguments []Simple) Simple {
	b.mustBeOpen("CallRoutine")
	for i, arg := range arguments {
		b.checkOperand(arg, fmt.Sprintf("argument %d of call %s", i, routine))
	}
	return b.bind(CallRoutine{Routine: routine, Arguments: slices.Clone(arguments)})
}

// Len returns the number of bindings emitted so far.
func (b *Builder) Len() int {
	return len(b.bindings)
}

// Finish moves the accumulated bindings into pool and returns the body
// with the given result. The builder cannot be used afterwards.
func (b *Builder) Finish(pool *Pool, result Simple) Anf {
	b.mustBeOpen("Finish")
	b.checkOperand(result, "result")
	b.finished = true

	bindings := make([]Binding, len(b.bindings))
	for i, binding := range b.bindings {
		if call, ok := binding.Expression.(CallRoutine); ok {
			call.Arguments = pool.AllocArguments(call.Arguments)
			binding.Expression = call
		}
		bindings[i] = binding
	}
	b.bindings = nil

	return Anf{Bindings: pool.AllocBindings(bindings), Result: result}
}

// Routine finishes the builder into a routine item. params are normally the
// Locals returned by Parameter, in declaration order.
func (b *Builder) Routine(pool *Pool, name Global, params []Local, result Simple) Routine {
	b.mustBeOpen("Routine")
	for _, p := range params {
		b.checkOperand(p, fmt.Sprintf("parameter of routine %s", name))
	}
	body := b.Finish(pool, result)
	return Routine{Name: name, Parameters: pool.AllocLocals(params), Body: body}
}

func (b *Builder) fresh() Local {
	l := b.next
	b.next++
	return l
}

func (b *Builder) bind(expression Complex) Simple {
	result := b.fresh()
	b.bindings = append(b.bindings, Binding{Result: result, Expression: expression})
	return result
}

func (b *Builder) mustBeOpen(op string) {
	if b.finished {
		panic(fmt.Sprintf("ir: Builder.%s called after Finish", op))
	}
}

func (b *Builder) checkOperand(s Simple, what string) {
	switch s := s.(type) {
	case Local:
		if s >= b.next {
			panic(fmt.Sprintf("ir: %s refers to %s, which this builder has not allocated", what, s))
		}
	case Quote:
		if s.Value == nil {
			panic(fmt.Sprintf("ir: %s quotes a nil value", what))
		}
	case nil:
		panic(fmt.Sprintf("ir: %s is nil", what))
	}
}
