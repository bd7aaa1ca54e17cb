package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderOrdering(t *testing.T) {
	p := NewPool()
	b := NewBuilder()

	x := b.Quote(p.Atom("x"))
	r1 := b.CallRoutine("read", []Simple{x})
	r2 := b.CallRoutine("eval", []Simple{r1})
	r3 := b.CallRoutine("print", []Simple{r2, r1})

	anf := b.Finish(p, r2)

	require.Len(t, anf.Bindings, 3)
	assert.Equal(t, Local(0), anf.Bindings[0].Result)
	assert.Equal(t, Local(1), anf.Bindings[1].Result)
	assert.Equal(t, Local(2), anf.Bindings[2].Result)

	assert.Equal(t, Local(0), r1)
	assert.Equal(t, Local(1), r2)
	assert.Equal(t, Local(2), r3)

	names := make([]Global, 0, 3)
	for _, binding := range anf.Bindings {
		call, ok := binding.Expression.(CallRoutine)
		require.True(t, ok)
		names = append(names, call.Routine)
	}
	assert.Equal(t, []Global{"read", "eval", "print"}, names)

	assert.Equal(t, r2, anf.Result)
	assert.Equal(t, []Simple{Local(1), Local(0)}, anf.Bindings[2].Expression.(CallRoutine).Arguments)
	assert.NoError(t, anf.Validate())
}

func TestBuilderIsolation(t *testing.T) {
	p := NewPool()
	b1 := NewBuilder()
	b2 := NewBuilder()

	a1 := b1.CallRoutine("f", nil)
	a2 := b2.CallRoutine("g", nil)
	b1.CallRoutine("h", []Simple{a1})

	assert.Equal(t, Local(0), a1)
	assert.Equal(t, Local(0), a2, "each builder starts at 0")

	anf1 := b1.Finish(p, a1)
	anf2 := b2.Finish(p, a2)

	require.Len(t, anf1.Bindings, 2)
	require.Len(t, anf2.Bindings, 1)
	assert.Equal(t, Global("g"), anf2.Bindings[0].Expression.(CallRoutine).Routine)
	assert.Equal(t, Global("f"), anf1.Bindings[0].Expression.(CallRoutine).Routine)
}

func TestBuilderPureHelpers(t *testing.T) {
	p := NewPool()
	b := NewBuilder()
	v := p.Atom("lit")

	assert.Equal(t, Quote{Value: v}, b.Quote(v))
	assert.Equal(t, Local(7), b.Local(7))
	assert.Equal(t, 0, b.Len(), "helpers do not emit bindings")

	first := b.CallRoutine("f", nil)
	assert.Equal(t, Local(0), first, "helpers do not consume locals")
}

func TestBuilderParameters(t *testing.T) {
	p := NewPool()
	b := NewBuilder()

	x := b.Parameter()
	y := b.Parameter()
	sum := b.CallRoutine("add", []Simple{x, y})

	r := b.Routine(p, "plus", []Local{x, y}, sum)

	assert.Equal(t, Global("plus"), r.Name)
	assert.Equal(t, []Local{0, 1}, r.Parameters)
	require.Len(t, r.Body.Bindings, 1)
	assert.Equal(t, Local(2), r.Body.Bindings[0].Result)
	assert.NoError(t, r.Validate())

	var item Item = r
	_, ok := item.(Routine)
	assert.True(t, ok)
}

func TestBuilderCopiesArguments(t *testing.T) {
	p := NewPool()
	b := NewBuilder()
	x := b.Parameter()

	args := []Simple{x}
	r := b.CallRoutine("f", args)
	args[0] = b.Quote(p.Atom("changed"))

	anf := b.Finish(p, r)
	assert.Equal(t, []Simple{x}, anf.Bindings[0].Expression.(CallRoutine).Arguments)
}

func TestBuilderFinishEmpty(t *testing.T) {
	p := NewPool()
	b := NewBuilder()
	v := p.Atom("v")

	anf := b.Finish(p, b.Quote(v))

	assert.Empty(t, anf.Bindings)
	assert.Equal(t, Quote{Value: v}, anf.Result)
}

func TestBuilderUseAfterFinishPanics(t *testing.T) {
	p := NewPool()
	b := NewBuilder()
	r := b.CallRoutine("f", nil)
	b.Finish(p, r)

	assert.Panics(t, func() { b.CallRoutine("g", nil) })
	assert.Panics(t, func() { b.Parameter() })
	assert.Panics(t, func() { b.Finish(p, r) })
	assert.Panics(t, func() { b.Routine(p, "f", nil, r) })
}

func TestBuilderRejectsUnallocatedLocal(t *testing.T) {
	p := NewPool()
	b := NewBuilder()

	assert.Panics(t, func() { b.CallRoutine("f", []Simple{Local(0)}) })
	assert.Panics(t, func() { b.Finish(p, Local(3)) })
}

func TestBuilderRejectsNilOperands(t *testing.T) {
	b := NewBuilder()

	assert.Panics(t, func() { b.CallRoutine("f", []Simple{nil}) })
	assert.Panics(t, func() { b.CallRoutine("f", []Simple{Quote{}}) })
}
