package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/petrolc/internal/ir"
	"github.com/roach88/petrolc/internal/testutil"
)

func TestAtom(t *testing.T) {
	p := ir.NewPool()

	name, ok := Atom().Parse(p.Atom("x"))
	require.True(t, ok)
	assert.Equal(t, "x", string(name))

	_, ok = Atom().Parse(p.Nil())
	assert.False(t, ok)

	_, ok = Atom().Parse(nil)
	assert.False(t, ok)
}

func TestCons(t *testing.T) {
	p := ir.NewPool()
	head, tail := p.Atom("h"), p.Atom("t")

	pair, ok := Cons().Parse(p.Cons(head, tail))
	require.True(t, ok)
	assert.Same(t, head, pair.Head)
	assert.Same(t, tail, pair.Tail)

	_, ok = Cons().Parse(p.Nil())
	assert.False(t, ok)
}

func TestNil(t *testing.T) {
	p := ir.NewPool()

	_, ok := Nil().Parse(p.Nil())
	assert.True(t, ok)

	_, ok = Nil().Parse(p.List(p.Atom("a")))
	assert.False(t, ok)

	_, ok = Nil().Parse(p.Atom("nil"))
	assert.False(t, ok)
}

func TestListRoundTrip(t *testing.T) {
	p := ir.NewPool()
	a, b, c := p.Atom("a"), p.Atom("b"), p.Atom("c")
	list := p.List(a, b, c)

	elems, ok := List().Parse(list)
	require.True(t, ok)
	assert.Equal(t, []*ir.Value{a, b, c}, elems)

	triple, ok := Triplet().Parse(list)
	require.True(t, ok)
	assert.Equal(t, Triple{First: a, Second: b, Third: c}, triple)
}

func TestListEmpty(t *testing.T) {
	p := ir.NewPool()

	elems, ok := List().Parse(p.Nil())
	require.True(t, ok)
	assert.Empty(t, elems)
	assert.NotNil(t, elems, "empty match is distinguishable from no match")
}

func TestListRejectsImproperChain(t *testing.T) {
	p := ir.NewPool()
	a, b := p.Atom("a"), p.Atom("b")

	improper := p.Cons(a, p.Cons(b, p.Atom("c")))

	elems, ok := List().Parse(improper)
	assert.False(t, ok)
	assert.Nil(t, elems, "no partial prefix")

	_, ok = List().Parse(a)
	assert.False(t, ok, "atom is not a list")
}

func TestTripletRejectsOtherLengths(t *testing.T) {
	p := ir.NewPool()
	atoms := testutil.Atoms(p, "a", "b", "c", "d")

	for n := 0; n <= 4; n++ {
		if n == 3 {
			continue
		}
		_, ok := Triplet().Parse(p.List(atoms[:n]...))
		assert.False(t, ok, "length %d", n)
	}
}

func TestTripletRejectsImproperTail(t *testing.T) {
	p := ir.NewPool()
	a, b, c := p.Atom("a"), p.Atom("b"), p.Atom("c")

	v := p.Cons(a, p.Cons(b, p.Cons(c, p.Atom("d"))))
	_, ok := Triplet().Parse(v)
	assert.False(t, ok)
}

func TestParsersDoNotMutate(t *testing.T) {
	p := ir.NewPool()
	list := testutil.List(p, "x", "y", "z")
	before := list.String()

	List().Parse(list)
	Triplet().Parse(list)
	Cons().Parse(list)

	assert.Equal(t, before, list.String())
}
