package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/petrolc/internal/ir"
	"github.com/roach88/petrolc/internal/testutil"
)

func TestMap(t *testing.T) {
	p := ir.NewPool()
	length := Map(List(), func(elems []*ir.Value) (int, bool) {
		return len(elems), true
	})

	n, ok := length.Parse(testutil.List(p, "a", "b"))
	require.True(t, ok)
	assert.Equal(t, 2, n)

	_, ok = length.Parse(p.Atom("a"))
	assert.False(t, ok, "inner mismatch propagates")
}

func TestOr(t *testing.T) {
	p := ir.NewPool()
	name := Or(
		Atom(),
		Map(Nil(), func(struct{}) ([]byte, bool) { return []byte("()"), true }),
	)

	got, ok := name.Parse(p.Atom("x"))
	require.True(t, ok)
	assert.Equal(t, "x", string(got))

	got, ok = name.Parse(p.Nil())
	require.True(t, ok)
	assert.Equal(t, "()", string(got))

	_, ok = name.Parse(testutil.List(p, "x"))
	assert.False(t, ok)

	_, ok = Or[int]().Parse(p.Nil())
	assert.False(t, ok, "empty alternative set never matches")
}

func TestEach(t *testing.T) {
	p := ir.NewPool()
	names := Each(Atom())

	got, ok := names.Parse(testutil.List(p, "a", "b"))
	require.True(t, ok)
	assert.Equal(t, [][]byte{[]byte("a"), []byte("b")}, got)

	mixed := p.List(p.Atom("a"), p.List())
	_, ok = names.Parse(mixed)
	assert.False(t, ok, "one bad element fails the list")
}

func TestKeyword(t *testing.T) {
	p := ir.NewPool()

	_, ok := Keyword("define").Parse(p.Atom("define"))
	assert.True(t, ok)

	_, ok = Keyword("define").Parse(p.Atom("defin"))
	assert.False(t, ok)
}

func TestForm(t *testing.T) {
	p := ir.NewPool()
	body := p.List(p.Atom("print"), p.Atom("x"))
	v := p.List(p.Atom("define"), p.Atom("main"), body)

	rest, ok := Form("define").Parse(v)
	require.True(t, ok)
	require.Len(t, rest, 2)
	assert.Equal(t, "main", rest[0].String())
	assert.Same(t, body, rest[1])

	_, ok = Form("lambda").Parse(v)
	assert.False(t, ok)

	_, ok = Form("define").Parse(p.Nil())
	assert.False(t, ok)
}

type define struct {
	name []byte
	body *ir.Value
}

func TestComposedRecognizer(t *testing.T) {
	p := ir.NewPool()
	defineForm := Map(Triplet(), func(tr Triple) (define, bool) {
		if _, ok := Keyword("define").Parse(tr.First); !ok {
			return define{}, false
		}
		name, ok := Atom().Parse(tr.Second)
		return define{name: name, body: tr.Third}, ok
	})

	body := p.List(p.Atom("exit"))
	d, ok := defineForm.Parse(p.List(p.Atom("define"), p.Atom("main"), body))
	require.True(t, ok)
	assert.Equal(t, "main", string(d.name))
	assert.Same(t, body, d.body)

	_, ok = defineForm.Parse(p.List(p.Atom("define"), p.List(), body))
	assert.False(t, ok)
}
