package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimpleSealed(t *testing.T) {
	var _ Simple = Local(0)
	var _ Simple = Quote{}
	var _ Complex = CallRoutine{}
	var _ Item = Routine{}
}

func TestAnfString(t *testing.T) {
	p := NewPool()
	b := NewBuilder()

	msg := b.Quote(p.List(p.Atom("hello"), p.Atom("world")))
	r0 := b.CallRoutine("print", []Simple{msg})
	r1 := b.CallRoutine("exit", []Simple{r0, b.Quote(p.Atom("ok"))})
	anf := b.Finish(p, r1)

	want := "%0 = call print('(hello world))\n" +
		"%1 = call exit(%0, 'ok)\n" +
		"return %1\n"
	assert.Equal(t, want, anf.String())
}

func TestRoutineString(t *testing.T) {
	p := NewPool()
	b := NewBuilder()

	x := b.Parameter()
	r := b.CallRoutine("neg", []Simple{x})
	routine := b.Routine(p, "negate", []Local{x}, r)

	want := "routine negate(%0):\n" +
		"  %1 = call neg(%0)\n" +
		"  return %1\n"
	assert.Equal(t, want, routine.String())
}

func TestStringWithMissingParts(t *testing.T) {
	anf := Anf{Bindings: []Binding{{Result: 0}}}
	assert.Equal(t, "%0 = <nil>\nreturn <nil>\n", anf.String())
	assert.Equal(t, "'<nil>", Quote{}.String())
}
