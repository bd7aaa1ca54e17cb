// Package testutil provides shared helpers for tests.
package testutil

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/roach88/petrolc/internal/ir"
)

// Atoms allocates one atom per name, in order.
func Atoms(p *ir.Pool, names ...string) []*ir.Value {
	atoms := make([]*ir.Value, len(names))
	for i, n := range names {
		atoms[i] = p.Atom(n)
	}
	return atoms
}

// List allocates a proper list of atoms.
func List(p *ir.Pool, names ...string) *ir.Value {
	return p.List(Atoms(p, names...)...)
}

// Improper allocates a list of atoms whose final tail is the atom last
// instead of nil.
func Improper(p *ir.Pool, last string, names ...string) *ir.Value {
	v := p.Atom(last)
	for i := len(names) - 1; i >= 0; i-- {
		v = p.Cons(p.Atom(names[i]), v)
	}
	return v
}

// CaptureLogs routes the default slog logger into a buffer at debug level
// until the test ends.
func CaptureLogs(t testing.TB) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return buf
}
