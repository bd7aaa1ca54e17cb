package harness

import (
	"context"
	"fmt"
	"slices"

	"github.com/roach88/petrolc/internal/ir"
	"github.com/roach88/petrolc/internal/parse"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return fmt.Sprintf("expected %s, got %s", e.Expected, e.Actual)
}

func (h *Harness) evaluate(ctx context.Context, a Assertion) error {
	switch a.Type {
	case AssertMatch:
		return h.assertMatch(a)
	case AssertHashEqual:
		return h.assertHashes(a, true)
	case AssertHashDiffers:
		return h.assertHashes(a, false)
	case AssertStoreRoundtrip:
		if a.Routine != "" {
			return h.assertRoutineRoundtrip(ctx, a.Routine)
		}
		return h.assertValueRoundtrip(ctx, a.Value)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// runParser runs a named combinator and returns the elements it yields.
func runParser(name, keyword string, v *ir.Value) ([]*ir.Value, bool) {
	switch name {
	case "atom":
		_, ok := parse.Atom().Parse(v)
		return []*ir.Value{v}, ok
	case "cons":
		pair, ok := parse.Cons().Parse(v)
		return []*ir.Value{pair.Head, pair.Tail}, ok
	case "nil":
		_, ok := parse.Nil().Parse(v)
		return nil, ok
	case "list":
		return parse.List().Parse(v)
	case "triplet":
		t, ok := parse.Triplet().Parse(v)
		return []*ir.Value{t.First, t.Second, t.Third}, ok
	case "atoms":
		elems, ok := parse.List().Parse(v)
		if !ok {
			return nil, false
		}
		if _, ok := parse.Each(parse.Atom()).Parse(v); !ok {
			return nil, false
		}
		return elems, true
	case "form":
		return parse.Form(keyword).Parse(v)
	default:
		return nil, false
	}
}

func (h *Harness) assertMatch(a Assertion) error {
	v, err := h.value(a.Value)
	if err != nil {
		return err
	}

	want := true
	if a.Matches != nil {
		want = *a.Matches
	}

	elems, ok := runParser(a.Parser, a.Keyword, v)
	if ok != want {
		return &AssertionError{
			Expected: fmt.Sprintf("%s to match=%t on %s", a.Parser, want, v),
			Actual:   fmt.Sprintf("match=%t", ok),
		}
	}
	if !ok {
		return nil
	}

	if a.Length != nil && len(elems) != *a.Length {
		return &AssertionError{
			Expected: fmt.Sprintf("%d elements", *a.Length),
			Actual:   fmt.Sprintf("%d elements", len(elems)),
		}
	}

	if a.Elements != nil {
		got := make([]string, len(elems))
		for i, e := range elems {
			got[i] = e.String()
		}
		if !slices.Equal(got, a.Elements) {
			return &AssertionError{
				Expected: fmt.Sprintf("elements %q", a.Elements),
				Actual:   fmt.Sprintf("%q", got),
			}
		}
	}
	return nil
}

func (h *Harness) assertHashes(a Assertion, equal bool) error {
	first, err := h.value(a.Values[0])
	if err != nil {
		return err
	}
	for _, name := range a.Values[1:] {
		v, err := h.value(name)
		if err != nil {
			return err
		}
		if first.Equal(v) != equal {
			rel := "different"
			if equal {
				rel = "equal"
			}
			return &AssertionError{
				Expected: fmt.Sprintf("%s and %s to hash %s", a.Values[0], name, rel),
				Actual:   fmt.Sprintf("%s vs %s", first.Hash(), v.Hash()),
			}
		}
	}
	return nil
}

func (h *Harness) assertValueRoundtrip(ctx context.Context, name string) error {
	v, err := h.value(name)
	if err != nil {
		return err
	}

	hash, err := h.store.PutValue(ctx, v)
	if err != nil {
		return err
	}
	got, err := h.store.GetValue(ctx, ir.NewPool(), hash)
	if err != nil {
		return err
	}
	if !got.Equal(v) || got.String() != v.String() {
		return &AssertionError{Expected: v.String(), Actual: got.String()}
	}
	return nil
}

func (h *Harness) assertRoutineRoundtrip(ctx context.Context, name string) error {
	r, ok := h.routines[name]
	if !ok {
		return fmt.Errorf("unknown routine %s", name)
	}

	unit, err := h.store.BeginUnit(ctx)
	if err != nil {
		return err
	}
	if err := h.store.PutRoutine(ctx, unit, r); err != nil {
		return err
	}
	got, err := h.store.Routines(ctx, ir.NewPool(), unit)
	if err != nil {
		return err
	}
	if len(got) != 1 || got[0].String() != r.String() {
		return &AssertionError{Expected: r.String(), Actual: fmt.Sprint(got)}
	}
	return nil
}
