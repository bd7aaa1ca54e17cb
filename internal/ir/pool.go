package ir

import (
	"fmt"

	"github.com/roach88/petrolc/internal/arena"
)

// Pool owns the memory of one compilation unit.
//
// It has two independent allocation areas: one for values (nodes, child
// slices and byte payloads) and one for finished ANF (binding sequences,
// call arguments and routine parameters). Nothing is ever freed
// individually; the pool and everything allocated from it go away together.
//
// Running out of memory while growing a pool is fatal. A Pool must not be
// used from more than one goroutine without external synchronization.
type Pool struct {
	values   *arena.Region[Value]
	children *arena.Region[*Value]
	bytes    *arena.Region[byte]

	bindings  *arena.Region[Binding]
	arguments *arena.Region[Simple]
	locals    *arena.Region[Local]

	nilValue *Value
}

// PoolStats reports how many slots each region of a pool has handed out.
type PoolStats struct {
	Values    int `json:"values"`
	Children  int `json:"children"`
	Bytes     int `json:"bytes"`
	Bindings  int `json:"bindings"`
	Arguments int `json:"arguments"`
	Locals    int `json:"locals"`
}

// NewPool creates an empty pool.
func NewPool() *Pool {
	return &Pool{
		values:    arena.NewRegion[Value](arena.DefaultChunkSize),
		children:  arena.NewRegion[*Value](arena.DefaultChunkSize * 2),
		bytes:     arena.NewRegion[byte](4096),
		bindings:  arena.NewRegion[Binding](arena.DefaultChunkSize),
		arguments: arena.NewRegion[Simple](arena.DefaultChunkSize),
		locals:    arena.NewRegion[Local](64),
	}
}

// NewValue allocates a value. children and data are copied into the pool,
// so the caller may reuse its slices afterwards. Every child must be
// non-nil.
func (p *Pool) NewValue(pos Position, tag Tag, children []*Value, data []byte) *Value {
	for i, c := range children {
		if c == nil {
			panic(fmt.Sprintf("ir: child %d of %s value is nil", i, tag))
		}
	}
	v := p.values.New()
	v.pos = pos
	v.tag = tag
	v.children = p.AllocChildren(children)
	v.bytes = p.AllocBytes(data)
	return v
}

// AllocBytes copies data into the pool.
func (p *Pool) AllocBytes(data []byte) []byte {
	return p.bytes.Copy(data)
}

// AllocChildren copies a child list into the pool.
func (p *Pool) AllocChildren(children []*Value) []*Value {
	return p.children.Copy(children)
}

// AllocBindings moves a finished binding sequence into the pool.
func (p *Pool) AllocBindings(bindings []Binding) []Binding {
	return p.bindings.Copy(bindings)
}

// AllocArguments copies call arguments into the pool.
func (p *Pool) AllocArguments(args []Simple) []Simple {
	return p.arguments.Copy(args)
}

// AllocLocals copies a parameter list into the pool.
func (p *Pool) AllocLocals(locals []Local) []Local {
	return p.locals.Copy(locals)
}

// Atom allocates an atom with the given name and no position.
func (p *Pool) Atom(name string) *Value {
	return p.AtomAt(Position{}, name)
}

// AtomAt allocates an atom at a source position.
func (p *Pool) AtomAt(pos Position, name string) *Value {
	return p.NewValue(pos, TagAtom, nil, []byte(name))
}

// Nil returns the pool's shared empty list. All positionless nils of a pool
// are the same node.
func (p *Pool) Nil() *Value {
	if p.nilValue == nil {
		p.nilValue = p.NewValue(Position{}, TagNil, nil, nil)
	}
	return p.nilValue
}

// Cons allocates a list cell.
func (p *Pool) Cons(head, tail *Value) *Value {
	return p.NewValue(Position{}, TagCons, []*Value{head, tail}, nil)
}

// List allocates a proper list of elems, terminated by nil.
func (p *Pool) List(elems ...*Value) *Value {
	list := p.Nil()
	for i := len(elems) - 1; i >= 0; i-- {
		list = p.Cons(elems[i], list)
	}
	return list
}

// Stats returns allocation counts for logging.
func (p *Pool) Stats() PoolStats {
	return PoolStats{
		Values:    p.values.Len(),
		Children:  p.children.Len(),
		Bytes:     p.bytes.Len(),
		Bindings:  p.bindings.Len(),
		Arguments: p.arguments.Len(),
		Locals:    p.locals.Len(),
	}
}
