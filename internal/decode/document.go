package decode

import (
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/petrolc/internal/ir"
)

// Named is one top-level value of a document.
type Named struct {
	Name  string
	Value *ir.Value
}

// Document is a decoded value document. Values keep their order of
// appearance.
type Document struct {
	File   string
	Values []Named
	index  map[string]*ir.Value
}

func newDocument(file string) *Document {
	return &Document{File: file, index: make(map[string]*ir.Value)}
}

// Lookup returns the value with the given name.
func (d *Document) Lookup(name string) (*ir.Value, bool) {
	v, ok := d.index[name]
	return v, ok
}

func (d *Document) add(name string, v *ir.Value, pos ir.Position) error {
	if _, dup := d.index[name]; dup {
		return &DecodeError{Code: ErrCodeDuplicate, Message: "value " + name + " is defined twice", File: d.File, Pos: pos}
	}
	d.index[name] = v
	d.Values = append(d.Values, Named{Name: name, Value: v})
	return nil
}

// DecodeFile reads a document from disk, choosing the format by extension
// (.yaml, .yml or .cue).
func DecodeFile(p *ir.Pool, path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return DecodeYAML(p, path, data)
	case ".cue":
		return DecodeCUE(p, path, data)
	default:
		return nil, &DecodeError{Code: ErrCodeUnsupported, Message: "expected a .yaml, .yml or .cue file", File: path}
	}
}

// atomName normalizes an atom name so that canonically equivalent
// spellings produce the same bytes (and therefore the same hash).
func atomName(s string) string {
	return norm.NFC.String(s)
}

// list allocates a proper list. The first cell carries the position of the
// list itself; later cells carry the position of their element.
func list(p *ir.Pool, pos ir.Position, elems []*ir.Value) *ir.Value {
	v := p.Nil()
	for i := len(elems) - 1; i >= 0; i-- {
		cellPos := elems[i].Position()
		if i == 0 {
			cellPos = pos
		}
		v = p.NewValue(cellPos, ir.TagCons, []*ir.Value{elems[i], v}, nil)
	}
	return v
}

func nilAt(p *ir.Pool, pos ir.Position) *ir.Value {
	if !pos.IsValid() {
		return p.Nil()
	}
	return p.NewValue(pos, ir.TagNil, nil, nil)
}
