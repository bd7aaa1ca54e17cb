package decode

import (
	"fmt"
	"strconv"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/petrolc/internal/ir"
)

// DecodeCUE decodes a CUE value document. Uses the CUE SDK's Go API
// directly (not a CLI subprocess). The document must be concrete.
func DecodeCUE(p *ir.Pool, file string, data []byte) (*Document, error) {
	ctx := cuecontext.New()
	root := ctx.CompileBytes(data, cue.Filename(file))
	if err := root.Err(); err != nil {
		return nil, formatCUEError(file, err)
	}
	if err := root.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(file, err)
	}
	return DecodeCUEValue(p, file, root)
}

// DecodeCUEValue decodes a CUE struct of names to values.
func DecodeCUEValue(p *ir.Pool, file string, root cue.Value) (*Document, error) {
	d := &cueDecoder{pool: p, file: file}
	if root.Kind() != cue.StructKind {
		return nil, d.errorf(root, ErrCodeShape, "top level must map names to values")
	}

	iter, err := root.Fields()
	if err != nil {
		return nil, formatCUEError(file, err)
	}

	doc := newDocument(file)
	for iter.Next() {
		v, err := d.decode(iter.Value())
		if err != nil {
			return nil, err
		}
		if err := doc.add(iter.Label(), v, cuePos(iter.Value())); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

type cueDecoder struct {
	pool *ir.Pool
	file string
}

func cuePos(v cue.Value) ir.Position {
	pos := v.Pos()
	if !pos.IsValid() {
		return ir.Position{}
	}
	return ir.Position{Line: uint32(pos.Line()), Column: uint32(pos.Column())}
}

func (d *cueDecoder) errorf(v cue.Value, code ErrorCode, format string, args ...any) error {
	return &DecodeError{Code: code, Message: fmt.Sprintf(format, args...), File: d.file, Pos: cuePos(v)}
}

func (d *cueDecoder) decode(v cue.Value) (*ir.Value, error) {
	pos := cuePos(v)

	switch v.Kind() {
	case cue.NullKind:
		return nilAt(d.pool, pos), nil

	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return nil, formatCUEError(d.file, err)
		}
		return d.pool.AtomAt(pos, atomName(s)), nil

	case cue.IntKind:
		n, err := v.Int64()
		if err != nil {
			return nil, formatCUEError(d.file, err)
		}
		return d.pool.AtomAt(pos, strconv.FormatInt(n, 10)), nil

	case cue.BoolKind:
		b, err := v.Bool()
		if err != nil {
			return nil, formatCUEError(d.file, err)
		}
		return d.pool.AtomAt(pos, strconv.FormatBool(b)), nil

	case cue.ListKind:
		elems, err := d.decodeList(v)
		if err != nil {
			return nil, err
		}
		return list(d.pool, pos, elems), nil

	case cue.StructKind:
		return d.decodeStruct(v)

	default:
		return nil, d.errorf(v, ErrCodeShape, "unsupported %s value", v.Kind())
	}
}

func (d *cueDecoder) decodeList(v cue.Value) ([]*ir.Value, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(d.file, err)
	}
	var elems []*ir.Value
	for iter.Next() {
		e, err := d.decode(iter.Value())
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}
	return elems, nil
}

func (d *cueDecoder) decodeStruct(v cue.Value) (*ir.Value, error) {
	iter, err := v.Fields()
	if err != nil {
		return nil, formatCUEError(d.file, err)
	}
	fields := make(map[string]cue.Value)
	for iter.Next() {
		if !mappingKeys[iter.Label()] {
			return nil, d.errorf(iter.Value(), ErrCodeShape, "unknown key %q (want tag, children, bytes or cons)", iter.Label())
		}
		fields[iter.Label()] = iter.Value()
	}

	if cell, ok := fields["cons"]; ok {
		if len(fields) != 1 {
			return nil, d.errorf(v, ErrCodeShape, "cons cannot be combined with other keys")
		}
		if cell.Kind() != cue.ListKind {
			return nil, d.errorf(cell, ErrCodeShape, "cons needs exactly [head, tail]")
		}
		parts, err := d.decodeList(cell)
		if err != nil {
			return nil, err
		}
		if len(parts) != 2 {
			return nil, d.errorf(cell, ErrCodeShape, "cons needs exactly [head, tail]")
		}
		return d.pool.NewValue(cuePos(v), ir.TagCons, parts, nil), nil
	}

	tagVal, ok := fields["tag"]
	if !ok {
		return nil, d.errorf(v, ErrCodeShape, "struct needs a tag or cons field")
	}
	tagStr, err := tagVal.String()
	if err != nil {
		return nil, d.errorf(tagVal, ErrCodeTag, "tag must be a string")
	}
	tag, err := ir.ParseTag(tagStr)
	if err != nil {
		return nil, d.errorf(tagVal, ErrCodeTag, "%v", err)
	}

	var children []*ir.Value
	if c, ok := fields["children"]; ok {
		if c.Kind() != cue.ListKind {
			return nil, d.errorf(c, ErrCodeShape, "children must be a list")
		}
		children, err = d.decodeList(c)
		if err != nil {
			return nil, err
		}
	}

	var data []byte
	if b, ok := fields["bytes"]; ok {
		switch b.Kind() {
		case cue.StringKind:
			s, _ := b.String()
			data = []byte(s)
		case cue.BytesKind:
			data, err = b.Bytes()
			if err != nil {
				return nil, formatCUEError(d.file, err)
			}
		default:
			return nil, d.errorf(b, ErrCodeShape, "bytes must be a string or bytes literal")
		}
	}

	return d.pool.NewValue(cuePos(v), tag, children, data), nil
}
