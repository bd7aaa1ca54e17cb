package store

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/roach88/petrolc/internal/ir"
)

// encMode produces canonical CBOR so that equal records are equal bytes.
var encMode = func() cbor.EncMode {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("cbor enc mode: %v", err))
	}
	return em
}()

// nodeRecord is the stored form of one value node.
type nodeRecord struct {
	Tag      []byte   `cbor:"1,keyasint"`
	Children [][]byte `cbor:"2,keyasint,omitempty"`
	Bytes    []byte   `cbor:"3,keyasint,omitempty"`
}

// operandRecord is a Simple: exactly one of Local or Quote is set.
type operandRecord struct {
	Local *uint64 `cbor:"1,keyasint,omitempty"`
	Quote []byte  `cbor:"2,keyasint,omitempty"`
}

type bindingRecord struct {
	Result    uint64          `cbor:"1,keyasint"`
	Routine   string          `cbor:"2,keyasint"`
	Arguments []operandRecord `cbor:"3,keyasint,omitempty"`
}

// routineRecord is the stored form of a finished routine.
type routineRecord struct {
	Name       string          `cbor:"1,keyasint"`
	Parameters []uint64        `cbor:"2,keyasint,omitempty"`
	Bindings   []bindingRecord `cbor:"3,keyasint,omitempty"`
	Result     operandRecord   `cbor:"4,keyasint"`
}

func encodeNode(v *ir.Value) ([]byte, error) {
	tag := v.Tag()
	rec := nodeRecord{Tag: tag[:], Bytes: v.Bytes()}
	for _, c := range v.Children() {
		h := c.Hash()
		rec.Children = append(rec.Children, h[:])
	}
	return encMode.Marshal(rec)
}

func decodeNode(data []byte) (nodeRecord, error) {
	var rec nodeRecord
	if err := cbor.Unmarshal(data, &rec); err != nil {
		return nodeRecord{}, fmt.Errorf("%w: node: %v", ErrCorrupt, err)
	}
	if len(rec.Tag) != len(ir.Tag{}) {
		return nodeRecord{}, fmt.Errorf("%w: node tag has %d bytes", ErrCorrupt, len(rec.Tag))
	}
	for _, c := range rec.Children {
		if len(c) != ir.HashSize {
			return nodeRecord{}, fmt.Errorf("%w: child hash has %d bytes", ErrCorrupt, len(c))
		}
	}
	return rec, nil
}

func hashFromBytes(b []byte) (ir.Hash, error) {
	var h ir.Hash
	if len(b) != ir.HashSize {
		return h, fmt.Errorf("%w: hash has %d bytes", ErrCorrupt, len(b))
	}
	copy(h[:], b)
	return h, nil
}

// encodeOperand converts a Simple into its record. Quoted values must
// already be stored.
func encodeOperand(s ir.Simple) (operandRecord, error) {
	switch op := s.(type) {
	case ir.Local:
		n := uint64(op)
		return operandRecord{Local: &n}, nil
	case ir.Quote:
		if op.Value == nil {
			return operandRecord{}, fmt.Errorf("quote of nil value")
		}
		h := op.Value.Hash()
		return operandRecord{Quote: h[:]}, nil
	default:
		return operandRecord{}, fmt.Errorf("unsupported operand %T", s)
	}
}

func encodeRoutine(r ir.Routine) ([]byte, error) {
	rec := routineRecord{Name: string(r.Name)}
	for _, p := range r.Parameters {
		rec.Parameters = append(rec.Parameters, uint64(p))
	}
	for _, b := range r.Body.Bindings {
		call, ok := b.Expression.(ir.CallRoutine)
		if !ok {
			return nil, fmt.Errorf("binding %%%d: unsupported expression %T", b.Result, b.Expression)
		}
		br := bindingRecord{Result: uint64(b.Result), Routine: string(call.Routine)}
		for _, a := range call.Arguments {
			op, err := encodeOperand(a)
			if err != nil {
				return nil, fmt.Errorf("binding %%%d: %w", b.Result, err)
			}
			br.Arguments = append(br.Arguments, op)
		}
		rec.Bindings = append(rec.Bindings, br)
	}
	result, err := encodeOperand(r.Body.Result)
	if err != nil {
		return nil, fmt.Errorf("result: %w", err)
	}
	rec.Result = result
	return encMode.Marshal(rec)
}

func decodeRoutine(data []byte) (routineRecord, error) {
	var rec routineRecord
	if err := cbor.Unmarshal(data, &rec); err != nil {
		return routineRecord{}, fmt.Errorf("%w: routine: %v", ErrCorrupt, err)
	}
	return rec, nil
}
