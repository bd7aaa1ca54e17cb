package ir

import "fmt"

// Position is a source position. It is informational only and never
// affects a value's hash.
//
// Lines and columns are 1-based; the zero Position means "unknown".
type Position struct {
	Line   uint32 `json:"line"`
	Column uint32 `json:"column"`
}

// IsValid reports whether the position is known.
func (p Position) IsValid() bool {
	return p.Line > 0
}

func (p Position) String() string {
	if !p.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Compare orders positions by line, then column.
func (p Position) Compare(q Position) int {
	switch {
	case p.Line < q.Line:
		return -1
	case p.Line > q.Line:
		return 1
	case p.Column < q.Column:
		return -1
	case p.Column > q.Column:
		return 1
	}
	return 0
}
