package decode

import (
	"errors"
	"fmt"

	cueerrors "cuelang.org/go/cue/errors"

	"github.com/roach88/petrolc/internal/ir"
)

// ErrorCode categorizes decode errors.
type ErrorCode string

const (
	// ErrCodeSyntax indicates the document is not valid YAML or CUE.
	ErrCodeSyntax ErrorCode = "SYNTAX"

	// ErrCodeShape indicates a value that does not follow the document shape.
	ErrCodeShape ErrorCode = "INVALID_SHAPE"

	// ErrCodeTag indicates a tag that is not exactly four bytes.
	ErrCodeTag ErrorCode = "INVALID_TAG"

	// ErrCodeDuplicate indicates two top-level values with the same name.
	ErrCodeDuplicate ErrorCode = "DUPLICATE_NAME"

	// ErrCodeUnsupported indicates a file extension with no decoder.
	ErrCodeUnsupported ErrorCode = "UNSUPPORTED_FORMAT"
)

// DecodeError is a decode failure with the position it was found at.
type DecodeError struct {
	Code    ErrorCode
	Message string
	File    string
	Pos     ir.Position
}

func (e *DecodeError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.File, e.Pos.Line, e.Pos.Column, e.Code, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("%s: %s: %s", e.File, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsDecodeError reports whether err is (or wraps) a DecodeError.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(file string, err error) error {
	if err == nil {
		return nil
	}

	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &DecodeError{Code: ErrCodeSyntax, Message: err.Error(), File: file}
	}

	first := errs[0]
	de := &DecodeError{Code: ErrCodeSyntax, Message: first.Error(), File: file}
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		de.Pos = ir.Position{Line: uint32(positions[0].Line()), Column: uint32(positions[0].Column())}
	}
	return de
}
