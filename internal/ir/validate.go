package ir

import (
	"errors"
	"fmt"
)

// ValidationCode categorizes ANF well-formedness errors.
type ValidationCode string

const (
	// ErrCodeUnboundLocal indicates a Local used before any binding or
	// parameter produced it.
	ErrCodeUnboundLocal ValidationCode = "UNBOUND_LOCAL"

	// ErrCodeDuplicateLocal indicates a Local produced twice.
	ErrCodeDuplicateLocal ValidationCode = "DUPLICATE_LOCAL"

	// ErrCodeInvalidOperand indicates a missing expression or operand.
	ErrCodeInvalidOperand ValidationCode = "INVALID_OPERAND"
)

// ValidationError reports the first violation of the ANF discipline found
// in a body.
type ValidationError struct {
	Code ValidationCode

	// Binding is the index of the offending binding, or -1 for the result
	// or the parameter list.
	Binding int

	Local   Local
	Message string
}

func (e *ValidationError) Error() string {
	if e.Binding >= 0 {
		return fmt.Sprintf("%s: binding %d: %s", e.Code, e.Binding, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Validate checks that the body is in A-normal form given the parameters
// that are bound on entry: every referenced Local must have been produced
// earlier, and no Local may be produced twice.
func (a Anf) Validate(params ...Local) error {
	bound := make(map[Local]bool, len(params)+len(a.Bindings))
	for _, p := range params {
		if bound[p] {
			return &ValidationError{
				Code:    ErrCodeDuplicateLocal,
				Binding: -1,
				Local:   p,
				Message: fmt.Sprintf("parameter %s declared twice", p),
			}
		}
		bound[p] = true
	}

	for i, b := range a.Bindings {
		if err := checkComplex(b.Expression, bound, i); err != nil {
			return err
		}
		if bound[b.Result] {
			return &ValidationError{
				Code:    ErrCodeDuplicateLocal,
				Binding: i,
				Local:   b.Result,
				Message: fmt.Sprintf("%s is already bound", b.Result),
			}
		}
		bound[b.Result] = true
	}

	return checkSimple(a.Result, bound, -1)
}

// Validate checks the routine body against its parameter list.
func (r Routine) Validate() error {
	if err := r.Body.Validate(r.Parameters...); err != nil {
		return fmt.Errorf("routine %s: %w", r.Name, err)
	}
	return nil
}

func checkComplex(c Complex, bound map[Local]bool, index int) error {
	switch c := c.(type) {
	case CallRoutine:
		for _, arg := range c.Arguments {
			if err := checkSimple(arg, bound, index); err != nil {
				return err
			}
		}
		return nil
	case nil:
		return &ValidationError{Code: ErrCodeInvalidOperand, Binding: index, Message: "missing expression"}
	default:
		return &ValidationError{Code: ErrCodeInvalidOperand, Binding: index, Message: fmt.Sprintf("unknown expression %T", c)}
	}
}

func checkSimple(s Simple, bound map[Local]bool, index int) error {
	switch s := s.(type) {
	case Local:
		if !bound[s] {
			return &ValidationError{
				Code:    ErrCodeUnboundLocal,
				Binding: index,
				Local:   s,
				Message: fmt.Sprintf("%s is used before it is bound", s),
			}
		}
		return nil
	case Quote:
		if s.Value == nil {
			return &ValidationError{Code: ErrCodeInvalidOperand, Binding: index, Message: "quote of nil value"}
		}
		return nil
	case nil:
		return &ValidationError{Code: ErrCodeInvalidOperand, Binding: index, Message: "missing operand"}
	default:
		return &ValidationError{Code: ErrCodeInvalidOperand, Binding: index, Message: fmt.Sprintf("unknown operand %T", s)}
	}
}
