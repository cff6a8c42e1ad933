package sims

import (
	"errors"
	"fmt"

	"github.com/reusee/cubes/cubelang"
)

var (
	ErrInvalidTransition = errors.New("invalid transition")
	ErrMalformed         = errors.New("malformed program")
)

// RuntimeError stops a run. Err is a *worlds.ActionError for rejected
// world operations, or a *ProgramError for ASTs that did not come from
// the parser and break its invariants.
type RuntimeError struct {
	Err       error
	Primitive cubelang.Primitive
	Pos       cubelang.Pos
	Stack     []Frame
}

func (e *RuntimeError) Error() string {
	if e.Primitive != 0 {
		return fmt.Sprintf("%s at %d:%d: %v", e.Primitive, e.Pos.Line, e.Pos.Column, e.Err)
	}
	return fmt.Sprintf("at %d:%d: %v", e.Pos.Line, e.Pos.Column, e.Err)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

type ProgramError struct {
	Message string
}

func (e *ProgramError) Error() string {
	return ErrMalformed.Error() + ": " + e.Message
}

func (e *ProgramError) Unwrap() error {
	return ErrMalformed
}

func malformed(format string, args ...any) *ProgramError {
	return &ProgramError{
		Message: fmt.Sprintf(format, args...),
	}
}
