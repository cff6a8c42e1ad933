package worlds

import (
	"errors"
	"fmt"
)

var (
	ErrBlocked         = errors.New("blocked")
	ErrNothingToRemove = errors.New("nothing to remove")
	ErrOccupied        = errors.New("cell occupied")
	ErrOutOfBounds     = errors.New("out of bounds")
	ErrNegativeCount   = errors.New("negative count")
)

// ErrorKind identifies one of the sentinel errors. ActionError stores the
// kind rather than the error value so it stays gob encodable.
type ErrorKind uint8

const (
	KindBlocked ErrorKind = iota + 1
	KindNothingToRemove
	KindOccupied
	KindOutOfBounds
	KindNegativeCount
)

var kindErrors = map[ErrorKind]error{
	KindBlocked:         ErrBlocked,
	KindNothingToRemove: ErrNothingToRemove,
	KindOccupied:        ErrOccupied,
	KindOutOfBounds:     ErrOutOfBounds,
	KindNegativeCount:   ErrNegativeCount,
}

func (k ErrorKind) Err() error {
	if err, ok := kindErrors[k]; ok {
		return err
	}
	return fmt.Errorf("unknown error kind %d", k)
}

// ActionError reports a rejected world operation and the cell that
// caused it.
type ActionError struct {
	Op   string
	At   Vec
	Kind ErrorKind
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s: %s at %s", e.Op, e.Kind.Err(), e.At)
}

func (e *ActionError) Unwrap() error {
	return e.Kind.Err()
}
