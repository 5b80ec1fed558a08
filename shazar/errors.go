package shazar

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
)

// Kind classifies packaging failures.
type Kind int

const (
	// IO is a failed read, write, hash or rename.
	IO Kind = iota
	// NotFound means the source or the output directory does not exist.
	NotFound
	// PermissionDenied means a path could not be read or the output directory is not writable.
	PermissionDenied
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not found"
	case PermissionDenied:
		return "permission denied"
	default:
		return "i/o error"
	}
}

// Error is returned by every failed packaging operation.
type Error struct {
	Kind  Kind
	State State // State the packager was in when it failed
	Op    string
	Path  string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("cannot %s: %v", e.Op, e.Err)
}

func (e *Error) Cause() error  { return e.Err }
func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of a packaging error, IO for any other error.
func KindOf(err error) Kind {
	if e := asError(err); e != nil {
		return e.Kind
	}
	return IO
}

// IsNotFound reports whether err is a packaging NotFound error.
func IsNotFound(err error) bool {
	return asError(err) != nil && asError(err).Kind == NotFound
}

// IsPermission reports whether err is a packaging PermissionDenied error.
func IsPermission(err error) bool {
	return asError(err) != nil && asError(err).Kind == PermissionDenied
}

func asError(err error) *Error {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e
		}
		c, ok := err.(interface{ Cause() error })
		if !ok {
			return nil
		}
		err = c.Cause()
	}
	return nil
}

// classify maps os errors onto a Kind, using fallback when nothing matches.
func classify(err error, fallback Kind) Kind {
	switch {
	case os.IsPermission(errors.Cause(err)):
		return PermissionDenied
	case os.IsNotExist(errors.Cause(err)) && fallback == NotFound:
		return NotFound
	}
	return fallback
}
