// Package failure defines the error kinds surfaced by a report run.
package failure

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind int

const (
	// NotFound means the input source does not exist.
	NotFound Kind = iota + 1
	// Parse means the input source is malformed.
	Parse
	// IO means the output directory or an output file could not be written.
	IO
	// Render means a chart could not be drawn from the record set.
	Render
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not found"
	case Parse:
		return "parse"
	case IO:
		return "io"
	case Render:
		return "render"
	default:
		return "unknown"
	}
}

// ErrMissingColumn indicates a chart references a column absent from the record set.
var ErrMissingColumn = errors.New("column not found")

// ErrDegenerate indicates fewer than two numeric columns are available for correlation.
var ErrDegenerate = errors.New("fewer than two numeric columns")

// Error carries the kind of a failure together with the operation and path involved.
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New wraps err with a kind, operation and optional path.
func New(kind Kind, op, path string, err error) *Error {
	return &Error{
		Kind: kind,
		Op:   op,
		Path: path,
		Err:  err,
	}
}

// KindOf returns the kind of the outermost *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return 0
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
