// Package failure defines the closed set of error kinds the prediction
// pipeline can report. Components wrap their errors in *Error so the boundary
// (HTTP handlers, CLI) can map a kind to a user-facing message.
package failure

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindNotFound       Kind = "not_found"
	KindLoad           Kind = "load_error"
	KindDecode         Kind = "decode_error"
	KindInference      Kind = "inference_error"
	KindInvalidRequest Kind = "invalid_request"
)

type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func NotFound(op string, format string, args ...any) *Error {
	return New(KindNotFound, op, fmt.Errorf(format, args...))
}

// KindOf reports the kind of the first *Error in err's chain. Errors that do
// not carry a kind are reported as inference errors so nothing unclassified
// reaches a caller.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindInference
}

func Is(err error, kind Kind) bool {
	var fe *Error
	return errors.As(err, &fe) && fe.Kind == kind
}
