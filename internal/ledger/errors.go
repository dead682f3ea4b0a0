package ledger

import (
	"errors"
	"fmt"
)

// Kind classifies a ledger failure for the transport layer.
type Kind string

const (
	KindNotFound       Kind = "not_found"
	KindConflict       Kind = "conflict"
	KindStorageFailure Kind = "storage_failure"
)

// Sentinels reported by Store implementations.
var (
	ErrNotFound = errors.New("ride not found")
	ErrConflict = errors.New("booking id already exists")
)

// Error is returned by every Ledger operation.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind carried by err, or KindStorageFailure for errors
// that did not come from the ledger.
func KindOf(err error) Kind {
	var le *Error
	if errors.As(err, &le) {
		return le.Kind
	}
	return KindStorageFailure
}

func wrap(op string, err error) error {
	kind := KindStorageFailure
	switch {
	case errors.Is(err, ErrNotFound):
		kind = KindNotFound
	case errors.Is(err, ErrConflict):
		kind = KindConflict
	}
	return &Error{Kind: kind, Op: op, Err: err}
}
