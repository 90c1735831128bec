package hierarchy

import (
	"errors"
	"fmt"
)

// Kind classifies an engine failure so the HTTP layer can map it to a status
// code without string matching.
type Kind int

const (
	// KindNotFound covers records that do not exist, are trashed when a live
	// record is required, or belong to a different owner. Ownership mismatch
	// is deliberately indistinguishable from nonexistence.
	KindNotFound Kind = iota + 1
	// KindConflict is a sibling-name collision at create/move/restore time.
	KindConflict
	// KindInvalidOperation is a structurally disallowed transition: a cyclic
	// move, deleting a non-empty folder, purging a record that is not in the
	// trash, or restoring one that is not.
	KindInvalidOperation
	// KindValidation is malformed input, rejected before any store access.
	KindValidation
	// KindDependency means the object store call failed. The database side of
	// the mutation may already have committed.
	KindDependency
)

// Error is the typed failure every mutating operation returns.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the Kind from err, or 0 when err carries none.
func KindOf(err error) Kind {
	var he *Error
	if errors.As(err, &he) {
		return he.Kind
	}
	return 0
}

func notFound(format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

func conflict(format string, args ...interface{}) error {
	return &Error{Kind: KindConflict, Msg: fmt.Sprintf(format, args...)}
}

func invalidOp(format string, args ...interface{}) error {
	return &Error{Kind: KindInvalidOperation, Msg: fmt.Sprintf(format, args...)}
}

func validation(format string, args ...interface{}) error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func dependency(msg string, err error) error {
	return &Error{Kind: KindDependency, Msg: msg, Err: err}
}
