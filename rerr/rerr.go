// Package rerr defines the error taxonomy spec.md §7 requires: a small
// set of kinds that let cmd/reat map a failure to an exit code and a
// diagnostic message without string-matching underlying errors.
package rerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind identifies which of the §7 error categories a failure belongs to.
type Kind int

const (
	// ConfigError covers invalid CLI values, missing files, and
	// contradictory options; surfaced before any work starts.
	ConfigError Kind = iota
	// IoError covers a failed open/read of a BAM, FASTA, BED, or GFF3 file.
	IoError
	// IndexMismatch covers disagreeing BAM headers across multiple files.
	IndexMismatch
	// DataError covers an unreadable record, e.g. a truncated BAM.
	DataError
	// LogicError covers an invariant violation; it exists to surface bugs.
	LogicError
)

func (k Kind) String() string {
	switch k {
	case ConfigError:
		return "config error"
	case IoError:
		return "io error"
	case IndexMismatch:
		return "index mismatch"
	case DataError:
		return "data error"
	case LogicError:
		return "logic error"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error pairs a Kind with an underlying, stack-carrying cause.
type Error struct {
	Kind  Kind
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Wrap attaches kind to err, adding message and a stack trace at this call
// site. Returns nil if err is nil.
func Wrap(err error, kind Kind, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, cause: errors.Wrap(err, message)}
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, kind Kind, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, cause: errors.Wrapf(err, format, args...)}
}

// New builds a fresh Error of the given kind, with a stack trace.
func New(kind Kind, message string) error {
	return &Error{Kind: kind, cause: errors.New(message)}
}

// Newf is New with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, cause: errors.Errorf(format, args...)}
}

// Is reports whether err (or anything it wraps) is an *Error of kind.
func Is(err error, kind Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			if e.Kind == kind {
				return true
			}
			err = e.cause
			continue
		}
		cause := errors.Cause(err)
		if cause == err {
			return false
		}
		err = cause
	}
	return false
}
