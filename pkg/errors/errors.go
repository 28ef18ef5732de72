package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error, kept HTTP-status-aware for parity
// with callers that embed the engine behind a web surface even though this
// repository does not expose one itself.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors, following the taxonomy in spec §7.
var (
	// ErrInput covers malformed input and referential violations (a student
	// requiring a course id that doesn't exist). The engine never starts a
	// solve once this is raised.
	ErrInput = New("INPUT_ERROR", http.StatusBadRequest, "invalid scheduling input")

	// ErrSolverFailure marks a non-feasible/errored MIP solve. It is always
	// recovered locally by the greedy fallback (§4.4.2); engine callers only
	// see it recorded in Schedule metadata, never returned.
	ErrSolverFailure = New("SOLVER_FAILURE", http.StatusInternalServerError, "ilp solver could not produce a feasible solution")

	// ErrInternal marks a violated invariant (e.g. a section with a teacher
	// unqualified for its course after SectionFactory returns). Always fatal.
	ErrInternal = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal scheduling engine error")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
