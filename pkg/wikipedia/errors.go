package wikipedia

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a lookup produced no result.
type ErrorKind int

const (
	// KindNotFound means the upstream answered but had nothing usable.
	KindNotFound ErrorKind = iota + 1
	// KindTransport covers network errors, timeouts and cancellation.
	KindTransport
	// KindParse means the upstream body was not the expected JSON.
	KindParse
	// KindInvalidInput means a required argument was blank.
	KindInvalidInput
)

// Sentinels for errors.Is checks against *Error.
var (
	ErrNotFound     = errors.New("wikipedia: not found")
	ErrTransport    = errors.New("wikipedia: transport failure")
	ErrParse        = errors.New("wikipedia: malformed response")
	ErrInvalidInput = errors.New("wikipedia: invalid input")
)

// String returns the lower-case name of the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindTransport:
		return "transport"
	case KindParse:
		return "parse"
	case KindInvalidInput:
		return "invalid_input"
	default:
		return "unknown"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindNotFound:
		return ErrNotFound
	case KindTransport:
		return ErrTransport
	case KindParse:
		return ErrParse
	case KindInvalidInput:
		return ErrInvalidInput
	default:
		return nil
	}
}

// Error describes an absent lookup result.
type Error struct {
	// Op is the lookup that failed: "search", "sections", "section_content".
	Op string
	// Kind is the failure class.
	Kind ErrorKind
	// Status is the upstream HTTP status, when one was received.
	Status int
	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("wikipedia %s: %s", e.Op, e.Kind)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// KindOf returns the ErrorKind of err, or 0 if err is not an *Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func newError(op string, kind ErrorKind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}
