// Package failure defines the closed set of failure reasons reported by the
// character pipeline. Callers branch on the code, not on message text.
package failure

import "errors"

// Code is a machine-readable failure reason.
type Code string

const (
	// MalformedInput means the document could not be parsed or has no
	// character root.
	MalformedInput Code = "malformed_input"
	// MissingSection means a section the operation needs is absent.
	MissingSection Code = "missing_section"
	// NumericParseFailure means a value that must be a number is not one.
	NumericParseFailure Code = "numeric_parse_failure"
)

var (
	ErrMalformedInput = &Error{Code: MalformedInput, Message: "malformed input"}
	ErrMissingSection = &Error{Code: MissingSection, Message: "missing section"}
	ErrNumericParse   = &Error{Code: NumericParseFailure, Message: "numeric parse failure"}
)

// Error is a pipeline failure with a code and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error with the same code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) Code {
	var target *Error
	if errors.As(err, &target) {
		return target.Code
	}
	return ""
}
