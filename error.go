package newsgrab

import (
	"errors"
	"fmt"
)

// Application error codes.
//
// These are meant to be generic and map to the cascade's failure taxonomy:
// EUNAVAILABLE marks transient network errors that may be retried within a
// strategy, EFORBIDDEN and ENOTFOUND mark fatal fetch errors that advance
// the cascade, EUNAUTHORIZED marks session renewal failures, EREFUSED marks
// a synthesis service that declined or produced an unusable selector, and
// ETIMEOUT marks a request deadline that terminates the cascade.
const (
	EINVALID      = "invalid"
	EINTERNAL     = "internal"
	ENOTFOUND     = "not_found"
	EUNAVAILABLE  = "unavailable"
	EFORBIDDEN    = "forbidden"
	EUNAUTHORIZED = "unauthorized"
	EREFUSED      = "refused"
	ETIMEOUT      = "timeout"
)

// Error represents an application-specific error. Errors can be unwrapped
// by the caller to extract the code and message.
type Error struct {
	// Machine-readable error code.
	Code string

	// Human-readable message.
	Message string
}

// Error implements the error interface. Not used by the application
// otherwise.
func (e *Error) Error() string {
	return fmt.Sprintf("newsgrab error: code=%s message=%s", e.Code, e.Message)
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// Errorf is a helper function to return an Error with a given code and
// formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}
