// Package errors defines the coded errors returned across Brickyard.
//
// Engine operations whose preconditions are unmet (no selection, unknown
// brick type) are silent no-ops and never produce an *Error. Coded errors are
// reserved for persistence, configuration and input that crosses a process
// boundary, where callers need to tell "nothing saved yet" from "saved data
// is corrupt" from "the backend is down".
//
// Codes are grouped by prefix: INVALID_* for rejected input, NOT_FOUND and
// *_NOT_FOUND for missing resources, STORAGE_ERROR for backend I/O.
//
//	err := errors.Wrap(errors.ErrCodeStorage, cause, "write build %s", key)
//	if errors.Is(err, errors.ErrCodeStorage) {
//	    // retry later
//	}
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code is a machine-readable error code. HTTP responses carry it verbatim.
type Code string

const (
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"
	ErrCodeInvalidCatalog Code = "INVALID_CATALOG"
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"
	ErrCodeInvalidColor   Code = "INVALID_COLOR"
	ErrCodeInvalidKey     Code = "INVALID_KEY"
	ErrCodeInvalidPath    Code = "INVALID_PATH"

	// ErrCodeConfirmationRequired marks a destructive action the caller did
	// not confirm.
	ErrCodeConfirmationRequired Code = "CONFIRMATION_REQUIRED"

	ErrCodeNotFound      Code = "NOT_FOUND"
	ErrCodeSceneNotFound Code = "SCENE_NOT_FOUND"
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"

	ErrCodeStorage Code = "STORAGE_ERROR"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// IsInvalid reports whether c is one of the INVALID_* codes.
func (c Code) IsInvalid() bool { return strings.HasPrefix(string(c), "INVALID_") }

// IsNotFound reports whether c names a missing resource.
func (c Code) IsNotFound() bool {
	return c == ErrCodeNotFound || strings.HasSuffix(string(c), "_NOT_FOUND")
}

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an *Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an *Error with a formatted message around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether any *Error in err's chain carries code. A STORAGE_ERROR
// wrapping an INVALID_KEY matches both codes.
func Is(err error, code Code) bool {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Code == code {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the outermost *Error's message without code or cause,
// or err.Error() for other errors.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
