// Package apperrors classifies failures of the auth and data endpoints.
// Handlers turn any of them into {"error": message} with the status of
// its Code.
package apperrors

import "errors"

// Error carries the message a client sees and, for internal failures,
// the cause that only reaches the log.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is(err, apperrors.Conflict("")) match any conflict,
// whatever its message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap keeps cause for logging while the client only sees message.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

func Validation(message string) *Error   { return New(CodeValidation, message) }
func Conflict(message string) *Error     { return New(CodeConflict, message) }
func Unauthorized(message string) *Error { return New(CodeUnauthorized, message) }
func NotFound(message string) *Error     { return New(CodeNotFound, message) }

func MethodNotAllowed() *Error {
	return New(CodeMethodNotAllowed, "Method not allowed")
}

func Configuration(message string) *Error {
	return New(CodeConfiguration, message)
}

// CodeOf reports CodeInternal for errors that were never classified, such
// as a failed query.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}
