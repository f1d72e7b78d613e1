package wishlist

import "fmt"

// Code classifies client-visible failures. Server codes pass through
// unchanged; CodeNetwork and CodeHTTP are synthesized by the client.
type Code string

const (
	CodeNetwork      Code = "NETWORK_ERROR"
	CodeValidation   Code = "VALIDATION_ERROR"
	CodeBookNotFound Code = "BOOK_NOT_FOUND"
	CodeTagNotFound  Code = "TAG_NOT_FOUND"
	CodeConflict     Code = "CONFLICT"
	CodeDatabase     Code = "DATABASE_ERROR"
	CodeHTTP         Code = "HTTP_ERROR"
	CodeInternal     Code = "INTERNAL_ERROR"
)

// Error is the client error type. Every failure surfaced by this package is
// an *Error.
type Error struct {
	Code    Code
	Message string
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return string(e.Code)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches errors by code so callers can use errors.Is with a bare
// &Error{Code: ...} target.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func newError(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// humanMessages maps error codes to the user-facing text shown in
// notifications when the server's own message is unavailable.
var humanMessages = map[Code]string{
	CodeNetwork:      "Could not reach the server. Check your connection and try again.",
	CodeValidation:   "Some fields are invalid. Please review and try again.",
	CodeBookNotFound: "That book no longer exists.",
	CodeTagNotFound:  "That tag no longer exists.",
	CodeConflict:     "This change conflicts with an existing entry.",
	CodeDatabase:     "The server had trouble saving your change. Try again shortly.",
	CodeHTTP:         "The server returned an unexpected response.",
	CodeInternal:     "Something went wrong on the server.",
}

// HumanMessage returns friendly text for an error. Non-wishlist errors fall
// back to the internal-error message.
func HumanMessage(err error) string {
	if e, ok := err.(*Error); ok {
		if msg, ok := humanMessages[e.Code]; ok {
			return msg
		}
	}
	return humanMessages[CodeInternal]
}
