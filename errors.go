package tkb

import (
	"github.com/akeil/tkb/internal/errors"
)

// MissingParamError is returned when a URL or primary key is requested for a
// resource without all of the ancestor ids it is scoped to.
type MissingParamError = errors.MissingParamError

// APIError is a non-successful response from the annotation service.
type APIError = errors.APIError

// NewNotFound creates a new "not found" error.
func NewNotFound(s string, v ...interface{}) error {
	return errors.NewNotFound(s, v...)
}

// IsNotFound checks if the given error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.IsNotFound(err)
}

// NewValidationError creates an error of from the given format string.
func NewValidationError(msg string, v ...interface{}) error {
	return errors.NewValidationError(msg, v...)
}

// IsValidationError checks if the given error was caused by an invalid value.
func IsValidationError(err error) bool {
	return errors.IsValidationError(err)
}

// IsMissingParam checks if the given error is a MissingParamError.
func IsMissingParam(err error) bool {
	return errors.IsMissingParam(err)
}

// ErrorMessage returns the message that should be shown to a user for err.
// For errors returned by the service, this is the server's message.
func ErrorMessage(err error) string {
	return errors.Message(err)
}
