package errors

import (
	"encoding/json"
	e "errors"
	"fmt"
	"net/http"
	"strings"
)

// Wrap wraps an error by prepending additional text.
// The text can contain formatting parameters.
func Wrap(err error, msg string, v ...interface{}) error {
	msg = fmt.Sprintf(msg, v...)
	return fmt.Errorf("%v: %w", msg, err)
}

type notFound struct {
	message string
}

// NewNotFound creates a new "not found" error.
func NewNotFound(s string, v ...interface{}) error {
	return asNotFound(fmt.Errorf(s, v...))
}

func (n notFound) Error() string {
	return n.message
}

func asNotFound(err error) error {
	return notFound{fmt.Sprintf("Not found: %v", err)}
}

// IsNotFound checks if the given error is a "not found" error.
func IsNotFound(err error) bool {
	var nf notFound
	if e.As(err, &nf) {
		return true
	}
	var apiErr *APIError
	if e.As(err, &apiErr) {
		return apiErr.Status == http.StatusNotFound
	}
	return false
}

type validationError struct {
	message string
}

func (v validationError) Error() string {
	return v.message
}

// NewValidationError creates an error of from the given format string.
func NewValidationError(msg string, v ...interface{}) error {
	return validationError{fmt.Sprintf(msg, v...)}
}

// IsValidationError tells if err was created with NewValidationError.
func IsValidationError(err error) bool {
	var ve validationError
	return e.As(err, &ve)
}

// MissingParamError is returned when a URL or key is built for a resource
// without one of the ancestor ids it is scoped to.
type MissingParamError struct {
	Resource string
	Param    string
}

func (m *MissingParamError) Error() string {
	return fmt.Sprintf("%v: missing required parameter %q", m.Resource, m.Param)
}

// IsMissingParam checks if the given error is a MissingParamError.
func IsMissingParam(err error) bool {
	var mp *MissingParamError
	return e.As(err, &mp)
}

// APIError is a non-successful response from the annotation service.
//
// Message holds the "message" field from the JSON response body, or the
// status text if the body did not contain one.
type APIError struct {
	Status  int
	Message string
}

func (a *APIError) Error() string {
	return fmt.Sprintf("%v (HTTP %d)", a.Message, a.Status)
}

// AsAPIError unwraps an APIError from err.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	ok := e.As(err, &apiErr)
	return apiErr, ok
}

// Message returns the user facing message for an error.
// For API errors this is the message sent by the server.
func Message(err error) string {
	if err == nil {
		return ""
	}
	apiErr, ok := AsAPIError(err)
	if ok {
		return apiErr.Message
	}
	return err.Error()
}

// FromResponse creates an APIError from a response with the given (already
// consumed) body. Returns nil for 2xx responses.
func FromResponse(res *http.Response, body []byte) error {
	if res.StatusCode >= 200 && res.StatusCode < 300 {
		return nil
	}

	msg := decodeMessage(body)
	if msg == "" {
		msg = http.StatusText(res.StatusCode)
	}
	return &APIError{Status: res.StatusCode, Message: msg}
}

func decodeMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
	}
	err := json.Unmarshal(body, &payload)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(payload.Message)
}
