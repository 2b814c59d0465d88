package errors

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
)

var (
	// ErrUserNotFound is returned when no user row matches the requested id.
	ErrUserNotFound = errors.New("user not found")
	// ErrMissingTarget is returned when an update is validated without a target id.
	ErrMissingTarget = errors.New("update target id is not resolvable")
)

// FieldErrors maps an input field name to its violation messages.
type FieldErrors map[string][]string

// Add appends a message for field.
func (f FieldErrors) Add(field, message string) {
	f[field] = append(f[field], message)
}

// Fields returns the offending field names in a stable order.
func (f FieldErrors) Fields() []string {
	fields := make([]string, 0, len(f))
	for field := range f {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// Count returns the total number of messages.
func (f FieldErrors) Count() int {
	n := 0
	for _, msgs := range f {
		n += len(msgs)
	}
	return n
}

// ValidationError reports one or more field-level constraint violations.
// Nothing was written when it is returned.
type ValidationError struct {
	Fields FieldErrors
}

// NewValidationError wraps fields, returning nil when there are none.
func NewValidationError(fields FieldErrors) *ValidationError {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	return e.Message()
}

// Message summarises the error as the first message plus the remaining count.
func (e *ValidationError) Message() string {
	fields := e.Fields.Fields()
	if len(fields) == 0 {
		return "the given data was invalid"
	}
	first := e.Fields[fields[0]][0]
	rest := e.Fields.Count() - 1
	switch {
	case rest == 1:
		return fmt.Sprintf("%s (and 1 more error)", first)
	case rest > 1:
		return fmt.Sprintf("%s (and %d more errors)", first, rest)
	default:
		return first
	}
}

// AsValidation extracts a *ValidationError from err's chain.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ValidationResponse is the 422 body.
type ValidationResponse struct {
	Message string      `json:"message"`
	Errors  FieldErrors `json:"errors"`
}

// ToResponse converts the error to its 422 body.
func (e *ValidationError) ToResponse() ValidationResponse {
	return ValidationResponse{
		Message: e.Message(),
		Errors:  e.Fields,
	}
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Validation errors are
// rendered separately through ToResponse.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, ErrUserNotFound.Error(), "USER_NOT_FOUND")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
