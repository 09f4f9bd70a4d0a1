package errcodes

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// Machine-readable codes sent in the "code" field of error payloads.
const (
	CodeEmptyRequestBody     = "empty_request_body"
	CodeForbidden            = "forbidden"
	CodeInUse                = "in_use"
	CodeMalformedPayload     = "malformed_payload"
	CodeNotFound             = "not_found"
	CodeUnauthorized         = "unauthorized"
	CodeUnknownParameter     = "unknown_parameter"
	CodeUnsupportedMediaType = "unsupported_media_type"
	CodeValidation           = "validation_error"
	CodeValidationType       = "validation_type_error"
)

// Error is an error the HTTP error handler turns into a status code and a
// user-facing message.
type Error struct {
	HTTPCode int
	Message  string
	Code     string
}

func newError(httpCode int, code, msg string) error {
	return &Error{HTTPCode: httpCode, Message: msg, Code: code}
}

func (err *Error) Error() string {
	return err.Message
}

// Is matches errors with the same status, code and message, so callers can
// compare against a freshly built error.
func (err *Error) Is(target error) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	return *te == *err
}

// Forbidden is a 403 for an actor lacking the capability for action.
func Forbidden(action string) error {
	return newError(http.StatusForbidden, CodeForbidden, action+" is not allowed.")
}

// NotFound is a 404 naming the missing resource.
func NotFound(resource string) error {
	return newError(http.StatusNotFound, CodeNotFound, resource+" not found.")
}

// Unauthorized is a 401 for requests without a valid login.
func Unauthorized(msg string) error {
	return newError(http.StatusUnauthorized, CodeUnauthorized, msg)
}

func UnsupportedMediaType() error {
	return newError(http.StatusUnsupportedMediaType, CodeUnsupportedMediaType, "Unsupported Media Type")
}

func MalformedPayload() error {
	return newError(http.StatusBadRequest, CodeMalformedPayload, "Malformed Payload")
}

func EmptyRequestBody() error {
	return newError(http.StatusBadRequest, CodeEmptyRequestBody, "Request body can't be empty.")
}

// The constructors below are all 422s. Form handlers show their message next
// to the submitted values instead of failing the request.

func UnknownParameter(param string) error {
	return newError(http.StatusUnprocessableEntity, CodeUnknownParameter, fmt.Sprintf("Unknown Parameter %q", param))
}

func ValidationTypeError(msg string) error {
	return newError(http.StatusUnprocessableEntity, CodeValidationType, msg)
}

func ValidationError(msg string) error {
	return newError(http.StatusUnprocessableEntity, CodeValidation, msg)
}

// InUse blocks deleting resource while dependents still reference it.
func InUse(resource, dependents string) error {
	return newError(http.StatusUnprocessableEntity, CodeInUse, fmt.Sprintf("%s can't be deleted while it has %s.", resource, dependents))
}

// ValidationMessage returns the message of any 422 in err's chain.
func ValidationMessage(err error) (string, bool) {
	var e *Error
	if !errors.As(err, &e) || e.HTTPCode != http.StatusUnprocessableEntity {
		return "", false
	}
	return e.Message, true
}
