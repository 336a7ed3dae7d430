package apierr

import (
	"net/http"

	"github.com/pkg/errors"
)

// Code is the stable, machine readable token sent to clients in error.code.
type Code string

const (
	CodeMissingBody     Code = "MISSING_BODY"
	CodeInvalidJSON     Code = "INVALID_JSON"
	CodePayloadTooLarge Code = "PAYLOAD_TOO_LARGE"
	CodeInvalidID       Code = "INVALID_ID"
	CodeValidation      Code = "VALIDATION_ERROR"
	CodeInvalidIMDbID   Code = "INVALID_IMDB_ID"
	CodeInvalidType     Code = "INVALID_TYPE"
	CodeInvalidValue    Code = "INVALID_VALUE"
	CodeExtraFields     Code = "EXTRA_FIELDS"
	CodeNotFound        Code = "NOT_FOUND"
	CodeRateLimited     Code = "RATE_LIMITED"
	CodeReadError       Code = "READ_ERROR"
	CodeInsertError     Code = "INSERT_ERROR"
	CodeUpdateError     Code = "UPDATE_ERROR"
	CodeDeleteError     Code = "DELETE_ERROR"
	CodeInternal        Code = "INTERNAL_ERROR"
)

// Defaults applied to anything that reaches the client without a status,
// message or code of its own.
const (
	DefaultStatus  = http.StatusInternalServerError
	DefaultMessage = "Internal Server error"
)

// Details carries structured context about a failure, e.g. the offending
// field or the underlying datastore message.
type Details map[string]interface{}

// Error is the single error value used across the API. It is built once per
// failure and returned, never mutated on the way up.
type Error struct {
	Status  int     `json:"status"`
	Message string  `json:"message"`
	Code    Code    `json:"code"`
	Details Details `json:"details,omitempty"`
}

// New builds an Error. details may be nil.
func New(status int, message string, code Code, details Details) *Error {
	return &Error{
		Status:  status,
		Message: message,
		Code:    code,
		Details: details,
	}
}

// Upstream builds a 500 Error for a failed datastore call, exposing the root
// cause of err as details.underlying.
func Upstream(message string, code Code, err error) *Error {
	var details Details
	if err != nil {
		details = Details{"underlying": errors.Cause(err).Error()}
	}
	return New(http.StatusInternalServerError, message, code, details)
}

func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Message
}

// From normalizes any error into an *Error. Errors that are not (and do not
// wrap) an *Error become a generic INTERNAL_ERROR; missing fields on an
// *Error are filled with the defaults.
func From(err error) *Error {
	var e *Error
	if !errors.As(err, &e) || e == nil {
		return New(DefaultStatus, DefaultMessage, CodeInternal, nil)
	}

	out := *e
	if out.Status == 0 {
		out.Status = DefaultStatus
	}
	if out.Message == "" {
		out.Message = DefaultMessage
	}
	if out.Code == "" {
		out.Code = CodeInternal
	}
	return &out
}
