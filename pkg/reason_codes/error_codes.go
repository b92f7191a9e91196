package reasoncodes

import (
	"errors"
	"net/http"
)

type ReasonCode string

const (
	ErrNotFound        ReasonCode = "NotFound"
	ErrUnauthorized    ReasonCode = "Unauthorized"
	ErrInvalidInput    ReasonCode = "InvalidInput"
	ErrConflict        ReasonCode = "Conflict"
	ErrUpstreamFailure ReasonCode = "UpstreamFailure"
	ErrInternal        ReasonCode = "InternalError"
)

// Error is a classified failure surfaced to API callers.
type Error struct {
	Code    ReasonCode
	Message string
	Err     error
}

func New(code ReasonCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Wrap(code ReasonCode, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets a wrapped sentinel match its original, so
// errors.Is(Wrap(ErrConflict, ErrDuplicate.Message, cause), ErrDuplicate) holds.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// CodeOf returns the reason code of the first classified error in err's chain.
func CodeOf(err error) ReasonCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrInternal
}

func HTTPStatus(code ReasonCode) int {
	switch code {
	case ErrNotFound:
		return http.StatusNotFound
	case ErrUnauthorized:
		// credential failures are answered with 401 by the auth middleware itself
		return http.StatusForbidden
	case ErrInvalidInput:
		return http.StatusBadRequest
	case ErrConflict:
		return http.StatusConflict
	case ErrUpstreamFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
