package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeValidation   = "validation_failed"
	CodeNotFound     = "not_found"
	CodeForbidden    = "forbidden"
	CodeInvalidState = "invalid_state"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// Validation marks locally recoverable input problems. The message should
// name the offending field or unmet condition.
func Validation(format string, args ...any) *Error {
	return New(http.StatusBadRequest, CodeValidation, fmt.Errorf(format, args...))
}

// NotFound covers unknown ids and rows excluded by the tenant filter; the
// two cases are deliberately indistinguishable to callers.
func NotFound(entity string, id any) *Error {
	return New(http.StatusNotFound, CodeNotFound, fmt.Errorf("%s not found: %v", entity, id))
}

func Forbidden(format string, args ...any) *Error {
	return New(http.StatusForbidden, CodeForbidden, fmt.Errorf(format, args...))
}

// InvalidState rejects a transition attempted from a disallowed state. The
// message always names the current state.
func InvalidState(entity, current, event string) *Error {
	return New(http.StatusConflict, CodeInvalidState,
		fmt.Errorf("%s in state %s does not allow %s", entity, current, event))
}

func HasCode(err error, code string) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

func IsValidation(err error) bool   { return HasCode(err, CodeValidation) }
func IsNotFound(err error) bool     { return HasCode(err, CodeNotFound) }
func IsForbidden(err error) bool    { return HasCode(err, CodeForbidden) }
func IsInvalidState(err error) bool { return HasCode(err, CodeInvalidState) }

// StatusOf maps an error to its HTTP status, falling back to 500 for
// anything that is not an *Error (store failures included).
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) && e.Status != 0 {
		return e.Status
	}
	return http.StatusInternalServerError
}

func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Code != "" {
		return e.Code
	}
	return "internal_error"
}
