// Package apperr is the error taxonomy shared by every handler. Controllers
// return a tagged *Error and the HTTP boundary maps it to a status code and a
// user-safe message; anything else becomes a 500 with the cause kept out of
// the response body.
package apperr

import (
	"errors"
	"net/http"
)

type Error struct {
	Code    int
	Message string
	Details map[string][]string
}

func (e *Error) Error() string {
	return e.Message
}

func Validation(details map[string][]string) *Error {
	return &Error{Code: http.StatusUnprocessableEntity, Message: "invalid input", Details: details}
}

func Unauthenticated(msg string) *Error {
	return &Error{Code: http.StatusUnauthorized, Message: msg}
}

func Forbidden(msg string) *Error {
	return &Error{Code: http.StatusForbidden, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Code: http.StatusNotFound, Message: msg}
}

func Conflict(msg string) *Error {
	return &Error{Code: http.StatusConflict, Message: msg}
}

func BadRequest(msg string) *Error {
	return &Error{Code: http.StatusBadRequest, Message: msg}
}

func Unavailable(msg string) *Error {
	return &Error{Code: http.StatusServiceUnavailable, Message: msg}
}

// As unwraps err into *Error if it carries one.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
