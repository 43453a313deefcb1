// Package apperr carries the error taxonomy the HTTP layer and the frontend
// branch on. Services return these instead of raising generic errors so that
// callers can switch on kind and reason code rather than matching strings.
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindNotAuthorized
	KindInvalidState
	KindConflict
)

// Reason codes surfaced to clients. The admin/student frontend branches on
// these, so they are part of the API contract.
const (
	CodeQuizUnavailable      = "quiz_unavailable"
	CodeNotEnrolled          = "not_enrolled"
	CodeAlreadyPassed        = "already_passed"
	CodeRetakeNotAllowed     = "retake_not_allowed"
	CodeMaxAttemptsReached   = "max_attempts_reached"
	CodeAttemptNotInProgress = "attempt_not_in_progress"
	CodeAttemptExpired       = "attempt_expired"
	CodeAttemptNotFound      = "attempt_not_found"
	CodeCourseNotFound       = "course_not_found"
	CodeAlreadyEnrolled      = "already_enrolled"
	CodeAttemptInFlight      = "attempt_in_flight"
	CodeCertificateExists    = "certificate_already_issued"
	CodeInvalidCredentials   = "invalid_credentials"
	CodeEmailTaken           = "email_taken"
)

type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func NotFound(code, message string) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: message}
}

func NotAuthorized(code, message string) *Error {
	return &Error{Kind: KindNotAuthorized, Code: code, Message: message}
}

func InvalidState(code, message string) *Error {
	return &Error{Kind: KindInvalidState, Code: code, Message: message}
}

func Conflict(code, message string) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: message}
}

func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf reports the taxonomy kind of err, defaulting to KindInternal for
// anything that did not originate from this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// CodeOf returns the machine reason code, or "" for untyped errors.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// HTTPStatus maps an error to the status the controllers respond with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindNotAuthorized:
		return http.StatusForbidden
	case KindInvalidState:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
