// Package apperr carries the service-wide error taxonomy. Every rejection a
// caller can see is one of these kinds; handlers map kinds to HTTP statuses.
package apperr

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Kind classifies a rejection.
type Kind int

const (
	Validation Kind = iota + 1
	NotFound
	Authorization
	StateConflict
	Throttle
)

// Error is a kinded error with a caller-facing message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// New builds a kinded error.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf builds a kinded error with formatting.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of err, or 0 if err is not an apperr.Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// StatusCode maps an error to an HTTP status. Unclassified errors are 500.
func StatusCode(err error) int {
	switch KindOf(err) {
	case Validation:
		return fiber.StatusBadRequest
	case NotFound:
		return fiber.StatusNotFound
	case Authorization:
		return fiber.StatusForbidden
	case StateConflict:
		return fiber.StatusConflict
	case Throttle:
		return fiber.StatusTooManyRequests
	default:
		return fiber.StatusInternalServerError
	}
}
