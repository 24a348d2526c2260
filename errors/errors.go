package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for translation bundle loading.
var (
	// ErrDuplicateKey is returned when a module defines the same key twice
	// for one locale. Keys must be unique within a module namespace.
	ErrDuplicateKey = errors.New("duplicate translation key")
	// ErrUnknownModule is returned when a bundle lookup names a module that
	// contributed no translation files.
	ErrUnknownModule = errors.New("unknown translation module")
	// ErrUnsupportedLocale is returned when a locale has no loaded bundle
	// and no fallback applies.
	ErrUnsupportedLocale = errors.New("unsupported locale")
)

type CustomError struct {
	Code    int
	Message string
}

func (e *CustomError) Error() string {
	return e.Message
}

func Technical(message string) error {
	return &CustomError{
		Code:    http.StatusInternalServerError,
		Message: message,
	}
}

func Technicalf(format string, args ...any) error {
	return Technical(fmt.Sprintf(format, args...))
}

func BadRequest(message string) error {
	return &CustomError{
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

func NotFound(message string) error {
	return &CustomError{
		Code:    http.StatusNotFound,
		Message: message,
	}
}

func Conflict(message string) error {
	return &CustomError{
		Code:    http.StatusConflict,
		Message: message,
	}
}

// GetStatusCode extracts the HTTP status code from err, defaulting to 500.
func GetStatusCode(err error) int {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return http.StatusInternalServerError
}

func Is(err error, target error) bool {
	return errors.Is(err, target)
}
