// Package errors defines the sentinel errors shared by the matching engine
// and maps any error onto the three outcomes reported to the harness.
package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidSubscription = errors.New("invalid subscription")
	ErrNoAvailableResult   = errors.New("no available result")
	ErrInvalidAlphabet     = errors.New("character outside trie alphabet")
	ErrInvalidConfig       = errors.New("invalid configuration")
)

// Code is the outcome of one entry operation.
type Code int

const (
	CodeSuccess Code = iota
	CodeNoAvailableResult
	CodeFail
)

func (c Code) String() string {
	switch c {
	case CodeSuccess:
		return "EC_SUCCESS"
	case CodeNoAvailableResult:
		return "EC_NO_AVAIL_RES"
	case CodeFail:
		return "EC_FAIL"
	default:
		return fmt.Sprintf("Code(%d)", int(c))
	}
}

type AppError struct {
	Err     error
	Message string
	Code    Code
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(sentinel error, code Code, message string) *AppError {
	return &AppError{
		Err:     sentinel,
		Message: message,
		Code:    code,
	}
}

func Newf(sentinel error, code Code, format string, args ...any) *AppError {
	return &AppError{
		Err:     sentinel,
		Message: fmt.Sprintf(format, args...),
		Code:    code,
	}
}

// CodeOf reports the outcome code for err. A nil error is a success.
func CodeOf(err error) Code {
	if err == nil {
		return CodeSuccess
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	switch {
	case errors.Is(err, ErrNoAvailableResult):
		return CodeNoAvailableResult
	default:
		return CodeFail
	}
}

// Is and As are re-exported so callers need only one errors import.
func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target any) bool { return errors.As(err, target) }
