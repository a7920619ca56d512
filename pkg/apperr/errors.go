// Package apperr is the error taxonomy shared by repositories, usecases and
// handlers. Every failure leaving a usecase carries exactly one Code.
package apperr

import (
	"errors"
	"fmt"
)

type Code string

// ErrUnauthenticated marks authorization failures caused by a missing actor
// rather than an insufficient role.
var ErrUnauthenticated = errors.New("no authenticated actor")

const (
	CodeConfiguration     Code = "configuration"
	CodeAuthorization     Code = "authorization"
	CodeNotFound          Code = "not_found"
	CodeValidation        Code = "validation"
	CodeUnknownIdentifier Code = "unknown_identifier"
	CodeBackend           Code = "backend"
	CodeRateLimited       Code = "rate_limited"
)

type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code to err. A nil err yields nil.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Err: err}
}

// CodeOf returns the outermost code in err's chain, or CodeBackend when err
// carries none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeBackend
}

func HasCode(err error, code Code) bool {
	if err == nil {
		return false
	}
	return CodeOf(err) == code
}

// Ensure returns err unchanged when it already carries a code, otherwise wraps
// it as a backend failure with the given message.
func Ensure(err error, message string) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return Wrap(err, CodeBackend, message)
}

func Unconfigured(what string) error {
	return Newf(CodeConfiguration, "%s is not configured", what)
}

func Forbidden(message string) error {
	return New(CodeAuthorization, message)
}

func Unauthenticated() error {
	return &Error{Code: CodeAuthorization, Message: "authentication required", Err: ErrUnauthenticated}
}

func NotFound(what string) error {
	return Newf(CodeNotFound, "%s not found", what)
}

func Invalid(message string) error {
	return New(CodeValidation, message)
}
