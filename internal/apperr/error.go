// Package apperr holds the error type every bike store fault is reported with.
package apperr

import (
	"errors"
	"fmt"

	"bikerental/tracker/internal/constants"
)

// Kind classifies a fault. Values are the codes in internal/constants.
type Kind string

const (
	KindConfiguration     Kind = constants.ErrCodeConfiguration
	KindCredentials       Kind = constants.ErrCodeCredentials
	KindValidation        Kind = constants.ErrCodeValidation
	KindNotFound          Kind = constants.ErrCodeNotFound
	KindRemoteUnavailable Kind = constants.ErrCodeRemoteUnavailable
)

// Sentinels for errors.Is. Any *Error of the same kind matches.
var (
	ErrConfiguration     = &Error{Kind: KindConfiguration}
	ErrCredentials       = &Error{Kind: KindCredentials}
	ErrValidation        = &Error{Kind: KindValidation}
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrRemoteUnavailable = &Error{Kind: KindRemoteUnavailable}
)

// Error is a classified fault with a human-readable message and optional cause.
type Error struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// New builds an Error. An empty message falls back to the kind's default.
func New(kind Kind, message string) *Error {
	if message == "" {
		message = constants.GetErrorMessage(string(kind))
	}
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an Error around cause.
func Wrap(kind Kind, message string, cause error) *Error {
	e := New(kind, message)
	e.Err = cause
	return e
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error with the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// As converts err to an *Error, classifying unknown errors with fallback.
func As(err error, fallback Kind, message string) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(fallback, message, err)
}
