package auth

import (
	"context"
	"errors"
)

var (
	ErrMissingField       = errors.New("missing field")
	ErrPasswordMismatch   = errors.New("password mismatch")
	ErrPasswordTooShort   = errors.New("password too short")
	ErrInvalidPhoneFormat = errors.New("invalid phone format")
	ErrNetwork            = errors.New("network error")
	ErrSubmitInFlight     = errors.New("submission in flight")
	ErrWrongMode          = errors.New("wrong mode")
	ErrClosed             = errors.New("view closed")
)

// FieldError ties a validation failure to the form key that caused it.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *FieldError) Unwrap() error { return e.Err }

// Kind names the error for clients: "MissingField", "NetworkError", ...
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrMissingField):
		return "MissingField"
	case errors.Is(err, ErrPasswordMismatch):
		return "PasswordMismatch"
	case errors.Is(err, ErrPasswordTooShort):
		return "PasswordTooShort"
	case errors.Is(err, ErrInvalidPhoneFormat):
		return "InvalidPhoneFormat"
	case errors.Is(err, ErrNetwork):
		return "NetworkError"
	case errors.Is(err, ErrSubmitInFlight):
		return "SubmitInFlight"
	case errors.Is(err, ErrWrongMode):
		return "WrongMode"
	case errors.Is(err, context.DeadlineExceeded):
		return "Timeout"
	case errors.Is(err, ErrClosed):
		return "Closed"
	}
	return "Internal"
}

// Message is the user-facing notice text for err.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrMissingField):
		return "Please fill in all required fields."
	case errors.Is(err, ErrPasswordMismatch):
		return "Passwords do not match."
	case errors.Is(err, ErrPasswordTooShort):
		return "Password must be at least 6 characters long."
	case errors.Is(err, ErrInvalidPhoneFormat):
		return "Please enter a valid 11-digit phone number."
	case errors.Is(err, ErrNetwork):
		return "We could not reach the server. Please try again."
	case errors.Is(err, ErrSubmitInFlight):
		return "Your request is already being processed."
	case errors.Is(err, ErrWrongMode):
		return "This form is out of date. Please try again."
	case errors.Is(err, context.DeadlineExceeded):
		return "The request took too long. Please try again."
	case errors.Is(err, ErrClosed):
		return "This page has expired. Please reload."
	}
	return "Something went wrong."
}

// IsValidation reports whether err is one of the local form rule failures.
func IsValidation(err error) bool {
	return errors.Is(err, ErrMissingField) ||
		errors.Is(err, ErrPasswordMismatch) ||
		errors.Is(err, ErrPasswordTooShort) ||
		errors.Is(err, ErrInvalidPhoneFormat)
}

func fieldOf(err error) string {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe.Field
	}
	return ""
}
