package domain

import (
	"errors"
	"fmt"
)

// Error categories. Handlers map these to HTTP status codes.
var (
	ErrConflict        = errors.New("conflict")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation error")
	ErrExternalService = errors.New("external service error")
)

// Authentication errors
var (
	ErrEmailExists        = fmt.Errorf("%w: email already registered", ErrConflict)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	ErrInvalidToken       = fmt.Errorf("%w: invalid token", ErrUnauthorized)
	ErrTokenRevoked       = fmt.Errorf("%w: token has been revoked", ErrUnauthorized)
	ErrUnknownSubject     = fmt.Errorf("%w: user not found", ErrUnauthorized)
	ErrUserNotFound       = fmt.Errorf("%w: user not found", ErrNotFound)
)

// Diary and tag errors
var (
	ErrDiaryNotFound = fmt.Errorf("%w: diary not found", ErrNotFound)
	ErrTagNotFound   = fmt.Errorf("%w: tag not found", ErrNotFound)
	ErrTagExists     = fmt.Errorf("%w: tag already exists", ErrConflict)
	ErrInvalidMood   = fmt.Errorf("%w: mood must be one of happy, sad, neutral, angry", ErrValidation)
	ErrInvalidSort   = fmt.Errorf("%w: sort must be Latest or Oldest", ErrValidation)
	ErrInvalidPeriod = fmt.Errorf("%w: period must be daily, weekly or monthly", ErrValidation)
)

// Input validation errors
var (
	ErrInvalidEmail     = fmt.Errorf("%w: a valid email address is required", ErrValidation)
	ErrPasswordRequired = fmt.Errorf("%w: password is required", ErrValidation)
	ErrTitleRequired    = fmt.Errorf("%w: title is required", ErrValidation)
	ErrContentRequired  = fmt.Errorf("%w: content is required", ErrValidation)
	ErrTagNameRequired  = fmt.Errorf("%w: tag name is required", ErrValidation)
)

// RequiredField reports a missing mandatory input field.
func RequiredField(name string) error {
	return fmt.Errorf("%w: %s is required", ErrValidation, name)
}
