package usecases

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrClientEmailExists  = errors.New("a client with this email already exists")
	ErrUsernameTaken      = errors.New("username already taken")
)

func validationError(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

// StepError reports the failure of one step of a best-effort sequence.
// Steps that completed before it are not undone.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string { return e.Step + ": " + e.Err.Error() }

func (e *StepError) Unwrap() error { return e.Err }
