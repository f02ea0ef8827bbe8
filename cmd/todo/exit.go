package main

import (
	"errors"
	"fmt"

	"github.com/amonks/smarttodo/task"
)

// Exit codes beyond the generic failure.
const (
	exitInvalid  = 2
	exitNotFound = 3
)

type exitError struct {
	code int
	err  error
}

func (e exitError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return fmt.Sprintf("exit %d", e.code)
}

func (e exitError) ExitCode() int {
	return e.code
}

func (e exitError) Unwrap() error {
	return e.err
}

// classifyError attaches an exit code to errors the user can act on.
func classifyError(err error) error {
	var existing exitError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &existing):
		return err
	case errors.Is(err, task.ErrTaskNotFound):
		return exitError{code: exitNotFound, err: err}
	case errors.Is(err, task.ErrAmbiguousID), task.IsValidationError(err):
		return exitError{code: exitInvalid, err: err}
	}
	return err
}
