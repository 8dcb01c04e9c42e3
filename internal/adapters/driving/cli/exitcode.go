package cli

import (
	"errors"

	"github.com/custodia-labs/contest-reminder/internal/core/domain"
)

// Process exit codes.
const (
	ExitOK           = 0
	ExitError        = 1
	ExitUsage        = 2
	ExitUserNotFound = 3
	ExitAuthRequired = 4
)

// usageError marks invalid arguments.
type usageError struct {
	msg string
}

func (e *usageError) Error() string {
	return e.msg
}

// ExitCode maps a command error to a process exit code.
func ExitCode(err error) int {
	var usage *usageError
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &usage):
		return ExitUsage
	case errors.Is(err, domain.ErrNotFound):
		return ExitUserNotFound
	case errors.Is(err, domain.ErrAuthRequired), errors.Is(err, domain.ErrAuthExpired):
		return ExitAuthRequired
	default:
		return ExitError
	}
}
