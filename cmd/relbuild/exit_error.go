// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"

	"github.com/relbuild/relbuild/internal/runner"
)

// ExitError carries a process exit status out of a RunE handler. Execute
// turns it into os.Exit so deferred cleanup in handlers still runs.
type ExitError struct {
	Code runner.ExitCode
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return "exit status " + e.Code.String()
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// exitCodeOf maps a command error to the status Execute exits with: 0 for
// nil, the carried code for an ExitError, 1 otherwise.
func exitCodeOf(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) && !exitErr.Code.IsSuccess() {
		return int(exitErr.Code)
	}
	return 1
}
