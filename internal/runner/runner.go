// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// ErrStepFailed is the sentinel error wrapped by StepError.
var ErrStepFailed = errors.New("pipeline step failed")

type (
	// Runner executes pipelines with a Runtime.
	Runner struct {
		runtime Runtime
		logger  *log.Logger
		stdout  io.Writer
		stderr  io.Writer
		env     []string
	}

	// Option configures a Runner.
	Option func(*Runner)

	// StepError reports the command that stopped a pipeline.
	StepError struct {
		Index    int
		Command  string
		ExitCode ExitCode
		Err      error
	}

	// Report summarizes a pipeline run.
	Report struct {
		// Completed is the number of commands that exited zero.
		Completed int
		// Total is the pipeline length.
		Total int
		// Elapsed is the wall time spent.
		Elapsed time.Duration
	}
)

// Error implements the error interface.
func (e *StepError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("step %d %q: %v", e.Index+1, e.Command, e.Err)
	}
	return fmt.Sprintf("step %d %q exited with status %d", e.Index+1, e.Command, e.ExitCode)
}

// Unwrap returns ErrStepFailed and the underlying cause, if any.
func (e *StepError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrStepFailed, e.Err}
	}
	return []error{ErrStepFailed}
}

// WithLogger sets the logger. The default discards output.
func WithLogger(logger *log.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// WithOutput sets where command output goes.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(r *Runner) {
		r.stdout = stdout
		r.stderr = stderr
	}
}

// WithEnv adds KEY=VALUE pairs to every command's environment.
func WithEnv(env ...string) Option {
	return func(r *Runner) { r.env = append(r.env, env...) }
}

// New creates a Runner over rt.
func New(rt Runtime, opts ...Option) *Runner {
	r := &Runner{runtime: rt}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = log.New(io.Discard)
	}
	return r
}

// Run executes commands in order inside dir and stops at the first command
// that fails. The returned Report is valid even when err is non-nil.
func (r *Runner) Run(ctx context.Context, dir string, commands []string) (Report, error) {
	start := time.Now()
	report := Report{Total: len(commands)}

	for i, command := range commands {
		if err := ctx.Err(); err != nil {
			report.Elapsed = time.Since(start)
			return report, &StepError{Index: i, Command: command, ExitCode: 1, Err: err}
		}

		r.logger.Info("running", "step", fmt.Sprintf("%d/%d", i+1, len(commands)), "cmd", command)
		stepStart := time.Now()
		res := r.runtime.Run(ctx, Step{
			Command: command,
			Dir:     dir,
			Env:     r.env,
			Stdout:  r.stdout,
			Stderr:  r.stderr,
		})

		if !res.Success() {
			report.Elapsed = time.Since(start)
			r.logger.Error("step failed", "cmd", command, "exit", res.ExitCode, "err", res.Error)
			return report, &StepError{Index: i, Command: command, ExitCode: res.ExitCode, Err: res.Error}
		}
		r.logger.Debug("step done", "cmd", command, "elapsed", time.Since(stepStart).Round(time.Millisecond))
		report.Completed++
	}

	report.Elapsed = time.Since(start)
	return report, nil
}

// Validate parses every command. Syntax errors are returned joined, each
// tagged with its position in the pipeline.
func Validate(commands []string) error {
	var errs []error
	for i, command := range commands {
		if _, err := ParseCommand(command); err != nil {
			errs = append(errs, &StepError{Index: i, Command: command, ExitCode: 2, Err: err})
		}
	}
	return errors.Join(errs...)
}
