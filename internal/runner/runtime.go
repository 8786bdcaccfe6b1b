// SPDX-License-Identifier: MPL-2.0

// Package runner executes a command pipeline one command at a time, stopping
// at the first failure.
//
// Two runtimes are available: native, which hands each command to the host
// shell, and virtual, which interprets it with the embedded mvdan/sh
// interpreter and needs no shell on the host.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

// Runtime type constants.
const (
	RuntimeNative  RuntimeType = "native"
	RuntimeVirtual RuntimeType = "virtual"
)

// ErrUnknownRuntime is the sentinel error wrapped by UnknownRuntimeError.
var ErrUnknownRuntime = errors.New("unknown runtime")

type (
	// RuntimeType identifies a runtime.
	RuntimeType string

	// UnknownRuntimeError is returned when a RuntimeType is not registered.
	UnknownRuntimeError struct {
		Value RuntimeType
	}

	// Step is one command to run.
	Step struct {
		// Command is the shell command line.
		Command string
		// Dir is the working directory.
		Dir string
		// Env lists extra KEY=VALUE pairs added to the process environment.
		Env []string
		// Stdout and Stderr receive command output. Nil means os.Stdout/os.Stderr.
		Stdout io.Writer
		Stderr io.Writer
	}

	// Result is the outcome of a Step.
	Result struct {
		// ExitCode is the command's exit status.
		ExitCode ExitCode
		// Error is set when the command could not be run at all.
		Error error
	}

	// Runtime runs a single step.
	Runtime interface {
		// Name returns the runtime name
		Name() string
		// Available reports whether the runtime can run on this host
		Available() bool
		// Run executes step and blocks until it finishes or ctx is done
		Run(ctx context.Context, step Step) *Result
	}
)

// Error implements the error interface.
func (e *UnknownRuntimeError) Error() string {
	return fmt.Sprintf("unknown runtime %q (valid: native, virtual)", e.Value)
}

// Unwrap returns ErrUnknownRuntime.
func (e *UnknownRuntimeError) Unwrap() error { return ErrUnknownRuntime }

// Validate returns an error if t is not a known runtime type.
func (t RuntimeType) Validate() error {
	switch t {
	case RuntimeNative, RuntimeVirtual:
		return nil
	default:
		return &UnknownRuntimeError{Value: t}
	}
}

// String returns the runtime type name.
func (t RuntimeType) String() string { return string(t) }

// Success reports whether the step ran and exited zero.
func (r *Result) Success() bool {
	return r.Error == nil && r.ExitCode.IsSuccess()
}

// NewRuntime returns the runtime for t.
func NewRuntime(t RuntimeType) (Runtime, error) {
	switch t {
	case RuntimeNative:
		return NewNativeRuntime(), nil
	case RuntimeVirtual:
		return NewVirtualRuntime(), nil
	default:
		return nil, &UnknownRuntimeError{Value: t}
	}
}

// RuntimeTypes returns the known runtime types.
func RuntimeTypes() []RuntimeType {
	return []RuntimeType{RuntimeNative, RuntimeVirtual}
}

func (s Step) stdout() io.Writer {
	if s.Stdout == nil {
		return os.Stdout
	}
	return s.Stdout
}

func (s Step) stderr() io.Writer {
	if s.Stderr == nil {
		return os.Stderr
	}
	return s.Stderr
}
