// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

type (
	// VirtualRuntime executes commands with the embedded mvdan/sh interpreter.
	VirtualRuntime struct {
		// EnableBuiltins serves a few file utilities (rm) in-process so the
		// cleanup step works without coreutils on the host.
		EnableBuiltins bool
	}

	// builtin is an in-process replacement for an external command.
	builtin func(ctx context.Context, args []string) error
)

// NewVirtualRuntime creates a new virtual runtime with builtins enabled.
func NewVirtualRuntime() *VirtualRuntime {
	return &VirtualRuntime{EnableBuiltins: true}
}

// Name returns the runtime name
func (r *VirtualRuntime) Name() string {
	return string(RuntimeVirtual)
}

// Available returns true; the interpreter is built in.
func (r *VirtualRuntime) Available() bool {
	return true
}

// Run parses and interprets step.
func (r *VirtualRuntime) Run(ctx context.Context, step Step) *Result {
	prog, err := ParseCommand(step.Command)
	if err != nil {
		return &Result{ExitCode: 2, Error: err}
	}

	env := append(os.Environ(), step.Env...)
	opts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(env...)),
		interp.StdIO(nil, step.stdout(), step.stderr()),
		interp.ExecHandlers(r.execHandler),
	}
	if step.Dir != "" {
		opts = append(opts, interp.Dir(step.Dir))
	}

	sh, err := interp.New(opts...)
	if err != nil {
		return &Result{ExitCode: 1, Error: fmt.Errorf("failed to create interpreter: %w", err)}
	}

	if err := sh.Run(ctx, prog); err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			return &Result{ExitCode: ExitCode(exitStatus)}
		}
		return &Result{ExitCode: 1, Error: fmt.Errorf("command execution failed: %w", err)}
	}
	return &Result{}
}

// ParseCommand parses a command line with the POSIX/bash parser.
func ParseCommand(command string) (*syntax.File, error) {
	prog, err := syntax.NewParser().Parse(strings.NewReader(command), "")
	if err != nil {
		return nil, fmt.Errorf("command syntax error: %w", err)
	}
	return prog, nil
}

func (r *VirtualRuntime) execHandler(next interp.ExecHandlerFunc) interp.ExecHandlerFunc {
	return func(ctx context.Context, args []string) error {
		if r.EnableBuiltins && len(args) > 0 {
			if b, ok := builtins[args[0]]; ok {
				return b(ctx, args)
			}
		}
		return next(ctx, args)
	}
}

var builtins = map[string]builtin{
	"rm": builtinRm,
}

// builtinRm supports the flags the cleanup step uses: -r, -d, -f, combined
// or separate, and "--" to end options.
func builtinRm(ctx context.Context, args []string) error {
	hc := interp.HandlerCtx(ctx)
	var recursive, force bool
	var paths []string

	endOfOpts := false
	for _, arg := range args[1:] {
		if !endOfOpts && arg == "--" {
			endOfOpts = true
			continue
		}
		if !endOfOpts && len(arg) > 1 && arg[0] == '-' {
			for _, f := range arg[1:] {
				switch f {
				case 'r', 'R':
					recursive = true
				case 'f':
					force = true
				case 'd':
					// empty directories are removed either way
				default:
					fmt.Fprintf(hc.Stderr, "rm: invalid option -- '%c'\n", f)
					return interp.ExitStatus(1)
				}
			}
			continue
		}
		paths = append(paths, arg)
	}

	status := uint8(0)
	for _, p := range paths {
		if !filepath.IsAbs(p) {
			p = filepath.Join(hc.Dir, p)
		}
		info, err := os.Lstat(p)
		if err != nil {
			if !force {
				fmt.Fprintf(hc.Stderr, "rm: cannot remove '%s': %v\n", p, err)
				status = 1
			}
			continue
		}
		if info.IsDir() && recursive {
			err = os.RemoveAll(p)
		} else {
			err = os.Remove(p)
		}
		if err != nil {
			fmt.Fprintf(hc.Stderr, "rm: cannot remove '%s': %v\n", p, err)
			status = 1
		}
	}
	if status != 0 {
		return interp.ExitStatus(status)
	}
	return nil
}
