// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/relbuild/relbuild/internal/issue"
	"github.com/relbuild/relbuild/internal/runner"
)

// newRunCommand creates the `relbuild run` command.
func newRunCommand(app *App) *cobra.Command {
	var (
		runtimeName runtimeValue
		dryRun      bool
	)

	cmd := &cobra.Command{
		Use:   "run [dir]",
		Short: "Resolve and execute the build pipeline",
		Long: `Resolve the build pipeline for a project and execute it command by
command, stopping at the first failure.

Runtimes:
  native   the host shell (sh -c)
  virtual  the built-in POSIX shell interpreter`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := app.loadConfig(ctx)
			dir := app.projectDirs(args)[0]

			if !cmd.Flags().Changed("runtime") {
				runtimeName = runtimeValue(cfg.Runtime)
			}
			rt, err := selectRuntime(runner.RuntimeType(runtimeName))
			if err != nil {
				app.renderIssue(err)
				return err
			}

			res, err := app.resolver(ctx).Resolve(ctx, dir, overrideFrom(cmd, app))
			if err != nil {
				return err
			}

			if dryRun {
				fmt.Fprintf(app.stdout, "%s %s\n", TitleStyle.Render("Dry run:"), SubtitleStyle.Render(fmt.Sprintf("%s (runtime: %s)", res.Dir, rt.Name())))
				renderSteps(app.stdout, res.Pipeline)
				return nil
			}

			r := runner.New(rt,
				runner.WithLogger(app.logger("run")),
				runner.WithOutput(app.stdout, app.stderr),
			)
			report, err := r.Run(ctx, res.Dir, res.Pipeline)
			if err != nil {
				return app.stepFailure(err)
			}

			fmt.Fprintf(app.stdout, "%s %d/%d commands completed in %s\n",
				SuccessStyle.Render("✓"), report.Completed, report.Total, report.Elapsed.Round(time.Millisecond))
			return nil
		},
	}

	addBuildCommandFlag(cmd)
	cmd.Flags().Var(&runtimeName, "runtime", "runtime to execute with: native or virtual (default from config)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the pipeline without executing it")
	return cmd
}

// selectRuntime validates t and returns a ready runtime.
func selectRuntime(t runner.RuntimeType) (runner.Runtime, error) {
	rt, err := runner.NewRuntime(t)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("select runtime").
			WithResource(string(t)).
			WithSuggestion("Use --runtime native or --runtime virtual").
			WithIssue(issue.InvalidRuntimeId).
			Wrap(err).
			BuildError()
	}
	if !rt.Available() {
		return nil, issue.NewErrorContext().
			WithOperation("select runtime").
			WithResource(rt.Name()).
			WithSuggestion("Install a POSIX shell or use --runtime virtual").
			WithIssue(issue.InvalidRuntimeId).
			Wrap(errors.New("runtime is not available on this host")).
			BuildError()
	}
	return rt, nil
}

// stepFailure converts a runner error into an ExitError carrying the
// failing command's status.
func (a *App) stepFailure(err error) error {
	wrapped := issue.NewErrorContext().
		WithOperation("run pipeline").
		WithSuggestion("Re-run with --dry-run to inspect the pipeline").
		WithIssue(issue.StepFailedId).
		Wrap(err).
		BuildError()
	a.renderIssue(wrapped)

	code := runner.ExitCode(1)
	var stepErr *runner.StepError
	if errors.As(err, &stepErr) && !stepErr.ExitCode.IsSuccess() {
		code = stepErr.ExitCode
	}
	return &ExitError{Code: code, Err: wrapped}
}
