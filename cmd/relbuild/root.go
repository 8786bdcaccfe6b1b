// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for relbuild.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/relbuild/relbuild/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "relbuild",
		Short: "Build a JavaScript project for a release branch",
		Long: TitleStyle.Render("relbuild") + SubtitleStyle.Render(" - build a JavaScript project for a release branch") + `

relbuild inspects a project's package.json and works out the shell pipeline
that prepares it for release: install dependencies, run the build script
(build, production or prod), reinstall production dependencies only, and
drop the .github metadata directory.

Action inputs are read from INPUT_* environment variables; BUILD_COMMAND
replaces the detected build script.

` + SubtitleStyle.Render("Examples:") + `
  relbuild commands                    Print the pipeline for the workspace
  relbuild commands --json a b         Resolve several projects as JSON
  relbuild run --dry-run               Show what would be executed
  relbuild run --runtime virtual       Execute with the built-in shell
  relbuild event -v                    Check whether this event triggers a build`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			app.loadConfig(cmd.Context())
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&app.flags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&app.flags.cfgFile, "config", "", "config file (default is $HOME/.config/relbuild/config.cue)")

	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.AddCommand(newCommandsCommand(app))
	rootCmd.AddCommand(newDetectCommand(app))
	rootCmd.AddCommand(newRunCommand(app))
	rootCmd.AddCommand(newValidateCommand(app))
	rootCmd.AddCommand(newEventCommand(app))
	rootCmd.AddCommand(newRepoConfigCommand(app))
	rootCmd.AddCommand(newConfigCommand(app))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI. This is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	)
	if code := exitCodeOf(err); code != 0 {
		os.Exit(code)
	}
}

// formatErrorForDisplay formats an error for user display.
// ActionableErrors use their own Format; verbose mode adds the error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// renderIssue writes the catalog guidance for err to stderr when it carries
// an issue id.
func (a *App) renderIssue(err error) {
	var ae *issue.ActionableError
	if !errors.As(err, &ae) || ae.Issue == 0 {
		return
	}
	entry := issue.Get(ae.Issue)
	if entry == nil {
		return
	}
	style := "auto"
	if a.cfg != nil {
		style = a.cfg.UI.ColorScheme.GlamourStyle()
	}
	rendered, renderErr := entry.Render(style)
	if renderErr != nil {
		return
	}
	fmt.Fprint(a.stderr, rendered)
}
