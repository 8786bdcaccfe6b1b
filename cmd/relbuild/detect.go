// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/relbuild/relbuild/internal/buildcmd"
	"github.com/relbuild/relbuild/internal/issue"
	"github.com/relbuild/relbuild/pkg/manifest"
)

// newDetectCommand creates the `relbuild detect` command.
func newDetectCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "detect [dir]",
		Short: "Print the build script relbuild would run",
		Long: `Print the first of "build", "production" and "prod" defined in the
project's package.json scripts. Exits 1 when none is defined.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := app.projectDirs(args)[0]

			m, err := manifest.Load(app.Fs, dir)
			if err != nil {
				if errors.Is(err, manifest.ErrInvalidManifest) {
					err = issue.NewErrorContext().
						WithOperation("read manifest").
						WithResource(filepath.Join(dir, manifest.FileName)).
						WithSuggestion("Fix the JSON syntax or make every script a string").
						WithIssue(issue.ManifestInvalidId).
						Wrap(err).
						BuildError()
					app.renderIssue(err)
				}
				return err
			}

			name, ok := buildcmd.Detect(m)
			if !ok {
				if app.flags.verbose {
					fmt.Fprintln(app.stderr, VerboseStyle.Render("no build script in "+dir))
				}
				return &ExitError{Code: 1, Err: fmt.Errorf("no build script found in %s", dir)}
			}

			fmt.Fprintln(app.stdout, name)
			if app.flags.verbose {
				command, _ := m.Script(string(name))
				fmt.Fprintln(app.stderr, VerboseStyle.Render(buildcmd.RunScriptCommand(name)+": "+command))
			}
			return nil
		},
	}
}
