// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/relbuild/relbuild/internal/runner"
)

// newValidateCommand creates the `relbuild validate` command.
func newValidateCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [dir]",
		Short: "Check that every pipeline command parses as shell",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			dir := app.projectDirs(args)[0]

			res, err := app.resolver(ctx).Resolve(ctx, dir, overrideFrom(cmd, app))
			if err != nil {
				return err
			}

			if err := runner.Validate(res.Pipeline); err != nil {
				fmt.Fprintln(app.stderr, ErrorStyle.Render("✗ ")+"invalid pipeline")
				return &ExitError{Code: 2, Err: err}
			}

			fmt.Fprintf(app.stdout, "%s pipeline is valid (%d commands)\n", SuccessStyle.Render("✓"), len(res.Pipeline))
			return nil
		},
	}
	addBuildCommandFlag(cmd)
	return cmd
}
