// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/relbuild/relbuild/internal/event"
	"github.com/relbuild/relbuild/internal/issue"
)

// newEventCommand creates the `relbuild event` command.
func newEventCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "event",
		Short: "Exit 0 when the current workflow event should trigger a build",
		Long: `Inspect GITHUB_EVENT_NAME and the payload at GITHUB_EVENT_PATH.

Exits 0 for a published release and 1 for anything else, so a workflow can
gate the build with "relbuild event && relbuild run".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := event.FromEnv(app.Fs, app.Getenv)
			if err != nil {
				return err
			}

			if app.flags.verbose {
				token := app.Inputs.AccessToken()
				fmt.Fprintf(app.stderr, "%s %s\n", VerboseStyle.Render("event:"), describeEvent(ctx))
				if ctx.Repo.Owner != "" {
					fmt.Fprintf(app.stderr, "%s %s\n", VerboseStyle.Render("repository:"), event.Repository(ctx))
					fmt.Fprintf(app.stderr, "%s %s\n", VerboseStyle.Render("push url:"), event.RedactURL(event.GitURL(ctx, token), token))
				}
			}

			if !event.IsTargetEvent(ctx) {
				err := issue.NewErrorContext().
					WithOperation("check event").
					WithResource(describeEvent(ctx)).
					WithIssue(issue.NotTargetEventId).
					Wrap(fmt.Errorf("not a target event")).
					BuildError()
				if app.flags.verbose {
					app.renderIssue(err)
				}
				return &ExitError{Code: 1, Err: err}
			}

			fmt.Fprintf(app.stdout, "%s %s\n", SuccessStyle.Render("✓"), describeEvent(ctx))
			return nil
		},
	}
}

// describeEvent renders "name/action", or just the name without an action.
func describeEvent(ctx *event.Context) string {
	name := ctx.EventName
	if name == "" {
		name = "(none)"
	}
	if ctx.Payload.Action == "" {
		return name
	}
	return name + "/" + ctx.Payload.Action
}
