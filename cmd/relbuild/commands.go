// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/relbuild/relbuild/internal/buildcmd"
	"github.com/relbuild/relbuild/internal/inputs"
	"github.com/relbuild/relbuild/internal/watch"
)

const buildCommandFlag = "build-command"

// resolutionJSON is the --json shape of one resolved project.
type resolutionJSON struct {
	Dir      string   `json:"dir"`
	Detected string   `json:"detected,omitempty"`
	Command  string   `json:"command"`
	Steps    []string `json:"steps"`
}

// newCommandsCommand creates the `relbuild commands` command.
func newCommandsCommand(app *App) *cobra.Command {
	var asJSON, watchMode bool

	cmd := &cobra.Command{
		Use:   "commands [dir...]",
		Short: "Print the build pipeline for one or more projects",
		Long: `Print the shell pipeline that prepares each project for release.

With a single project the pipeline is printed as one "&&"-joined line, ready
to hand to a shell. The build override comes from --build-command, falling
back to the ` + inputs.EnvVar(inputs.BuildCommandInput) + ` input.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			dirs := app.projectDirs(args)
			override := overrideFrom(cmd, app)

			if watchMode && len(dirs) != 1 {
				return fmt.Errorf("--watch takes a single project directory, got %d", len(dirs))
			}

			printAll := func(ctx context.Context) error {
				results, err := app.resolver(ctx).ResolveAll(ctx, dirs, override)
				if err != nil {
					return err
				}
				return printResolutions(app.stdout, results, asJSON)
			}
			if err := printAll(ctx); err != nil {
				return err
			}
			if !watchMode {
				return nil
			}

			w, err := watch.New(watch.Config{
				Dir:    dirs[0],
				Logger: app.logger("watch"),
				OnChange: func(ctx context.Context, changed []string) error {
					fmt.Fprintln(app.stderr, VerboseStyle.Render("changed: "+strings.Join(changed, ", ")))
					return printAll(ctx)
				},
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(app.stderr, SubtitleStyle.Render("watching "+dirs[0]+" (Ctrl+C to stop)"))
			return w.Run(ctx)
		},
	}

	addBuildCommandFlag(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")
	cmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "re-resolve when package.json or .github changes")
	return cmd
}

func addBuildCommandFlag(cmd *cobra.Command) {
	cmd.Flags().String(buildCommandFlag, "", `build command override, "&&"-separated (default $`+inputs.EnvVar(inputs.BuildCommandInput)+")")
}

// overrideFrom returns --build-command when set, else the action input.
func overrideFrom(cmd *cobra.Command, app *App) string {
	if f := cmd.Flags().Lookup(buildCommandFlag); f != nil && f.Changed {
		return f.Value.String()
	}
	return app.Inputs.BuildCommand()
}

func printResolutions(w io.Writer, results []buildcmd.Resolution, asJSON bool) error {
	if asJSON {
		return writeResolutionsJSON(w, results)
	}
	if len(results) == 1 {
		fmt.Fprintln(w, results[0].Pipeline.String())
		return nil
	}
	for _, res := range results {
		fmt.Fprintln(w, TitleStyle.Render(res.Dir))
		renderSteps(w, res.Pipeline)
	}
	return nil
}

func writeResolutionsJSON(w io.Writer, results []buildcmd.Resolution) error {
	out := make([]resolutionJSON, len(results))
	for i, res := range results {
		out[i] = resolutionJSON{
			Dir:      res.Dir,
			Detected: res.Detected.String(),
			Command:  res.Pipeline.String(),
			Steps:    res.Pipeline,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	return nil
}

// renderSteps prints one numbered line per pipeline step.
func renderSteps(w io.Writer, p buildcmd.Pipeline) {
	for i, step := range p {
		fmt.Fprintf(w, "%s%s\n", stepIndexStyle.Render(fmt.Sprintf("%d.", i+1)), CmdStyle.Render(step))
	}
}
