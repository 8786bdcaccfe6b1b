// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/relbuild/relbuild/internal/repoconfig"
)

// newRepoConfigCommand creates the `relbuild repo-config` command.
func newRepoConfigCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "repo-config [file]",
		Short: "Decode a repository config file and print it as JSON",
		Long: `Decode a repository config file and print it as JSON.

The file may hold a YAML mapping or the base64 encoding of one, as returned
by the contents API. With no file, the content is read from stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				cfg map[string]any
				err error
			)
			if len(args) == 1 {
				cfg, err = repoconfig.ParseFile(app.Fs, args[0])
			} else {
				var data []byte
				if data, err = io.ReadAll(cmd.InOrStdin()); err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				cfg, err = repoconfig.ParseContent(data)
			}
			if err != nil {
				return err
			}

			enc := json.NewEncoder(app.stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(cfg); err != nil {
				return fmt.Errorf("failed to encode config: %w", err)
			}
			return nil
		},
	}
}
