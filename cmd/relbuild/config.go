// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/relbuild/relbuild/internal/config"
)

// newConfigCommand creates the `relbuild config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage relbuild configuration",
		Long: `Manage relbuild configuration.

Configuration is stored in:
  - Linux: ~/.config/relbuild/config.cue
  - macOS: ~/Library/Application Support/relbuild/config.cue
  - Windows: %APPDATA%\relbuild\config.cue

RELBUILD_RUNTIME, RELBUILD_LOG_LEVEL, RELBUILD_MAX_PARALLEL and
RELBUILD_UI_* environment variables override file values.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd, app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath(app)
			if err != nil {
				return err
			}
			fmt.Fprintln(app.stdout, path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath(app)
			if err != nil {
				return err
			}
			if err := config.WriteDefault(path); err != nil {
				return err
			}
			fmt.Fprintf(app.stdout, "%s created %s\n", SuccessStyle.Render("✓"), CmdStyle.Render(path))
			return nil
		},
	})

	var format string
	dumpCmd := &cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE or YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: app.flags.cfgFile})
			if err != nil {
				return err
			}
			switch format {
			case "cue":
				fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			case "yaml":
				out, err := yaml.Marshal(cfg)
				if err != nil {
					return fmt.Errorf("failed to encode config: %w", err)
				}
				fmt.Fprint(app.stdout, string(out))
			default:
				return fmt.Errorf("unknown format %q (want cue or yaml)", format)
			}
			return nil
		},
	}
	dumpCmd.Flags().StringVar(&format, "format", "cue", "output format: cue or yaml")
	cfgCmd.AddCommand(dumpCmd)

	return cfgCmd
}

// configPath returns --config when set, else the user config file path.
func configPath(app *App) (string, error) {
	if app.flags.cfgFile != "" {
		return app.flags.cfgFile, nil
	}
	return config.ConfigFilePath("")
}

// configResolver is implemented by providers that can name the file they read.
type configResolver interface {
	Resolve(ctx context.Context, opts config.LoadOptions) (*config.Config, string, error)
}

func showConfig(cmd *cobra.Command, app *App) error {
	var (
		cfg      *config.Config
		resolved string
		err      error
	)
	opts := config.LoadOptions{ConfigFilePath: app.flags.cfgFile}
	if r, ok := app.Config.(configResolver); ok {
		cfg, resolved, err = r.Resolve(cmd.Context(), opts)
	} else {
		cfg, err = app.Config.Load(cmd.Context(), opts)
	}
	if err != nil {
		app.renderIssue(err)
		return err
	}

	keyStyle := CmdStyle
	valueStyle := SuccessStyle
	w := app.stdout

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)
	if resolved != "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), resolved)
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("runtime"), valueStyle.Render(string(cfg.Runtime)))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("log_level"), valueStyle.Render(string(cfg.LogLevel)))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("max_parallel"), valueStyle.Render(fmt.Sprint(cfg.MaxParallel)))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(w, "  verbose: %s\n", valueStyle.Render(fmt.Sprint(cfg.UI.Verbose)))
	fmt.Fprintf(w, "  color_scheme: %s\n", valueStyle.Render(string(cfg.UI.ColorScheme)))
	return nil
}
