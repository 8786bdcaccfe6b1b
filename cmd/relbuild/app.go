// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/relbuild/relbuild/internal/buildcmd"
	"github.com/relbuild/relbuild/internal/config"
	"github.com/relbuild/relbuild/internal/event"
	"github.com/relbuild/relbuild/internal/inputs"
)

type (
	// App wires CLI services and shared dependencies. It is the composition root
	// for the CLI layer: every Cobra handler receives an App and delegates to it.
	App struct {
		Config ConfigProvider
		Fs     afero.Fs
		Inputs *inputs.Inputs
		Getenv event.Getenv
		stdout io.Writer
		stderr io.Writer

		flags globalFlags
		cfg   *config.Config
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		Fs     afero.Fs
		Inputs inputs.Source
		Getenv event.Getenv
		Stdout io.Writer
		Stderr io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// globalFlags holds the root persistent flags.
	globalFlags struct {
		verbose bool
		cfgFile string
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Fs == nil {
		deps.Fs = afero.NewOsFs()
	}
	if deps.Getenv == nil {
		deps.Getenv = os.Getenv
	}

	return &App{
		Config: deps.Config,
		Fs:     deps.Fs,
		Inputs: inputs.New(deps.Inputs),
		Getenv: deps.Getenv,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}
}

// loadConfig loads configuration once per invocation. Failures are reported
// as a warning and the defaults are used instead.
func (a *App) loadConfig(ctx context.Context) *config.Config {
	if a.cfg != nil {
		return a.cfg
	}

	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: a.flags.cfgFile})
	if err != nil {
		a.warn(formatErrorForDisplay(err, a.flags.verbose))
		cfg = config.DefaultConfig()
	}
	if !a.flags.verbose {
		a.flags.verbose = cfg.UI.Verbose
	}
	a.cfg = cfg
	return cfg
}

// logger returns a stderr logger at the configured level. --verbose forces debug.
func (a *App) logger(prefix string) *log.Logger {
	level := log.InfoLevel
	if a.cfg != nil {
		if parsed, err := log.ParseLevel(string(a.cfg.LogLevel)); err == nil {
			level = parsed
		}
	}
	if a.flags.verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(a.stderr, log.Options{
		Prefix: prefix,
		Level:  level,
	})
}

// resolver builds a Resolver over the App filesystem.
func (a *App) resolver(ctx context.Context) *buildcmd.Resolver {
	cfg := a.loadConfig(ctx)
	return buildcmd.NewResolver(
		buildcmd.WithFs(a.Fs),
		buildcmd.WithLogger(a.logger("resolve")),
		buildcmd.WithMaxParallel(cfg.MaxParallel),
	)
}

// projectDirs returns args, or the workspace (GITHUB_WORKSPACE, else ".")
// when no directory was given.
func (a *App) projectDirs(args []string) []string {
	if len(args) > 0 {
		dirs := make([]string, len(args))
		for i, arg := range args {
			dirs[i] = filepath.Clean(arg)
		}
		return dirs
	}
	if ws := a.Inputs.Workspace(); ws != "" {
		return []string{ws}
	}
	return []string{"."}
}

func (a *App) warn(msg string) {
	_, _ = io.WriteString(a.stderr, WarningStyle.Render("Warning: ")+msg+"\n")
}
