// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
)

const (
	// RuntimeNative runs pipeline commands with the host shell.
	RuntimeNative RuntimeMode = "native"
	// RuntimeVirtual runs pipeline commands in the embedded mvdan/sh interpreter.
	RuntimeVirtual RuntimeMode = "virtual"

	// LogLevelDebug logs everything, including resolution details.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo logs step progress.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn logs warnings and errors.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError logs errors only.
	LogLevelError LogLevel = "error"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// maxParallelLimit mirrors the schema bound on max_parallel.
	maxParallelLimit = 64
)

var (
	// ErrInvalidRuntimeMode is returned when a RuntimeMode value is not recognized.
	ErrInvalidRuntimeMode = errors.New("invalid runtime mode")
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidMaxParallel is returned when max_parallel is out of range.
	ErrInvalidMaxParallel = errors.New("invalid max_parallel")
)

type (
	// RuntimeMode selects how pipeline commands are executed.
	RuntimeMode string

	// LogLevel is the minimum log level.
	LogLevel string

	// ColorScheme selects terminal rendering.
	ColorScheme string

	// InvalidValueError reports an unrecognized enum value. It wraps the
	// field's sentinel error for errors.Is() compatibility.
	InvalidValueError struct {
		Field    string
		Value    string
		Sentinel error
	}

	// Config is the complete relbuild configuration.
	Config struct {
		Runtime     RuntimeMode `json:"runtime" yaml:"runtime" mapstructure:"runtime"`
		LogLevel    LogLevel    `json:"log_level" yaml:"log_level" mapstructure:"log_level"`
		MaxParallel int         `json:"max_parallel" yaml:"max_parallel" mapstructure:"max_parallel"`
		UI          UIConfig    `json:"ui" yaml:"ui" mapstructure:"ui"`
	}

	// UIConfig holds terminal output settings.
	UIConfig struct {
		Verbose     bool        `json:"verbose" yaml:"verbose" mapstructure:"verbose"`
		ColorScheme ColorScheme `json:"color_scheme" yaml:"color_scheme" mapstructure:"color_scheme"`
	}
)

// Error implements the error interface.
func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("%s: invalid value %q", e.Field, e.Value)
}

// Unwrap returns the field sentinel.
func (e *InvalidValueError) Unwrap() error { return e.Sentinel }

// Validate returns an error if the RuntimeMode is not recognized.
func (m RuntimeMode) Validate() error {
	switch m {
	case RuntimeNative, RuntimeVirtual:
		return nil
	default:
		return &InvalidValueError{Field: "runtime", Value: string(m), Sentinel: ErrInvalidRuntimeMode}
	}
}

// Validate returns an error if the LogLevel is not recognized.
func (l LogLevel) Validate() error {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return nil
	default:
		return &InvalidValueError{Field: "log_level", Value: string(l), Sentinel: ErrInvalidLogLevel}
	}
}

// Validate returns an error if the ColorScheme is not recognized.
func (c ColorScheme) Validate() error {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return nil
	default:
		return &InvalidValueError{Field: "ui.color_scheme", Value: string(c), Sentinel: ErrInvalidColorScheme}
	}
}

// GlamourStyle maps the scheme to a glamour style name.
func (c ColorScheme) GlamourStyle() string {
	switch c {
	case ColorSchemeDark:
		return "dark"
	case ColorSchemeLight:
		return "light"
	default:
		return "auto"
	}
}

// Validate checks every field and returns all problems joined.
func (c *Config) Validate() error {
	errs := []error{
		c.Runtime.Validate(),
		c.LogLevel.Validate(),
		c.UI.ColorScheme.Validate(),
	}
	if c.MaxParallel < 1 || c.MaxParallel > maxParallelLimit {
		errs = append(errs, fmt.Errorf("%w: %d (must be 1-%d)", ErrInvalidMaxParallel, c.MaxParallel, maxParallelLimit))
	}
	return errors.Join(errs...)
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Runtime:     RuntimeNative,
		LogLevel:    LogLevelInfo,
		MaxParallel: 4,
		UI: UIConfig{
			Verbose:     false,
			ColorScheme: ColorSchemeAuto,
		},
	}
}
