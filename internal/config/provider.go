// SPDX-License-Identifier: MPL-2.0

package config

import "context"

type (
	// LoadOptions selects where configuration comes from.
	LoadOptions struct {
		// ConfigFilePath names a file that must exist. It wins over ConfigDirPath.
		ConfigFilePath string
		// ConfigDirPath replaces the platform config directory.
		ConfigDirPath string
	}

	// Provider loads configuration.
	Provider interface {
		Load(ctx context.Context, opts LoadOptions) (*Config, error)
	}

	// FileProvider reads config.cue files. A non-empty Dir replaces the
	// platform config directory whenever LoadOptions leaves it unset.
	FileProvider struct {
		Dir string
	}
)

// NewProvider returns a FileProvider using the platform config directory.
func NewProvider() *FileProvider {
	return &FileProvider{}
}

// Load implements Provider.
func (p *FileProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	cfg, _, err := p.Resolve(ctx, opts)
	return cfg, err
}

// Resolve is Load that also reports which file was read ("" for defaults).
func (p *FileProvider) Resolve(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	if opts.ConfigDirPath == "" {
		opts.ConfigDirPath = p.Dir
	}
	return loadWithOptions(ctx, opts)
}
