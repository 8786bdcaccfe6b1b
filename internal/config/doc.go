// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/relbuild/config.cue (or XDG equivalent on Linux,
// ~/Library/Application Support/relbuild/config.cue on macOS, %APPDATA%\relbuild\config.cue
// on Windows). Files are validated against an embedded CUE schema (config_schema.cue)
// before being merged over the defaults; RELBUILD_* environment variables win over both.
package config
