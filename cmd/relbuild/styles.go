// SPDX-License-Identifier: MPL-2.0

package cmd

import "github.com/charmbracelet/lipgloss"

// Palette. Each color has a light and a dark terminal variant.
var (
	colorPrimary   = lipgloss.AdaptiveColor{Light: "#5B21B6", Dark: "#7C3AED"}
	colorMuted     = lipgloss.AdaptiveColor{Light: "#4B5563", Dark: "#6B7280"}
	colorSuccess   = lipgloss.AdaptiveColor{Light: "#047857", Dark: "#10B981"}
	colorError     = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#EF4444"}
	colorWarning   = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#F59E0B"}
	colorHighlight = lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#3B82F6"}
	colorVerbose   = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
)

var (
	// TitleStyle renders headers and project directories.
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	// SubtitleStyle renders secondary text.
	SubtitleStyle = lipgloss.NewStyle().Foreground(colorMuted)
	// SuccessStyle renders check marks and configuration values.
	SuccessStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	// ErrorStyle renders failure markers.
	ErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(colorError)
	// WarningStyle renders the "Warning:" prefix.
	WarningStyle = lipgloss.NewStyle().Foreground(colorWarning)
	// CmdStyle renders shell commands, script names and paths.
	CmdStyle = lipgloss.NewStyle().Foreground(colorHighlight)
	// VerboseStyle renders -v diagnostics.
	VerboseStyle = lipgloss.NewStyle().Foreground(colorVerbose)

	// stepIndexStyle right-aligns "N." in front of pipeline steps.
	stepIndexStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Width(4).
			Align(lipgloss.Right).
			MarginRight(1)
)
