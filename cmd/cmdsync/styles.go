// SPDX-License-Identifier: MPL-2.0

package main

import "github.com/charmbracelet/lipgloss"

// Palette tuned for dark terminal backgrounds.
const (
	ColorPrimary   = lipgloss.Color("#5865F2")
	ColorMuted     = lipgloss.Color("#6B7280")
	ColorSuccess   = lipgloss.Color("#10B981")
	ColorError     = lipgloss.Color("#EF4444")
	ColorWarning   = lipgloss.Color("#F59E0B")
	ColorHighlight = lipgloss.Color("#3B82F6")
)

var (
	TitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	SubtitleStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	SuccessStyle  = lipgloss.NewStyle().Foreground(ColorSuccess)
	ErrorStyle    = lipgloss.NewStyle().Bold(true).Foreground(ColorError)
	WarningStyle  = lipgloss.NewStyle().Foreground(ColorWarning)
	CmdStyle      = lipgloss.NewStyle().Foreground(ColorHighlight)

	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary).Padding(0, 1)
	tableCellStyle   = lipgloss.NewStyle().Padding(0, 1)
)
