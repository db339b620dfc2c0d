package theme

import "github.com/charmbracelet/lipgloss"

// Colors - muted grays with a soft blue accent
var (
	TextPrimary   = lipgloss.Color("#e0e0e0") // Light gray text
	TextSecondary = lipgloss.Color("#888888") // Muted text
	Accent        = lipgloss.Color("#7c9fc7") // Soft blue accent
	Error         = lipgloss.Color("#d46a6a") // Soft red
	Success       = lipgloss.Color("#6ad47c") // Soft green
	Warning       = lipgloss.Color("#d4a96a") // Soft orange
)

// Base styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(TextSecondary)

	TextStyle = lipgloss.NewStyle().
			Foreground(TextPrimary)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Error)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Success)

	WarningStyle = lipgloss.NewStyle().
			Foreground(Warning)

	HintStyle = lipgloss.NewStyle().
			Foreground(TextSecondary).
			Italic(true)
)
