package tui

import "github.com/charmbracelet/lipgloss"

// AppName is the title shown at the top of every screen
const AppName = "LOCATION VOITURE"

// Color palette
var (
	PrimaryColor   = lipgloss.Color("#7D56F4")
	SecondaryColor = lipgloss.Color("#43BF6D")
	ErrorColor     = lipgloss.Color("#FF0000")
	WarningColor   = lipgloss.Color("#FFA500")
	TextColor      = lipgloss.Color("#FFFFFF")
	SubtleColor    = lipgloss.Color("#626262")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true).
			Padding(1, 0).
			MarginBottom(1)

	StepStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	CurrentStepStyle = lipgloss.NewStyle().
				Foreground(PrimaryColor).
				Bold(true).
				Underline(true)

	FieldStyle = lipgloss.NewStyle().
			PaddingLeft(2).
			Foreground(TextColor)

	SelectedFieldStyle = lipgloss.NewStyle().
				Foreground(SecondaryColor).
				Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Width(22)

	HintStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Italic(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Bold(true).
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(SecondaryColor)

	LinkStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Underline(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Padding(1, 0)
)
