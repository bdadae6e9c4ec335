package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	primaryColor   = lipgloss.Color("#7C3AED") // Purple
	secondaryColor = lipgloss.Color("#10B981") // Green
	mutedColor     = lipgloss.Color("#6B7280") // Gray
	errorColor     = lipgloss.Color("#EF4444") // Red
	warningColor   = lipgloss.Color("#F59E0B") // Amber/Yellow

	// Header styles
	headerContainerStyle = lipgloss.NewStyle().
				Background(primaryColor)

	headerBrandStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(primaryColor).
				Padding(0, 1)

	headerProgramStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#E0E0E0")).
				Background(primaryColor)

	headerStateStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#E0E0E0")).
				Background(primaryColor).
				Padding(0, 1)

	headerRunningStyle = lipgloss.NewStyle().
				Foreground(secondaryColor).
				Background(primaryColor).
				Bold(true).
				Padding(0, 1)

	headerExitedStyle = lipgloss.NewStyle().
				Foreground(errorColor).
				Background(primaryColor).
				Padding(0, 1)

	// Status bar style
	statusStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Padding(0, 1)

	// Output view styles
	outputBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(mutedColor)

	outputEmptyStyle = lipgloss.NewStyle().
				Foreground(mutedColor).
				Padding(1, 2)

	outputCommandStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true) // green
	outputConsoleStyle = lipgloss.NewStyle()
	outputProgramStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")) // blue
	outputRecordStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))  // gray
	outputNoticeStyle  = lipgloss.NewStyle().Foreground(warningColor)
	outputErrorStyle   = lipgloss.NewStyle().Foreground(errorColor)

	// Input line styles
	inputLineStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#2D2D2D")).
			Padding(0, 1)

	inputLineFocusedStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("#3B3B3B")).
				Padding(0, 1)

	// Error display styles
	errorBarStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Padding(0, 1)
)
