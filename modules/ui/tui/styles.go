package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	ColorPrimary = lipgloss.Color("#7C3AED") // Purple
	ColorSuccess = lipgloss.Color("#10B981") // Green
	ColorWarning = lipgloss.Color("#F59E0B") // Orange
	ColorError   = lipgloss.Color("#EF4444") // Red
	ColorMuted   = lipgloss.Color("#6B7280") // Gray
	ColorText    = lipgloss.Color("#F9FAFB") // Light
	ColorBorder  = lipgloss.Color("#374151") // Gray border
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	CardLabelStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	CardValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText)

	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorPrimary).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(ColorBorder)

	RowStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	SelectedRowStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorText).
				Background(lipgloss.Color("#1F2937"))

	ChangeUpStyle   = lipgloss.NewStyle().Foreground(ColorSuccess)
	ChangeDownStyle = lipgloss.NewStyle().Foreground(ColorError)

	StatusStableStyle  = lipgloss.NewStyle().Foreground(ColorSuccess)
	StatusWarningStyle = lipgloss.NewStyle().Foreground(ColorWarning)
	StatusAlertStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorError)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	ToastInfoStyle    = lipgloss.NewStyle().Foreground(ColorText)
	ToastSuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	ToastWarningStyle = lipgloss.NewStyle().Foreground(ColorWarning)
	ToastErrorStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorError)
)
