package tui

import "github.com/charmbracelet/lipgloss"

// Color palette.
const (
	ColorHeader   = lipgloss.Color("39")  // blue
	ColorBorder   = lipgloss.Color("240") // gray
	ColorLabel    = lipgloss.Color("245")
	ColorValue    = lipgloss.Color("255")
	ColorMuted    = lipgloss.Color("241")
	ColorOK       = lipgloss.Color("42")  // green
	ColorWarning  = lipgloss.Color("214") // orange
	ColorCritical = lipgloss.Color("196") // red
	ColorSpinner  = lipgloss.Color("69")
	ColorAlias    = lipgloss.Color("141") // purple
)

// Icons.
const (
	IconCheck   = "✓"
	IconWarning = "⚠"
	IconCross   = "✗"
	IconBullet  = "•"
)

// Shared styles.
//
//nolint:gochecknoglobals // Read-only style definitions.
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorHeader)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorHeader).
			Border(lipgloss.NormalBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	LabelStyle = lipgloss.NewStyle().Foreground(ColorLabel)

	ValueStyle = lipgloss.NewStyle().Foreground(ColorValue).Bold(true)

	SubtleStyle = lipgloss.NewStyle().Foreground(ColorMuted)

	OKStyle = lipgloss.NewStyle().Foreground(ColorOK).Bold(true)

	WarningStyle = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)

	CriticalStyle = lipgloss.NewStyle().Foreground(ColorCritical).Bold(true)

	AliasStyle = lipgloss.NewStyle().Foreground(ColorAlias)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	ErrorBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorCritical).
			Padding(0, 1)

	HelpStyle = lipgloss.NewStyle().Foreground(ColorMuted).Italic(true)
)

// Layout.
const (
	defaultWidth  = 80
	defaultHeight = 24
	borderPadding = 4
	labelWidth    = 16
)
