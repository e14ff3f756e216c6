package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/inveropulse/interact/internal/gesture"
)

// Palette.
const (
	ColorHeader    = lipgloss.Color("12")
	ColorLabel     = lipgloss.Color("245")
	ColorValue     = lipgloss.Color("255")
	ColorMuted     = lipgloss.Color("240")
	ColorHighlight = lipgloss.Color("229")
	ColorOK        = lipgloss.Color("42")
	ColorWarning   = lipgloss.Color("214")
	ColorCritical  = lipgloss.Color("196")
	ColorPrimary   = lipgloss.Color("33")
)

// Shared styles.
//
//nolint:gochecknoglobals // lipgloss styles are immutable values shared by every view
var (
	HeaderStyle   = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	LabelStyle    = lipgloss.NewStyle().Foreground(ColorLabel)
	ValueStyle    = lipgloss.NewStyle().Foreground(ColorValue).Bold(true)
	SubtleStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
	SelectedStyle = lipgloss.NewStyle().Foreground(ColorHighlight).Bold(true)
	OKStyle       = lipgloss.NewStyle().Foreground(ColorOK)
	WarningStyle  = lipgloss.NewStyle().Foreground(ColorWarning)
	CriticalStyle = lipgloss.NewStyle().Foreground(ColorCritical).Bold(true)
)

// actionStyle returns the reveal panel style for an action colour.
func actionStyle(c gesture.Color) lipgloss.Style {
	bg := ColorPrimary
	switch c {
	case gesture.ColorSuccess:
		bg = ColorOK
	case gesture.ColorWarning:
		bg = ColorWarning
	case gesture.ColorDanger:
		bg = ColorCritical
	case gesture.ColorPrimary:
	}
	return lipgloss.NewStyle().Background(bg).Foreground(lipgloss.Color("0")).Bold(true)
}

// LoadingState is a spinner with a message.
type LoadingState struct {
	spinner spinner.Model
	message string
}

// NewLoadingState returns a dot spinner.
func NewLoadingState(message string) *LoadingState {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ColorHeader)
	return &LoadingState{spinner: s, message: message}
}

// Tick starts the spinner animation.
func (l *LoadingState) Tick() tea.Cmd {
	return l.spinner.Tick
}

// Update advances the spinner on its own tick messages.
func (l *LoadingState) Update(msg spinner.TickMsg) tea.Cmd {
	var cmd tea.Cmd
	l.spinner, cmd = l.spinner.Update(msg)
	return cmd
}

// View renders the spinner and message.
func (l *LoadingState) View() string {
	return l.spinner.View() + " " + l.message
}
