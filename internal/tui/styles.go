package tui

import "github.com/charmbracelet/lipgloss"

// Palette. AdaptiveColor picks Light or Dark from the terminal background.
var (
	colorPrimary   = lipgloss.AdaptiveColor{Light: "#3F51B5", Dark: "#9FA8DA"}
	colorUserBg    = lipgloss.AdaptiveColor{Light: "#3F51B5", Dark: "#3949AB"}
	colorUserFg    = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FFFFFF"}
	colorAIBg      = lipgloss.AdaptiveColor{Light: "#ECEFF1", Dark: "#263238"}
	colorMuted     = lipgloss.AdaptiveColor{Light: "#78909C", Dark: "#78909C"}
	colorError     = lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#EF9A9A"}
	colorErrorBg   = lipgloss.AdaptiveColor{Light: "#FFEBEE", Dark: "#4E1F1F"}
	colorHighlight = lipgloss.AdaptiveColor{Light: "#00897B", Dark: "#80CBC4"}
)

// Styles groups every style the chat view uses
type Styles struct {
	Title      lipgloss.Style
	Subtitle   lipgloss.Style
	UserBubble lipgloss.Style
	AIBubble   lipgloss.Style
	AILabel    lipgloss.Style
	Timestamp  lipgloss.Style
	Typing     lipgloss.Style
	Spinner    lipgloss.Style
	ErrorBar   lipgloss.Style
	Empty      lipgloss.Style
	Suggestion lipgloss.Style
	Selected   lipgloss.Style
	Input      lipgloss.Style
	Help       lipgloss.Style
}

// DefaultStyles returns the default chat styles
func DefaultStyles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(colorPrimary),
		Subtitle: lipgloss.NewStyle().Foreground(colorMuted),
		UserBubble: lipgloss.NewStyle().
			Foreground(colorUserFg).
			Background(colorUserBg).
			Padding(0, 1).
			MarginTop(1),
		AIBubble: lipgloss.NewStyle().
			Background(colorAIBg).
			Padding(0, 1),
		AILabel:   lipgloss.NewStyle().Bold(true).Foreground(colorHighlight).MarginTop(1),
		Timestamp: lipgloss.NewStyle().Foreground(colorMuted).Italic(true),
		Typing:    lipgloss.NewStyle().Foreground(colorMuted).Italic(true),
		Spinner:   lipgloss.NewStyle().Foreground(colorHighlight),
		ErrorBar: lipgloss.NewStyle().
			Foreground(colorError).
			Background(colorErrorBg).
			Bold(true).
			Padding(0, 1),
		Empty:      lipgloss.NewStyle().Foreground(colorMuted).Align(lipgloss.Center),
		Suggestion: lipgloss.NewStyle().Foreground(colorMuted).Border(lipgloss.RoundedBorder()).BorderForeground(colorMuted).Padding(0, 1),
		Selected:   lipgloss.NewStyle().Foreground(colorHighlight).Border(lipgloss.RoundedBorder()).BorderForeground(colorHighlight).Padding(0, 1),
		Input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(0, 1),
		Help: lipgloss.NewStyle().Foreground(colorMuted),
	}
}
