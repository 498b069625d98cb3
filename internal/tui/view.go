package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	chatModels "humblebot/internal/domain/models/chat"
)

const helpText = "enter send • tab suggestion • ctrl+l clear chat • esc dismiss error • ctrl+c quit"

// bubbleWidth caps message bubbles at roughly three quarters of the screen
func bubbleWidth(width int) int {
	w := width * 3 / 4
	if w < 20 {
		w = 20
	}
	return w
}

func (m *Model) View() string {
	if !m.ready {
		return "Starting HumbleBot..."
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.viewport.View(),
		m.renderStatus(),
		m.styles.Input.Width(m.width-2).Render(m.textinput.View()),
		m.styles.Help.Render(helpText),
	)
}

func (m *Model) renderHeader() string {
	title := m.styles.Title.Render("HumbleBot")
	if m.subtitle != "" {
		title += "  " + m.styles.Subtitle.Render(m.subtitle)
	}
	return title + "\n"
}

// renderStatus shows the typing indicator or the error bar, one line either way
func (m *Model) renderStatus() string {
	switch {
	case m.snap.HasError():
		return m.styles.ErrorBar.Render("⚠ " + m.snap.ErrorText() + "  (esc to dismiss)")
	case m.snap.Busy:
		return m.spinner.View() + " " + m.styles.Typing.Render("HumbleBot is typing...")
	default:
		return ""
	}
}

// showEmptyState is true for a fresh or cleared chat with no reply pending
func showEmptyState(snap chatModels.Snapshot) bool {
	return len(snap.Messages) == 0 && !snap.Busy
}

func (m *Model) renderConversation() string {
	if showEmptyState(m.snap) {
		return m.renderEmptyState()
	}

	var sb strings.Builder
	for _, msg := range m.snap.Messages {
		sb.WriteString(m.renderMessage(msg))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m *Model) renderMessage(msg chatModels.Message) string {
	width := m.width
	if width <= 0 {
		width = 80
	}
	maxBubble := bubbleWidth(width)
	stamp := m.styles.Timestamp.Render(msg.CreatedAt.Format("15:04"))

	if msg.IsFromUser {
		bubble := m.styles.UserBubble.MaxWidth(maxBubble).Render(wrap(msg.Text, maxBubble-2))
		return lipgloss.PlaceHorizontal(width, lipgloss.Right,
			lipgloss.JoinVertical(lipgloss.Right, bubble, stamp))
	}

	label := m.styles.AILabel.Render("HumbleBot")
	body := m.styles.AIBubble.MaxWidth(maxBubble).Render(strings.TrimRight(m.renderMarkdown(msg.Text), "\n"))
	return lipgloss.JoinVertical(lipgloss.Left, label, body, stamp)
}

// renderMarkdown renders AI text with glamour, falling back to plain text
func (m *Model) renderMarkdown(content string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			result = content
		}
	}()

	if m.renderer != nil && content != "" {
		if rendered, err := m.renderer.Render(content); err == nil {
			return strings.TrimSpace(rendered)
		}
	}
	return content
}

func (m *Model) renderEmptyState() string {
	width := m.width
	if width <= 0 {
		width = 80
	}

	lines := []string{
		m.styles.Title.Render("Start a conversation"),
		m.styles.Empty.Render("Ask anything, or press tab to use a suggestion:"),
		"",
	}
	next := m.suggestion % len(Suggestions)
	for i, s := range Suggestions {
		style := m.styles.Suggestion
		if i == next {
			style = m.styles.Selected
		}
		lines = append(lines, style.Render(s))
	}

	block := lipgloss.JoinVertical(lipgloss.Center, lines...)
	return lipgloss.Place(width, m.viewport.Height, lipgloss.Center, lipgloss.Center, block)
}

// wrap breaks text into lines of at most width runes on word boundaries
func wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	var out []string
	for _, para := range strings.Split(text, "\n") {
		line := ""
		for _, word := range strings.Fields(para) {
			switch {
			case line == "":
				line = word
			case len([]rune(line))+1+len([]rune(word)) <= width:
				line += " " + word
			default:
				out = append(out, line)
				line = word
			}
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
