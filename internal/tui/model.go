// Package tui renders a chat session in the terminal with bubbletea.
// The model never owns conversation state: it forwards user intents to the
// session and redraws from the snapshots the session pushes.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"humblebot/internal/config"
	chatModels "humblebot/internal/domain/models/chat"
	chatSvc "humblebot/internal/domain/services/chat"
)

// Suggestions shown on the empty screen; Tab inserts the next one
var Suggestions = []string{
	"Tell me a fun fact",
	"Help me with coding",
	"Explain quantum computing",
	"Write a short story",
}

// DefaultErrorTimeout is how long the error bar stays before it is dismissed
const DefaultErrorTimeout = 4 * time.Second

const (
	headerHeight = 2
	inputHeight  = 3
	footerHeight = 1
	statusHeight = 1
)

// Options configures the chat view
type Options struct {
	// Subtitle is shown next to the title, e.g. "lorem · lorem"
	Subtitle string
	// ErrorTimeout overrides DefaultErrorTimeout; <= 0 keeps the default
	ErrorTimeout time.Duration
	// GlamourStyle selects a glamour standard style; empty means auto-detect
	GlamourStyle string
}

type (
	snapshotMsg      struct{ snap chatModels.Snapshot }
	sessionClosedMsg struct{}
	// dismissErrorMsg fires after ErrorTimeout; seq ties it to the error it was armed for
	dismissErrorMsg struct{ seq uint64 }
)

// Model is the bubbletea model for the chat screen
type Model struct {
	ctx         context.Context
	session     chatSvc.Session
	updates     <-chan chatModels.Snapshot
	unsubscribe func()
	snap        chatModels.Snapshot

	textinput textinput.Model
	viewport  viewport.Model
	spinner   spinner.Model
	renderer  *glamour.TermRenderer
	styles    Styles

	subtitle     string
	glamourStyle string
	errorTimeout time.Duration

	width      int
	height     int
	ready      bool
	suggestion int

	errorKey string // identifies the error currently shown
	errorSeq uint64
}

// New creates a chat model subscribed to session. Call Close when the program exits.
func New(ctx context.Context, session chatSvc.Session, opts Options) *Model {
	styles := DefaultStyles()

	ti := textinput.New()
	ti.Placeholder = "Type a message..."
	ti.Prompt = "› "
	ti.CharLimit = config.MaxMessageLength
	ti.Width = 76
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	errorTimeout := opts.ErrorTimeout
	if errorTimeout <= 0 {
		errorTimeout = DefaultErrorTimeout
	}

	updates, unsubscribe := session.Subscribe()

	m := &Model{
		ctx:          ctx,
		session:      session,
		updates:      updates,
		unsubscribe:  unsubscribe,
		snap:         session.Snapshot(),
		textinput:    ti,
		viewport:     viewport.New(80, 20),
		spinner:      sp,
		styles:       styles,
		subtitle:     opts.Subtitle,
		glamourStyle: opts.GlamourStyle,
		errorTimeout: errorTimeout,
	}
	m.renderer = m.newRenderer(80)
	return m
}

// Close stops observing the session
func (m *Model) Close() {
	m.unsubscribe()
}

func (m *Model) newRenderer(wrap int) *glamour.TermRenderer {
	style := glamour.WithAutoStyle()
	if m.glamourStyle != "" {
		style = glamour.WithStandardStyle(m.glamourStyle)
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(wrap))
	if err != nil {
		return nil
	}
	return r
}

// waitForSnapshot blocks on the subscription and turns the next snapshot into a message
func waitForSnapshot(updates <-chan chatModels.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-updates
		if !ok {
			return sessionClosedMsg{}
		}
		return snapshotMsg{snap: snap}
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		waitForSnapshot(m.updates),
	)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit

		case tea.KeyEnter:
			return m, m.submit()

		case tea.KeyCtrlL:
			m.session.ClearChat(m.ctx)
			return m, nil

		case tea.KeyEsc:
			m.session.ClearError(m.ctx)
			return m, nil

		case tea.KeyTab:
			m.insertSuggestion()
			return m, nil
		}

		var cmd tea.Cmd
		m.textinput, cmd = m.textinput.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case snapshotMsg:
		wasBusy := m.snap.Busy
		m.snap = msg.snap
		m.refreshViewport()

		cmds := []tea.Cmd{waitForSnapshot(m.updates)}
		if cmd := m.armErrorDismissal(); cmd != nil {
			cmds = append(cmds, cmd)
		}
		if m.snap.Busy && !wasBusy {
			cmds = append(cmds, m.spinner.Tick)
		}
		return m, tea.Batch(cmds...)

	case dismissErrorMsg:
		if msg.seq == m.errorSeq && m.snap.HasError() {
			m.errorKey = ""
			m.session.ClearError(m.ctx)
		}
		return m, nil

	case sessionClosedMsg:
		return m, tea.Quit

	case spinner.TickMsg:
		if !m.snap.Busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.textinput, cmd = m.textinput.Update(msg)
	return m, cmd
}

// submit hands the input to the session. Sending is disabled while a reply is pending.
func (m *Model) submit() tea.Cmd {
	if m.snap.Busy {
		return nil
	}
	text := m.textinput.Value()
	if strings.TrimSpace(text) == "" {
		return nil
	}

	m.session.SendMessage(m.ctx, text)
	m.textinput.Reset()
	return nil
}

// insertSuggestion fills the input with the next suggestion. Suggestions are only
// offered while the empty state is on screen.
func (m *Model) insertSuggestion() {
	if !showEmptyState(m.snap) {
		return
	}
	m.textinput.SetValue(Suggestions[m.suggestion])
	m.textinput.CursorEnd()
	m.suggestion = (m.suggestion + 1) % len(Suggestions)
}

// armErrorDismissal schedules ClearError for a newly shown error
func (m *Model) armErrorDismissal() tea.Cmd {
	if !m.snap.HasError() {
		m.errorKey = ""
		return nil
	}

	key := failureKey(m.snap)
	if key == m.errorKey {
		return nil
	}
	m.errorKey = key
	m.errorSeq++

	seq := m.errorSeq
	return tea.Tick(m.errorTimeout, func(time.Time) tea.Msg {
		return dismissErrorMsg{seq: seq}
	})
}

// failureKey identifies one failure. Every failure follows its own user message, and
// message timestamps are never reused in a session, even across ClearChat.
func failureKey(snap chatModels.Snapshot) string {
	var sentAt int64
	for i := len(snap.Messages) - 1; i >= 0; i-- {
		if snap.Messages[i].IsFromUser {
			sentAt = snap.Messages[i].Timestamp
			break
		}
	}
	return fmt.Sprintf("%d:%s", sentAt, snap.ErrorText())
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	vpHeight := height - headerHeight - inputHeight - footerHeight - statusHeight
	if vpHeight < 3 {
		vpHeight = 3
	}
	if !m.ready {
		m.viewport = viewport.New(width, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = vpHeight
	}

	m.textinput.Width = width - 6
	m.renderer = m.newRenderer(bubbleWidth(width))
	m.refreshViewport()
}

func (m *Model) refreshViewport() {
	m.viewport.SetContent(m.renderConversation())
	m.viewport.GotoBottom()
}
