// Package chat provides the interactive TUI for the grievance client: a form
// that submits a grievance and a chat pane that relays messages for it.
package chat

import (
	"context"

	"grievancechat/cmd/grievance/ui"
	"grievancechat/internal/chatlog"
	"grievancechat/internal/relay"
	"grievancechat/internal/session"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

const (
	formPaneWidth = 44
	minPaneWidth  = 10
	inputHeight   = 3
)

// New builds the initial model. Chat controls start disabled.
func New(cfg Config) Model {
	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	relayLogger := cfg.RelayLogger
	if relayLogger == nil {
		relayLogger = logger
	}
	styles := ui.DefaultStyles()
	if cfg.Styles != nil {
		styles = *cfg.Styles
	}

	name := textinput.New()
	name.Placeholder = "Your full name"
	name.Prompt = ""
	name.Focus()

	email := textinput.New()
	email.Placeholder = "Your email"
	email.Prompt = ""

	grievance := textarea.New()
	grievance.Placeholder = "Describe your grievance"
	grievance.ShowLineNumbers = false
	grievance.SetHeight(5)

	message := textinput.New()
	message.Placeholder = "Submit a grievance to start chatting"
	message.Prompt = "> "

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	m := Model{
		name:      name,
		email:     email,
		grievance: grievance,
		message:   message,
		viewport:  viewport.New(minPaneWidth, 1),
		spinner:   sp,
		help:      help.New(),
		keys:      defaultKeyMap(),
		styles:    styles,
		ctx:       ctx,
		submitter: relay.NewSubmitter(cfg.Backend, relayLogger),
		relay:     relay.NewChatRelay(cfg.Backend, relayLogger),
		logger:    logger,
		baseURL:   cfg.BaseURL,
		session:   session.New(),
		log:       chatlog.New(),
		focus:     FocusName,
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Session returns the current grievance session.
func (m Model) Session() *session.Session {
	return m.session
}

// Log returns the chat log view model.
func (m Model) Log() *chatlog.Log {
	return m.log
}

// ChatEnabled reports whether the message input and send control are active.
func (m Model) ChatEnabled() bool {
	return m.chatEnabled
}

// form reads the three form fields.
func (m Model) form() relay.Form {
	return relay.Form{
		Name:      m.name.Value(),
		Email:     m.email.Value(),
		Grievance: m.grievance.Value(),
	}
}

func (m *Model) resetForm() {
	m.name.Reset()
	m.email.Reset()
	m.grievance.Reset()
}

// focusOrder lists the focusable inputs; the message input joins once chat is
// enabled.
func (m Model) focusOrder() []Focus {
	order := []Focus{FocusName, FocusEmail, FocusGrievance}
	if m.chatEnabled {
		order = append(order, FocusMessage)
	}
	return order
}

// cycleFocus moves focus by delta through focusOrder.
func (m *Model) cycleFocus(delta int) tea.Cmd {
	order := m.focusOrder()
	idx := 0
	for i, f := range order {
		if f == m.focus {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(order)) % len(order)
	return m.setFocus(order[idx])
}

func (m *Model) setFocus(f Focus) tea.Cmd {
	if f == FocusMessage && !m.chatEnabled {
		f = FocusName
	}
	m.focus = f
	m.name.Blur()
	m.email.Blur()
	m.grievance.Blur()
	m.message.Blur()

	switch f {
	case FocusName:
		return m.name.Focus()
	case FocusEmail:
		return m.email.Focus()
	case FocusGrievance:
		return m.grievance.Focus()
	case FocusMessage:
		return m.message.Focus()
	}
	return nil
}

// enableChat unlocks the message input and send control.
func (m *Model) enableChat() {
	m.chatEnabled = true
	m.message.Placeholder = "Say hello or type your message... (/image <path> to attach)"
}

// refreshLog re-renders the log into the viewport and scrolls to the newest
// entry.
func (m *Model) refreshLog() {
	m.viewport.SetContent(m.renderHistory())
	m.viewport.GotoBottom()
}

// layout sizes components for the current window.
func (m *Model) layout() {
	formWidth := formPaneWidth
	if m.width < formWidth*2 {
		formWidth = m.width / 2
	}
	if formWidth < minPaneWidth {
		formWidth = minPaneWidth
	}
	chatWidth := m.width - formWidth - 6
	if chatWidth < minPaneWidth {
		chatWidth = minPaneWidth
	}

	m.name.Width = formWidth - 4
	m.email.Width = formWidth - 4
	m.grievance.SetWidth(formWidth - 2)
	m.message.Width = chatWidth - 4

	// header + footer + message input + pane borders
	vpHeight := m.height - 2 - inputHeight - 4
	if vpHeight < 1 {
		vpHeight = 1
	}
	m.viewport.Width = chatWidth
	m.viewport.Height = vpHeight
	m.help.Width = m.width
	m.renderer = newHelpRenderer(m.styles.Theme.IsDark, chatWidth)
}
