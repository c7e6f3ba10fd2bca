package chat

import (
	"fmt"
	"strings"

	"grievancechat/internal/chatlog"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = max(msg.Width, 1)
		m.height = max(msg.Height, 1)
		m.layout()
		m.refreshLog()
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case grievanceSubmittedMsg:
		return m.handleSubmitted(msg)

	case chatReplyMsg:
		return m.handleReply(msg)

	case imageUploadedMsg:
		return m.handleUploaded(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m.updateFocused(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	// The confirmation dialog blocks everything until dismissed.
	if m.confirmation != "" {
		if key.Matches(msg, m.keys.Dismiss) {
			m.confirmation = ""
			return m, m.setFocus(FocusMessage)
		}
		return m, nil
	}

	if key.Matches(msg, m.keys.Help) {
		m.showHelp = !m.showHelp
		return m, nil
	}
	if m.showHelp {
		if msg.Type == tea.KeyEsc {
			m.showHelp = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Next):
		return m, m.cycleFocus(1)
	case key.Matches(msg, m.keys.Prev):
		return m, m.cycleFocus(-1)
	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	case msg.Type == tea.KeyEsc:
		m.err = nil
		return m, nil
	case key.Matches(msg, m.keys.Send):
		switch m.focus {
		case FocusMessage:
			return m.send()
		case FocusName, FocusEmail:
			return m, m.cycleFocus(1)
		}
	case msg.Type == tea.KeyPgUp || msg.Type == tea.KeyPgDown:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	return m.updateFocused(msg)
}

// updateFocused forwards msg to the focused input.
func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case FocusName:
		m.name, cmd = m.name.Update(msg)
	case FocusEmail:
		m.email, cmd = m.email.Update(msg)
	case FocusGrievance:
		m.grievance, cmd = m.grievance.Update(msg)
	case FocusMessage:
		if m.chatEnabled {
			m.message, cmd = m.message.Update(msg)
		}
	}
	return m, cmd
}

// submit starts a grievance submission. An incomplete form is ignored.
func (m Model) submit() (tea.Model, tea.Cmd) {
	f := m.form()
	if !f.Complete() {
		m.logger.Debug("ignoring incomplete form")
		return m, nil
	}
	m.err = nil
	m.inFlight++
	m.logger.Info("submitting grievance")
	return m, m.submitCmd(f)
}

// send starts a chat request, or an image upload for "/image <path>". Empty
// input is ignored.
func (m Model) send() (tea.Model, tea.Cmd) {
	if !m.chatEnabled {
		return m, nil
	}
	raw := m.message.Value()

	if path, ok := imagePath(raw); ok {
		if path == "" {
			return m, nil
		}
		m.err = nil
		m.inFlight++
		m.logger.Info("uploading image", zap.String("path", path))
		return m, m.uploadCmd(path)
	}

	p, ok := m.relay.Begin(m.log, raw)
	if !ok {
		return m, nil
	}
	m.refreshLog()
	m.err = nil
	m.inFlight++
	return m, m.completeCmd(p)
}

// imagePath reports whether raw is an image command and returns its path.
func imagePath(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed != imageCommand && !strings.HasPrefix(trimmed, imageCommand+" ") {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(trimmed, imageCommand)), true
}

func (m Model) handleSubmitted(msg grievanceSubmittedMsg) (tea.Model, tea.Cmd) {
	m.inFlight = max(m.inFlight-1, 0)
	if msg.err != nil {
		m.fail(msg.err)
		return m, nil
	}

	m.session = msg.session
	m.enableChat()
	m.resetForm()
	m.confirmation = fmt.Sprintf("Grievance submitted successfully! Your ID: %s", m.session.GrievanceID())
	m.logger.Info("grievance accepted", zap.Stringer("grievance_id", m.session.GrievanceID()))
	return m, nil
}

func (m Model) handleReply(msg chatReplyMsg) (tea.Model, tea.Cmd) {
	m.inFlight = max(m.inFlight-1, 0)
	if msg.err != nil {
		m.fail(msg.err)
		return m, nil
	}
	m.relay.Finish(m.log, msg.reply)
	m.message.Reset()
	m.refreshLog()
	return m, nil
}

func (m Model) handleUploaded(msg imageUploadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.inFlight = max(m.inFlight-1, 0)
		m.fail(msg.err)
		return m, nil
	}
	// The upload's in-flight slot carries over to the chat request.
	p := m.relay.BeginAttachment(m.log, msg.attachment)
	m.refreshLog()
	return m, m.completeCmd(p)
}

// fail surfaces err in the error panel and as a system entry in the log.
func (m *Model) fail(err error) {
	m.err = err
	m.logger.Warn("request failed", zap.Error(err))
	m.log.Append(chatlog.RoleSystem, "Error: "+err.Error())
	m.refreshLog()
}
