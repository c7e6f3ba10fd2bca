package chat

import (
	"grievancechat/internal/relay"

	tea "github.com/charmbracelet/bubbletea"
)

// submitCmd posts the form. The session it returns replaces the current one.
func (m Model) submitCmd(f relay.Form) tea.Cmd {
	ctx, submitter := m.ctx, m.submitter
	return func() tea.Msg {
		sess, err := submitter.Submit(ctx, f)
		return grievanceSubmittedMsg{session: sess, err: err}
	}
}

// completeCmd sends a message that is already in the log. The session is
// captured now so a later submission does not redirect an in-flight message.
func (m Model) completeCmd(p relay.Pending) tea.Cmd {
	ctx, r, sess := m.ctx, m.relay, m.session
	return func() tea.Msg {
		reply, err := r.Complete(ctx, sess, p)
		return chatReplyMsg{reply: reply, err: err}
	}
}

// uploadCmd uploads the image at path.
func (m Model) uploadCmd(path string) tea.Cmd {
	ctx, r := m.ctx, m.relay
	return func() tea.Msg {
		a, err := r.Upload(ctx, path)
		return imageUploadedMsg{attachment: a, err: err}
	}
}
