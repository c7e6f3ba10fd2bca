package chat

import (
	"fmt"
	"strings"

	"grievancechat/cmd/grievance/ui"
	"grievancechat/internal/chatlog"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// VIEW RENDERING
// =============================================================================

// entryTitles labels log entries by presentation class. System notices have
// no label.
var entryTitles = map[string]string{
	chatlog.RoleUser.Class(): "You",
	chatlog.RoleBot.Class():  "Support",
}

// renderHistory renders the chat log. Entry text is already plain and is never
// interpreted as markup.
func (m Model) renderHistory() string {
	entries := m.log.Entries()
	if len(entries) == 0 {
		return m.styles.Muted.Render("No messages yet.")
	}

	width := max(m.viewport.Width-2, 1)
	var sb strings.Builder
	for _, e := range entries {
		class := e.Role.Class()
		st := m.styles.ForClass(class)
		if title := entryTitles[class]; title != "" {
			sb.WriteString(st.Label.Render(title) + "\n")
		}
		sb.WriteString(st.Body.Width(width).Render(e.Text))
		sb.WriteString("\n\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	if m.confirmation != "" {
		return m.renderDialog()
	}
	if m.showHelp {
		return m.renderHelp()
	}

	panes := lipgloss.JoinHorizontal(lipgloss.Top, m.renderForm(), " ", m.renderChat())

	sections := []string{m.renderHeader(), panes}
	if m.err != nil {
		sections = append(sections, m.renderErrorPanel())
	}
	sections = append(sections, m.renderFooter())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	title := m.styles.Header.Render(" Grievance Portal ")
	target := m.styles.Muted.Render(" " + m.baseURL)

	var status string
	switch {
	case m.inFlight > 0:
		status = lipgloss.JoinHorizontal(lipgloss.Center, m.spinner.View(), " ", m.styles.Badge.Render("Sending..."))
	case m.session.Bound():
		status = m.styles.Badge.Render("ID " + m.session.GrievanceID().String())
	default:
		status = m.styles.Success.Render("Ready")
	}

	line := lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", status, target)
	return lipgloss.JoinVertical(lipgloss.Left, line, m.styles.RenderDivider(m.width))
}

// field renders a labelled input with a border that tracks focus.
func (m Model) field(label string, f Focus, view string) string {
	border := m.styles.BlurredBorder
	if m.focus == f && m.confirmation == "" {
		border = m.styles.FocusedBorder
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Label.Render(label),
		border.Render(view),
	)
}

func (m Model) renderForm() string {
	button := m.styles.Badge.Render(" Submit (ctrl+s) ")
	if !m.form().Complete() {
		button = m.styles.Disabled.Render("[ Submit (ctrl+s) ]")
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Title.Render("File a grievance"),
		m.field("Name", FocusName, m.name.View()),
		m.field("Email", FocusEmail, m.email.View()),
		m.field("Grievance", FocusGrievance, m.grievance.View()),
		"",
		button,
	)
	return m.styles.Card.Render(body)
}

func (m Model) renderChat() string {
	input := m.message.View()
	send := m.styles.Badge.Render(" Send ")
	if !m.chatEnabled {
		input = m.styles.Disabled.Render(input)
		send = m.styles.Disabled.Render("[ Send ]")
	}

	border := m.styles.BlurredBorder
	if m.focus == FocusMessage && m.chatEnabled {
		border = m.styles.FocusedBorder
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Title.Render("Chat"),
		m.viewport.View(),
		lipgloss.JoinHorizontal(lipgloss.Center, border.Render(input), " ", send),
	)
	return m.styles.Card.Render(body)
}

func (m Model) renderErrorPanel() string {
	if m.err == nil {
		return ""
	}
	width := max(m.width-4, 1)

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(ui.Destructive).
		Render("Error") +
		m.styles.Muted.Render("  esc: dismiss")

	panelStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.Destructive).
		Padding(0, 1).
		Width(width).
		MaxWidth(width + 4)

	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, m.err.Error()))
}

func (m Model) renderFooter() string {
	return m.styles.Footer.Render(m.help.View(m.keys))
}

// renderDialog draws the blocking submission confirmation.
func (m Model) renderDialog() string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		m.styles.Success.Render(m.confirmation),
		"",
		m.styles.Muted.Render("press enter to continue"),
	)
	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		m.styles.Dialog.Render(content),
	)
}

func (m Model) renderHelp() string {
	title := m.styles.Header.Render(" Help ")
	body := m.safeRenderMarkdown(helpMarkdown)
	footer := m.styles.Muted.Render(fmt.Sprintf("%s: close", m.keys.Help.Help().Key))
	return lipgloss.JoinVertical(lipgloss.Left, title, m.styles.Content.Render(body), footer)
}
