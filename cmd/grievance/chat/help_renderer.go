package chat

import "github.com/charmbracelet/glamour"

const helpMarkdown = `# Grievance Portal

Fill in **name**, **email** and **grievance**, then press ` + "`ctrl+s`" + `.
All three fields are required. Once the grievance is accepted you get an
ID and the chat opens.

## Keys

| Key | Action |
| --- | --- |
| ` + "`tab`" + ` / ` + "`shift+tab`" + ` | move between fields |
| ` + "`ctrl+s`" + ` | submit the grievance |
| ` + "`enter`" + ` | send a chat message |
| ` + "`pgup`" + ` / ` + "`pgdown`" + ` | scroll the chat |
| ` + "`esc`" + ` | dismiss an error |
| ` + "`f1`" + ` | toggle this help |
| ` + "`ctrl+c`" + ` | quit |

## Images

Type ` + "`/image <path>`" + ` in the message box to attach a picture.
`

// newHelpRenderer builds the markdown renderer for the help overlay. A nil
// renderer falls back to raw markdown.
func newHelpRenderer(dark bool, width int) *glamour.TermRenderer {
	style := "light"
	if dark {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(max(width, 20)),
	)
	if err != nil {
		return nil
	}
	return r
}

// safeRenderMarkdown renders markdown with panic recovery.
func (m Model) safeRenderMarkdown(content string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			// If glamour panics, return plain text
			result = content
		}
	}()

	if m.renderer != nil && content != "" {
		rendered, err := m.renderer.Render(content)
		if err == nil {
			return rendered
		}
	}
	return content
}
