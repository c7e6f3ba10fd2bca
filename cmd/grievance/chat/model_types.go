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
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"
)

// =============================================================================
// CONFIGURATION
// =============================================================================

// Config holds what the chat interface needs from its caller.
type Config struct {
	// Backend serves grievance submission, chat and image upload.
	Backend relay.Backend
	// Context bounds every request the UI issues. Defaults to Background.
	Context context.Context
	// Styles for rendering. Defaults to ui.DefaultStyles().
	Styles *ui.Styles
	// Logger for UI events. Defaults to a no-op logger.
	Logger *zap.Logger
	// RelayLogger for submission and chat traffic. Defaults to Logger.
	RelayLogger *zap.Logger
	// BaseURL is shown in the header.
	BaseURL string
}

// Focus identifies the input that receives keystrokes.
type Focus int

const (
	FocusName Focus = iota
	FocusEmail
	FocusGrievance
	FocusMessage
)

func (f Focus) String() string {
	names := []string{"name", "email", "grievance", "message"}
	if int(f) < len(names) {
		return names[f]
	}
	return "unknown"
}

// imageCommand is the message-input prefix that attaches an image.
const imageCommand = "/image"

// =============================================================================
// MESSAGES
// =============================================================================

// grievanceSubmittedMsg reports the outcome of a form submission.
type grievanceSubmittedMsg struct {
	session *session.Session
	err     error
}

// chatReplyMsg reports the outcome of one chat request.
type chatReplyMsg struct {
	reply string
	err   error
}

// imageUploadedMsg reports the outcome of an image upload.
type imageUploadedMsg struct {
	attachment relay.Attachment
	err        error
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the bubbletea model for the grievance client: a form pane, a chat
// log pane and a message input.
type Model struct {
	// UI Components
	name      textinput.Model
	email     textinput.Model
	grievance textarea.Model
	message   textinput.Model
	viewport  viewport.Model
	spinner   spinner.Model
	help      help.Model
	keys      keyMap
	styles    ui.Styles
	renderer  *glamour.TermRenderer

	// Operations
	ctx       context.Context
	submitter *relay.Submitter
	relay     *relay.ChatRelay
	logger    *zap.Logger
	baseURL   string

	// State
	session      *session.Session
	log          *chatlog.Log
	focus        Focus
	chatEnabled  bool
	inFlight     int
	confirmation string
	showHelp     bool
	err          error
	width        int
	height       int
	ready        bool
}
