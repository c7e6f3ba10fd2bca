package chat

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"grievancechat/cmd/grievance/ui"
	"grievancechat/internal/api"
	"grievancechat/internal/types"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// MOCK BACKEND
// =============================================================================

// MockBackend records requests and answers with canned responses.
type MockBackend struct {
	mu sync.Mutex

	grievances []api.GrievanceRequest
	chats      []api.ChatRequest
	uploads    []string

	grievanceID types.GrievanceID
	reply       string
	imageID     string

	submitErr error
	chatErr   error
	uploadErr error
}

// NewMockBackend returns a backend that issues grievance id 42.
func NewMockBackend() *MockBackend {
	return &MockBackend{
		grievanceID: types.ParseGrievanceID("42"),
		reply:       "Thanks Alice",
		imageID:     "img-1",
	}
}

func (b *MockBackend) SubmitGrievance(_ context.Context, req api.GrievanceRequest) (api.GrievanceResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.grievances = append(b.grievances, req)
	if b.submitErr != nil {
		return api.GrievanceResponse{}, b.submitErr
	}
	return api.GrievanceResponse{GrievanceID: b.grievanceID}, nil
}

func (b *MockBackend) Chat(_ context.Context, req api.ChatRequest) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.chats = append(b.chats, req)
	if b.chatErr != nil {
		return "", b.chatErr
	}
	return b.reply, nil
}

func (b *MockBackend) UploadImage(_ context.Context, filename string, r io.Reader) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	b.uploads = append(b.uploads, filename)
	if b.uploadErr != nil {
		return "", b.uploadErr
	}
	return b.imageID, nil
}

func (b *MockBackend) Grievances() []api.GrievanceRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]api.GrievanceRequest(nil), b.grievances...)
}

func (b *MockBackend) Chats() []api.ChatRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]api.ChatRequest(nil), b.chats...)
}

var errNetwork = errors.New("connection refused")

// =============================================================================
// MODEL HELPERS
// =============================================================================

// NewTestModel returns a sized model wired to backend.
func NewTestModel(t *testing.T, backend *MockBackend) Model {
	t.Helper()
	styles := ui.NewStyles(ui.LightTheme())
	m := New(Config{
		Backend: backend,
		Context: context.Background(),
		Styles:  &styles,
		BaseURL: "http://localhost:5000",
	})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model)
}

// update feeds msg to m and returns the new model and command.
func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// settle runs cmd synchronously and feeds its result back until no command
// is left. Focus and blink commands are skipped.
func settle(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for cmd != nil {
		msg := cmd()
		switch msg.(type) {
		case grievanceSubmittedMsg, chatReplyMsg, imageUploadedMsg:
		default:
			return m
		}
		m, cmd = update(t, m, msg)
	}
	return m
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

func press(t *testing.T, m Model, k tea.KeyType) (Model, tea.Cmd) {
	t.Helper()
	return update(t, m, tea.KeyMsg{Type: k})
}

// fillForm sets the three form fields directly.
func fillForm(m Model, name, email, grievance string) Model {
	m.name.SetValue(name)
	m.email.SetValue(email)
	m.grievance.SetValue(grievance)
	return m
}

// submitted returns a model whose grievance was accepted and whose
// confirmation has been dismissed, with the message input focused.
func submitted(t *testing.T, backend *MockBackend) Model {
	t.Helper()
	m := fillForm(NewTestModel(t, backend), "Alice", "a@x.com", "noisy neighbor")
	m, cmd := press(t, m, tea.KeyCtrlS)
	m = settle(t, m, cmd)
	m, _ = press(t, m, tea.KeyEnter)
	if m.focus != FocusMessage {
		t.Fatalf("expected message focus after dismissing confirmation, got %s", m.focus)
	}
	return m
}
