package relay

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"grievancechat/internal/api"
	"grievancechat/internal/chatlog"
	"grievancechat/internal/session"
	"grievancechat/internal/types"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend records calls and lets tests script replies.
type fakeBackend struct {
	mu      sync.Mutex
	submits []api.GrievanceRequest
	chats   []api.ChatRequest
	uploads []string
	issueID types.GrievanceID
	reply   string
	imageID string
	err     error
	onChat  func(api.ChatRequest)
}

func (f *fakeBackend) SubmitGrievance(_ context.Context, req api.GrievanceRequest) (api.GrievanceResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submits = append(f.submits, req)
	if f.err != nil {
		return api.GrievanceResponse{}, f.err
	}
	return api.GrievanceResponse{GrievanceID: f.issueID}, nil
}

func (f *fakeBackend) Chat(_ context.Context, req api.ChatRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chats = append(f.chats, req)
	if f.onChat != nil {
		f.onChat(req)
	}
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeBackend) UploadImage(_ context.Context, filename string, r io.Reader) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, filename)
	if f.err != nil {
		return "", f.err
	}
	return f.imageID, nil
}

func TestForm_TrimmedAndComplete(t *testing.T) {
	f := Form{Name: "  Alice ", Email: "a@x.com\n", Grievance: "\tnoisy neighbor "}
	assert.True(t, f.Complete())
	assert.Equal(t, Form{Name: "Alice", Email: "a@x.com", Grievance: "noisy neighbor"}, f.Trimmed())
}

func TestSubmitter_SendsTrimmedForm(t *testing.T) {
	fb := &fakeBackend{issueID: types.ParseGrievanceID("42")}
	s := NewSubmitter(fb, nil)

	sess, err := s.Submit(context.Background(), Form{Name: " Alice ", Email: "a@x.com ", Grievance: " noisy neighbor"})
	require.NoError(t, err)
	require.Len(t, fb.submits, 1)
	assert.Equal(t, api.GrievanceRequest{Name: "Alice", Email: "a@x.com", Grievance: "noisy neighbor"}, fb.submits[0])
	assert.True(t, sess.Bound())
	assert.Equal(t, "42", sess.GrievanceID().String())
}

func TestSubmitter_IncompleteFormSendsNothing(t *testing.T) {
	forms := map[string]Form{
		"empty name":      {Name: "", Email: "a@x.com", Grievance: "g"},
		"blank email":     {Name: "A", Email: "   ", Grievance: "g"},
		"blank grievance": {Name: "A", Email: "a@x.com", Grievance: "\n\t"},
		"all empty":       {},
	}

	for name, f := range forms {
		t.Run(name, func(t *testing.T) {
			fb := &fakeBackend{issueID: types.ParseGrievanceID("1")}
			sess, err := NewSubmitter(fb, nil).Submit(context.Background(), f)
			assert.ErrorIs(t, err, ErrIncompleteForm)
			assert.Nil(t, sess)
			assert.Empty(t, fb.submits)
		})
	}
}

func TestSubmitter_BackendErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	fb := &fakeBackend{err: boom}

	sess, err := NewSubmitter(fb, nil).Submit(context.Background(), Form{Name: "a", Email: "b", Grievance: "c"})
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, sess)
}

func TestChatRelay_UserEntryBeforeRequest(t *testing.T) {
	log := chatlog.New()
	fb := &fakeBackend{reply: "Thanks Alice"}
	var logAtRequest []string
	fb.onChat = func(api.ChatRequest) { logAtRequest = log.Strings() }

	sess, _ := session.NewBound(types.ParseGrievanceID("42"))
	reply, err := NewChatRelay(fb, nil).Send(context.Background(), sess, log, "  hello ")
	require.NoError(t, err)
	assert.Equal(t, "Thanks Alice", reply)

	assert.Equal(t, []string{"user:hello"}, logAtRequest)
	require.Len(t, fb.chats, 1)
	assert.Equal(t, "hello", fb.chats[0].Message)
	assert.Equal(t, "42", fb.chats[0].GrievanceID.String())

	if diff := cmp.Diff([]string{"user:hello", "bot:Thanks Alice"}, log.Strings()); diff != "" {
		t.Errorf("log mismatch (-want +got):\n%s", diff)
	}
}

func TestChatRelay_EmptyMessage(t *testing.T) {
	for _, raw := range []string{"", "   ", "\n\t"} {
		log := chatlog.New()
		fb := &fakeBackend{reply: "x"}
		_, err := NewChatRelay(fb, nil).Send(context.Background(), session.New(), log, raw)
		assert.ErrorIs(t, err, ErrEmptyMessage)
		assert.Zero(t, log.Len())
		assert.Empty(t, fb.chats)
	}
}

func TestChatRelay_UnboundSessionSendsNullID(t *testing.T) {
	fb := &fakeBackend{reply: "Please provide your grievance ID to continue."}
	_, err := NewChatRelay(fb, nil).Send(context.Background(), session.New(), chatlog.New(), "hello")
	require.NoError(t, err)
	require.Len(t, fb.chats, 1)
	assert.True(t, fb.chats[0].GrievanceID.IsZero())
}

func TestChatRelay_FailureKeepsUserEntryOnly(t *testing.T) {
	log := chatlog.New()
	fb := &fakeBackend{err: errors.New("connection refused")}

	_, err := NewChatRelay(fb, nil).Send(context.Background(), session.New(), log, "hello")
	assert.Error(t, err)
	assert.Equal(t, []string{"user:hello"}, log.Strings())
}

func TestChatRelay_SendImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pothole.jpg")
	require.NoError(t, os.WriteFile(path, []byte("JPEG"), 0o644))

	log := chatlog.New()
	fb := &fakeBackend{imageID: "pothole.jpg", reply: "That looks like road damage."}
	sess, _ := session.NewBound(types.ParseGrievanceID(`7`))

	reply, err := NewChatRelay(fb, nil).SendImage(context.Background(), sess, log, path)
	require.NoError(t, err)
	assert.Equal(t, "That looks like road damage.", reply)
	assert.Equal(t, []string{"pothole.jpg"}, fb.uploads)
	require.Len(t, fb.chats, 1)
	assert.Equal(t, api.ChatRequest{
		GrievanceID: types.ParseGrievanceID("7"),
		Message:     ImageMessage,
		ImageID:     "pothole.jpg",
	}, fb.chats[0])
	assert.Equal(t, []string{"user:[image attached: pothole.jpg]", "bot:That looks like road damage."}, log.Strings())
}

func TestChatRelay_SendImageMissingFile(t *testing.T) {
	log := chatlog.New()
	fb := &fakeBackend{}
	_, err := NewChatRelay(fb, nil).SendImage(context.Background(), session.New(), log, filepath.Join(t.TempDir(), "nope.png"))
	assert.Error(t, err)
	assert.Zero(t, log.Len())
	assert.Empty(t, fb.uploads)
	assert.Empty(t, fb.chats)
}

// TestScenario_SubmitThenChat drives the real API client against an
// httptest backend: submit Alice's grievance, then say hello.
func TestScenario_SubmitThenChat(t *testing.T) {
	var (
		mu       sync.Mutex
		requests []string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		requests = append(requests, r.URL.Path+" "+string(body))
		mu.Unlock()

		switch r.URL.Path {
		case api.PathSubmitGrievance:
			_, _ = w.Write([]byte(`{"grievance_id": 42}`))
		case api.PathChat:
			var req map[string]json.RawMessage
			_ = json.Unmarshal(body, &req)
			if string(req["grievance_id"]) != "42" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			_, _ = w.Write([]byte(`{"reply": "Thanks Alice"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client, err := api.NewClient(server.URL)
	require.NoError(t, err)

	sess, err := NewSubmitter(client, nil).Submit(context.Background(), Form{
		Name: "Alice", Email: "a@x.com", Grievance: "noisy neighbor",
	})
	require.NoError(t, err)
	assert.True(t, sess.Bound())

	log := chatlog.New()
	_, err = NewChatRelay(client, nil).Send(context.Background(), sess, log, "hello")
	require.NoError(t, err)

	assert.Equal(t, []string{"user:hello", "bot:Thanks Alice"}, log.Strings())

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, requests, 2)
	assert.Equal(t, api.PathSubmitGrievance+` {"name":"Alice","email":"a@x.com","grievance":"noisy neighbor"}`, requests[0])
	assert.Equal(t, api.PathChat+` {"grievance_id":42,"message":"hello"}`, requests[1])
}
