package relay

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"grievancechat/internal/api"
	"grievancechat/internal/chatlog"
	"grievancechat/internal/session"

	"go.uber.org/zap"
)

// ImageMessage is the chat text sent alongside an uploaded image.
const ImageMessage = "Image attached"

// Pending is a message already shown in the log and waiting to be sent.
type Pending struct {
	Message string
	ImageID string
}

// Attachment is an image the backend has accepted.
type Attachment struct {
	Name    string
	ImageID string
}

// ChatRelay pairs user messages with backend replies.
type ChatRelay struct {
	backend Backend
	logger  *zap.Logger
}

// NewChatRelay creates a ChatRelay. A nil logger disables logging.
func NewChatRelay(b Backend, logger *zap.Logger) *ChatRelay {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatRelay{backend: b, logger: logger}
}

// Begin trims raw and, if anything is left, appends it to the log as a user
// entry. It returns false for empty input, in which case the log is untouched.
func (r *ChatRelay) Begin(log *chatlog.Log, raw string) (Pending, bool) {
	msg := strings.TrimSpace(raw)
	if msg == "" {
		return Pending{}, false
	}
	log.Append(chatlog.RoleUser, msg)
	return Pending{Message: msg}, true
}

// BeginAttachment logs an uploaded image as a user entry and returns the chat
// message announcing it.
func (r *ChatRelay) BeginAttachment(log *chatlog.Log, a Attachment) Pending {
	log.Append(chatlog.RoleUser, "[image attached: "+a.Name+"]")
	return Pending{Message: ImageMessage, ImageID: a.ImageID}
}

// Complete sends p with the session's grievance id and returns the reply. An
// unbound session sends a null id.
func (r *ChatRelay) Complete(ctx context.Context, sess *session.Session, p Pending) (string, error) {
	id := sess.GrievanceID()
	reply, err := r.backend.Chat(ctx, api.ChatRequest{
		GrievanceID: id,
		Message:     p.Message,
		ImageID:     p.ImageID,
	})
	if err != nil {
		r.logger.Warn("chat request failed",
			zap.Stringer("grievance_id", id),
			zap.Error(err))
		return "", fmt.Errorf("chat: %w", err)
	}
	r.logger.Debug("chat reply received",
		zap.Stringer("grievance_id", id),
		zap.Int("reply_len", len(reply)))
	return reply, nil
}

// Finish appends a reply to the log as a bot entry.
func (r *ChatRelay) Finish(log *chatlog.Log, reply string) chatlog.Entry {
	return log.Append(chatlog.RoleBot, reply)
}

// Send runs a full round trip: Begin, Complete, Finish.
func (r *ChatRelay) Send(ctx context.Context, sess *session.Session, log *chatlog.Log, raw string) (string, error) {
	p, ok := r.Begin(log, raw)
	if !ok {
		return "", ErrEmptyMessage
	}
	reply, err := r.Complete(ctx, sess, p)
	if err != nil {
		return "", err
	}
	r.Finish(log, reply)
	return reply, nil
}

// Upload sends the image at path to the backend. Nothing is logged on
// failure.
func (r *ChatRelay) Upload(ctx context.Context, path string) (Attachment, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Attachment{}, ErrEmptyMessage
	}
	f, err := os.Open(path)
	if err != nil {
		return Attachment{}, fmt.Errorf("upload image: %w", err)
	}
	defer f.Close()

	name := filepath.Base(path)
	imageID, err := r.backend.UploadImage(ctx, name, f)
	if err != nil {
		r.logger.Warn("image upload failed", zap.String("file", name), zap.Error(err))
		return Attachment{}, fmt.Errorf("upload image: %w", err)
	}
	return Attachment{Name: name, ImageID: imageID}, nil
}

// SendImage uploads an image and relays it: Upload, BeginAttachment,
// Complete, Finish.
func (r *ChatRelay) SendImage(ctx context.Context, sess *session.Session, log *chatlog.Log, path string) (string, error) {
	a, err := r.Upload(ctx, path)
	if err != nil {
		return "", err
	}
	reply, err := r.Complete(ctx, sess, r.BeginAttachment(log, a))
	if err != nil {
		return "", err
	}
	r.Finish(log, reply)
	return reply, nil
}
