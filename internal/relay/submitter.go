package relay

import (
	"context"
	"fmt"
	"strings"

	"grievancechat/internal/api"
	"grievancechat/internal/session"

	"go.uber.org/zap"
)

// Form is the grievance form as typed by the user.
type Form struct {
	Name      string
	Email     string
	Grievance string
}

// Trimmed returns the form with surrounding whitespace removed from every
// field.
func (f Form) Trimmed() Form {
	return Form{
		Name:      strings.TrimSpace(f.Name),
		Email:     strings.TrimSpace(f.Email),
		Grievance: strings.TrimSpace(f.Grievance),
	}
}

// Complete reports whether every field is non-empty after trimming.
func (f Form) Complete() bool {
	t := f.Trimmed()
	return t.Name != "" && t.Email != "" && t.Grievance != ""
}

// Submitter posts grievance forms.
type Submitter struct {
	backend Backend
	logger  *zap.Logger
}

// NewSubmitter creates a Submitter. A nil logger disables logging.
func NewSubmitter(b Backend, logger *zap.Logger) *Submitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Submitter{backend: b, logger: logger}
}

// Submit sends one request with the trimmed form and returns a new session
// bound to the issued grievance id. An incomplete form returns
// ErrIncompleteForm without contacting the backend.
func (s *Submitter) Submit(ctx context.Context, f Form) (*session.Session, error) {
	if !f.Complete() {
		return nil, ErrIncompleteForm
	}
	f = f.Trimmed()

	resp, err := s.backend.SubmitGrievance(ctx, api.GrievanceRequest{
		Name:      f.Name,
		Email:     f.Email,
		Grievance: f.Grievance,
	})
	if err != nil {
		s.logger.Warn("grievance submission failed", zap.Error(err))
		return nil, fmt.Errorf("submit grievance: %w", err)
	}

	sess, err := session.NewBound(resp.GrievanceID)
	if err != nil {
		return nil, fmt.Errorf("submit grievance: %w", err)
	}
	s.logger.Info("grievance submitted",
		zap.Stringer("grievance_id", resp.GrievanceID),
		zap.String("session", sess.LocalID()))
	return sess, nil
}
