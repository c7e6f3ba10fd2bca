// Package session holds the grievance session: the backend-issued grievance
// identifier that correlates chat requests with a submitted grievance.
//
// A Session moves through unset -> bound -> read-many. It is bound at most
// once; a fresh submission produces a fresh Session rather than rebinding the
// current one.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"grievancechat/internal/types"

	"github.com/google/uuid"
)

var (
	// ErrAlreadyBound is returned when binding a session that already has an id.
	ErrAlreadyBound = errors.New("session: grievance id already bound")
	// ErrEmptyID is returned when binding an unset identifier.
	ErrEmptyID = errors.New("session: grievance id is empty")
)

// Session is the per-run client state shared by the form submitter and the
// chat relay. The zero value is not usable; create with New.
type Session struct {
	mu      sync.RWMutex
	localID string
	id      types.GrievanceID
	boundAt time.Time
}

// New creates an unbound session.
func New() *Session {
	return &Session{localID: uuid.NewString()}
}

// NewBound creates a session already bound to id.
func NewBound(id types.GrievanceID) (*Session, error) {
	s := New()
	if err := s.Bind(id); err != nil {
		return nil, err
	}
	return s, nil
}

// LocalID is a client-side correlation id used in logs and request headers.
// It is never sent as the grievance id.
func (s *Session) LocalID() string {
	if s == nil {
		return ""
	}
	return s.localID
}

// Bind sets the grievance id. It succeeds once.
func (s *Session) Bind(id types.GrievanceID) error {
	if id.IsZero() {
		return ErrEmptyID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.id.IsZero() {
		return fmt.Errorf("%w (%s)", ErrAlreadyBound, s.id)
	}
	s.id = id
	s.boundAt = time.Now()
	return nil
}

// GrievanceID returns the bound id, or the zero id for an unbound or nil
// session.
func (s *Session) GrievanceID() types.GrievanceID {
	if s == nil {
		return types.GrievanceID{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.id
}

// Bound reports whether a grievance id has been set.
func (s *Session) Bound() bool {
	return !s.GrievanceID().IsZero()
}

// BoundAt returns when the id was bound; zero if unbound.
func (s *Session) BoundAt() time.Time {
	if s == nil {
		return time.Time{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.boundAt
}
