// Package relay implements the two client operations: submitting a grievance
// form and relaying chat messages for the resulting grievance.
//
// Both operations are UI-agnostic. The chat relay is split into Begin (local,
// appends the user entry) and Complete (network) so an event loop can append
// the user's message before the request is issued and the reply after it
// returns.
package relay

import (
	"context"
	"errors"
	"io"

	"grievancechat/internal/api"
)

var (
	// ErrIncompleteForm means a form field was empty after trimming. No
	// request is sent.
	ErrIncompleteForm = errors.New("relay: name, email and grievance are required")
	// ErrEmptyMessage means the chat message was empty after trimming. No
	// request is sent and nothing is logged.
	ErrEmptyMessage = errors.New("relay: message is empty")
)

// Backend is the subset of the API client the relay needs.
type Backend interface {
	SubmitGrievance(ctx context.Context, req api.GrievanceRequest) (api.GrievanceResponse, error)
	Chat(ctx context.Context, req api.ChatRequest) (string, error)
	UploadImage(ctx context.Context, filename string, r io.Reader) (string, error)
}

var _ Backend = (*api.Client)(nil)
