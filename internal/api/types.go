package api

import "grievancechat/internal/types"

// GrievanceRequest is the body of POST /submit_grievance.
type GrievanceRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Grievance string `json:"grievance"`
}

// GrievanceResponse is the body returned by POST /submit_grievance.
type GrievanceResponse struct {
	envelope
	GrievanceID types.GrievanceID `json:"grievance_id"`
}

// ChatRequest is the body of POST /chat. GrievanceID marshals as null when
// unset; ImageID is only sent for image messages.
type ChatRequest struct {
	GrievanceID types.GrievanceID `json:"grievance_id"`
	Message     string            `json:"message"`
	ImageID     string            `json:"image_id,omitempty"`
}

// ChatResponse is the body returned by POST /chat.
type ChatResponse struct {
	envelope
	Reply *string `json:"reply"`
}

// UploadResponse is the body returned by POST /upload_image.
type UploadResponse struct {
	envelope
	ImageID string `json:"image_id"`
}

// Backend status values.
const (
	StatusSuccess         = "success"
	StatusError           = "error"
	StatusNeedGrievanceID = "need_grievance_id"
)

// envelope carries the status wrapper the backend puts around responses.
// Both fields are optional.
type envelope struct {
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
}

// err maps the status to an error. need_grievance_id still carries a usable
// reply prompting for the id, so only "error" fails.
func (e envelope) err() error {
	switch e.Status {
	case StatusSuccess, StatusNeedGrievanceID:
		return nil
	case StatusError:
		return &Error{Message: e.Message}
	default:
		// Absent or unknown status; callers still check required fields.
		return nil
	}
}
