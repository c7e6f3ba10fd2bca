package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// GrievanceID is the opaque identifier the backend issues for a submitted
// grievance. The backend may use a string or a number; the raw JSON token is
// kept so it is echoed back exactly as received.
//
// The zero value means "unset" and marshals as JSON null.
type GrievanceID struct {
	raw json.RawMessage
}

// ParseGrievanceID builds an identifier from user input (a CLI flag, a typed
// value). Input that is a valid JSON number is kept as a number, anything else
// becomes a string. Use StringGrievanceID for string ids that look numeric.
func ParseGrievanceID(s string) GrievanceID {
	s = strings.TrimSpace(s)
	if s == "" {
		return GrievanceID{}
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil && json.Valid([]byte(s)) {
		return GrievanceID{raw: json.RawMessage(s)}
	}
	b, _ := json.Marshal(s)
	return GrievanceID{raw: b}
}

// StringGrievanceID builds an identifier that is always sent as a JSON
// string, even when s looks like a number ("123", "6512e45").
func StringGrievanceID(s string) GrievanceID {
	s = strings.TrimSpace(s)
	if s == "" {
		return GrievanceID{}
	}
	b, _ := json.Marshal(s)
	return GrievanceID{raw: b}
}

// IsZero reports whether the identifier is unset.
func (id GrievanceID) IsZero() bool {
	return len(id.raw) == 0
}

// String returns the display form: strings unquoted, numbers verbatim.
func (id GrievanceID) String() string {
	if id.IsZero() {
		return ""
	}
	if id.raw[0] == '"' {
		var s string
		if err := json.Unmarshal(id.raw, &s); err == nil {
			return s
		}
	}
	return string(id.raw)
}

// Equal compares two identifiers by their JSON token.
func (id GrievanceID) Equal(other GrievanceID) bool {
	return bytes.Equal(id.raw, other.raw)
}

// MarshalJSON implements json.Marshaler.
func (id GrievanceID) MarshalJSON() ([]byte, error) {
	if id.IsZero() {
		return []byte("null"), nil
	}
	return id.raw, nil
}

// UnmarshalJSON implements json.Unmarshaler. Only strings, numbers and null
// are accepted.
func (id *GrievanceID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		id.raw = nil
		return nil
	}
	switch {
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("grievance id: %w", err)
		}
		if s == "" {
			id.raw = nil
			return nil
		}
	case b[0] == '-' || (b[0] >= '0' && b[0] <= '9'):
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("grievance id: %w", err)
		}
	default:
		return fmt.Errorf("grievance id: unsupported JSON value %s", string(b))
	}
	id.raw = append(json.RawMessage(nil), b...)
	return nil
}
