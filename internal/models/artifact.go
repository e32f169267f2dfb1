package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Artifact is one persisted flow result. The payload is the FlowOutput
// exactly as returned to the client, stored as JSON.
type Artifact struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	FlowType  string          `json:"flow_type"`
	Title     string          `json:"title"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// API error response shapes shared by all handlers.
type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}
