package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Whiteboard stores a drawing scene as an opaque JSON document. The
// backend never interprets the scene, it only persists and returns it.
type Whiteboard struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Title     string          `json:"title"`
	SceneJSON json.RawMessage `json:"scene"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type SaveWhiteboardRequest struct {
	Title string          `json:"title"`
	Scene json.RawMessage `json:"scene"`
}
