package models

import (
	"time"

	"github.com/google/uuid"
)

type Goal struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	Title     string     `json:"title"`
	Target    int        `json:"target"`
	Progress  int        `json:"progress"`
	Unit      string     `json:"unit"` // "sessions" | "hours" | "chapters" | free text
	DueAt     *time.Time `json:"due_at"`
	Completed bool       `json:"completed"`
	CreatedAt time.Time  `json:"created_at"`
}

type CreateGoalRequest struct {
	Title  string     `json:"title"`
	Target int        `json:"target"`
	Unit   string     `json:"unit"`
	DueAt  *time.Time `json:"due_at"`
}

type UpdateGoalProgressRequest struct {
	Progress int `json:"progress"`
}
