package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	TicketStatusOpen          = "open"
	TicketStatusAnswered      = "answered"
	TicketStatusClosedByAdmin = "closed_by_admin"
	TicketStatusClosedByUser  = "closed_by_user"
)

type Ticket struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Subject   string    `json:"subject"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TicketMessage is one entry in a ticket's append-only conversation.
// Seq is strictly increasing per ticket and assigned by the repository.
type TicketMessage struct {
	ID         uuid.UUID `json:"id"`
	TicketID   uuid.UUID `json:"ticket_id"`
	AuthorID   uuid.UUID `json:"author_id"`
	AuthorRole string    `json:"author_role"` // "user" | "admin"
	Body       string    `json:"body"`
	Seq        int       `json:"seq"`
	CreatedAt  time.Time `json:"created_at"`
}

type CreateTicketRequest struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type TicketMessageRequest struct {
	Message string `json:"message"`
}

// CanTransitionTicket reports whether a status change is legal.
// Closed states are terminal; a user reply reopens an answered ticket.
func CanTransitionTicket(from, to string) bool {
	switch from {
	case TicketStatusOpen:
		return to == TicketStatusAnswered || to == TicketStatusClosedByAdmin || to == TicketStatusClosedByUser
	case TicketStatusAnswered:
		return to == TicketStatusOpen || to == TicketStatusClosedByAdmin || to == TicketStatusClosedByUser
	default:
		return false
	}
}

// TicketClosed reports whether a ticket has reached a terminal status.
func TicketClosed(status string) bool {
	return status == TicketStatusClosedByAdmin || status == TicketStatusClosedByUser
}

// WebSocket event types for ticket updates
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type TicketEvent struct {
	TicketID uuid.UUID      `json:"ticket_id"`
	Status   string         `json:"status"`
	Message  *TicketMessage `json:"message,omitempty"`
}
