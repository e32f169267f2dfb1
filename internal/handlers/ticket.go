package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"neutraledu-backend/internal/middleware"
	"neutraledu-backend/internal/models"
	"neutraledu-backend/internal/repository"
	ws "neutraledu-backend/internal/websocket"
)

type TicketHandler struct {
	ticketRepo *repository.TicketRepo
	pubsub     *redis.Client
}

func NewTicketHandler(ticketRepo *repository.TicketRepo, pubsub *redis.Client) *TicketHandler {
	return &TicketHandler{ticketRepo: ticketRepo, pubsub: pubsub}
}

// publishTicketEvent pushes a ticket update onto the owner's live channel.
func (h *TicketHandler) publishTicketEvent(ctx context.Context, ownerID uuid.UUID, event models.TicketEvent) {
	data, err := json.Marshal(models.WSMessage{Type: "ticket_update", Payload: event})
	if err != nil {
		return
	}
	h.pubsub.Publish(ctx, ws.TicketChannel(ownerID), string(data))
}

func (h *TicketHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req models.CreateTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	fields := make(map[string]string)
	if strings.TrimSpace(req.Subject) == "" {
		fields["subject"] = "Subject is required"
	}
	if strings.TrimSpace(req.Message) == "" {
		fields["message"] = "Message is required"
	}
	if len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fields, r))
		return
	}

	ticket, err := h.ticketRepo.Create(r.Context(), userID, req.Subject, req.Message)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create ticket", r))
		return
	}

	writeJSON(w, http.StatusCreated, ticket)
}

func (h *TicketHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	tickets, err := h.ticketRepo.ListByUser(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to list tickets", r))
		return
	}
	if tickets == nil {
		tickets = []*models.Ticket{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"tickets": tickets})
}

// loadOwnedTicket fetches a ticket and enforces that the caller owns it
// or carries the admin claim.
func (h *TicketHandler) loadOwnedTicket(w http.ResponseWriter, r *http.Request) (*models.Ticket, bool) {
	ticketID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid ticket ID", r))
		return nil, false
	}

	ticket, err := h.ticketRepo.GetByID(r.Context(), ticketID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Ticket not found", r))
		return nil, false
	}

	if ticket.UserID != middleware.GetUserID(r.Context()) && !middleware.GetIsAdmin(r.Context()) {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Ticket not found", r))
		return nil, false
	}

	return ticket, true
}

func (h *TicketHandler) Get(w http.ResponseWriter, r *http.Request) {
	ticket, ok := h.loadOwnedTicket(w, r)
	if !ok {
		return
	}

	messages, err := h.ticketRepo.ListMessages(r.Context(), ticket.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load messages", r))
		return
	}
	if messages == nil {
		messages = []*models.TicketMessage{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ticket":   ticket,
		"messages": messages,
	})
}

// Reply appends a user message. Replying to an answered ticket reopens
// it; replying to a closed ticket is rejected.
func (h *TicketHandler) Reply(w http.ResponseWriter, r *http.Request) {
	ticket, ok := h.loadOwnedTicket(w, r)
	if !ok {
		return
	}

	var req models.TicketMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"message": "Message is required"}, r))
		return
	}

	if models.TicketClosed(ticket.Status) {
		writeJSON(w, http.StatusConflict, errorResp("CONFLICT", "Ticket is closed", r))
		return
	}

	msg, err := h.ticketRepo.AppendMessage(r.Context(), ticket.ID, middleware.GetUserID(r.Context()),
		"user", req.Message, models.TicketStatusOpen)
	if err != nil {
		if errors.Is(err, repository.ErrIllegalTransition) {
			writeJSON(w, http.StatusConflict, errorResp("CONFLICT", "Ticket is closed", r))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to append message", r))
		return
	}

	h.publishTicketEvent(r.Context(), ticket.UserID, models.TicketEvent{
		TicketID: ticket.ID,
		Status:   models.TicketStatusOpen,
		Message:  msg,
	})

	writeJSON(w, http.StatusCreated, msg)
}

func (h *TicketHandler) Close(w http.ResponseWriter, r *http.Request) {
	ticket, ok := h.loadOwnedTicket(w, r)
	if !ok {
		return
	}

	err := h.ticketRepo.UpdateStatus(r.Context(), ticket.ID, models.TicketStatusClosedByUser)
	if err != nil {
		if errors.Is(err, repository.ErrIllegalTransition) {
			writeJSON(w, http.StatusConflict, errorResp("CONFLICT", "Ticket is already closed", r))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to close ticket", r))
		return
	}

	h.publishTicketEvent(r.Context(), ticket.UserID, models.TicketEvent{
		TicketID: ticket.ID,
		Status:   models.TicketStatusClosedByUser,
	})

	writeJSON(w, http.StatusOK, map[string]string{"status": models.TicketStatusClosedByUser})
}
