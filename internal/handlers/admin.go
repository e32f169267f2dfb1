package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"neutraledu-backend/internal/flow"
	"neutraledu-backend/internal/middleware"
	"neutraledu-backend/internal/models"
	"neutraledu-backend/internal/repository"
	"neutraledu-backend/internal/services"
	ws "neutraledu-backend/internal/websocket"
)

type AdminHandler struct {
	userRepo   *repository.UserRepo
	ticketRepo *repository.TicketRepo
	email      *services.EmailService
	pubsub     *redis.Client
	quotaFor   func(plan string) int
}

func NewAdminHandler(
	userRepo *repository.UserRepo,
	ticketRepo *repository.TicketRepo,
	email *services.EmailService,
	pubsub *redis.Client,
	quotaFor func(plan string) int,
) *AdminHandler {
	return &AdminHandler{
		userRepo:   userRepo,
		ticketRepo: ticketRepo,
		email:      email,
		pubsub:     pubsub,
		quotaFor:   quotaFor,
	}
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}

	users, err := h.userRepo.List(r.Context(), limit, offset)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to list users", r))
		return
	}
	if users == nil {
		users = []*models.User{}
	}

	total, err := h.userRepo.Count(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to count users", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"users": users,
		"total": total,
	})
}

// UpdateUser changes a user's plan, quota, or admin flag. The daily
// quota defaults to the plan's standard allowance unless overridden.
func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid user ID", r))
		return
	}

	user, err := h.userRepo.GetByID(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "User not found", r))
		return
	}

	var req models.UpdateUserPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if req.Plan != "" {
		switch req.Plan {
		case models.PlanFree, models.PlanPremium, models.PlanPro:
		default:
			writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
				map[string]string{"plan": "plan must be free, premium, or pro"}, r))
			return
		}

		quota := h.quotaFor(req.Plan)
		if req.DailyQuota != nil && *req.DailyQuota > 0 {
			quota = *req.DailyQuota
		}

		if err := h.userRepo.UpdatePlan(r.Context(), userID, req.Plan, req.PlanExpiresAt, quota); err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to update plan", r))
			return
		}
		go h.email.SendPlanChangedEmail(user.Email, req.Plan)
	}

	if req.IsAdmin != nil {
		if err := h.userRepo.SetAdmin(r.Context(), userID, *req.IsAdmin); err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to update admin flag", r))
			return
		}
	}

	updated, err := h.userRepo.GetByID(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to reload user", r))
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *AdminHandler) ListTickets(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}

	tickets, err := h.ticketRepo.ListAll(r.Context(), limit, offset)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to list tickets", r))
		return
	}
	if tickets == nil {
		tickets = []*models.Ticket{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"tickets": tickets})
}

// AnswerTicket appends an admin reply, marks the ticket answered, and
// notifies the owner over email and their live channel.
func (h *AdminHandler) AnswerTicket(w http.ResponseWriter, r *http.Request) {
	ticketID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid ticket ID", r))
		return
	}

	ticket, err := h.ticketRepo.GetByID(r.Context(), ticketID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Ticket not found", r))
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

	adminID := middleware.GetUserID(r.Context())
	msg, err := h.ticketRepo.AppendMessage(r.Context(), ticketID, adminID, "admin", req.Message, models.TicketStatusAnswered)
	if err != nil {
		if errors.Is(err, repository.ErrIllegalTransition) {
			writeJSON(w, http.StatusConflict, errorResp("CONFLICT", "Ticket is closed", r))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to answer ticket", r))
		return
	}

	h.publishTicketEvent(r, ticket.UserID, models.TicketEvent{
		TicketID: ticketID,
		Status:   models.TicketStatusAnswered,
		Message:  msg,
	})

	if owner, err := h.userRepo.GetByID(r.Context(), ticket.UserID); err == nil {
		go h.email.SendTicketAnsweredEmail(owner.Email, ticket.Subject, ticketID.String())
	}

	writeJSON(w, http.StatusCreated, msg)
}

func (h *AdminHandler) CloseTicket(w http.ResponseWriter, r *http.Request) {
	ticketID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid ticket ID", r))
		return
	}

	ticket, err := h.ticketRepo.GetByID(r.Context(), ticketID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Ticket not found", r))
		return
	}

	if err := h.ticketRepo.UpdateStatus(r.Context(), ticketID, models.TicketStatusClosedByAdmin); err != nil {
		if errors.Is(err, repository.ErrIllegalTransition) {
			writeJSON(w, http.StatusConflict, errorResp("CONFLICT", "Ticket is already closed", r))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to close ticket", r))
		return
	}

	h.publishTicketEvent(r, ticket.UserID, models.TicketEvent{
		TicketID: ticketID,
		Status:   models.TicketStatusClosedByAdmin,
	})

	writeJSON(w, http.StatusOK, map[string]string{"status": models.TicketStatusClosedByAdmin})
}

// ModelAliases exposes the resolver's alias table for the admin panel.
func (h *AdminHandler) ModelAliases(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"default": flow.DefaultModel,
		"aliases": flow.ModelAliases(),
	})
}

func (h *AdminHandler) publishTicketEvent(r *http.Request, ownerID uuid.UUID, event models.TicketEvent) {
	data, err := json.Marshal(models.WSMessage{Type: "ticket_update", Payload: event})
	if err != nil {
		return
	}
	h.pubsub.Publish(r.Context(), ws.TicketChannel(ownerID), string(data))
}
