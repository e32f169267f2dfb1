package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"neutraledu-backend/internal/middleware"
	"neutraledu-backend/internal/models"
	"neutraledu-backend/internal/repository"
)

type GoalHandler struct {
	goalRepo *repository.GoalRepo
}

func NewGoalHandler(goalRepo *repository.GoalRepo) *GoalHandler {
	return &GoalHandler{goalRepo: goalRepo}
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req models.CreateGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	fields := make(map[string]string)
	if strings.TrimSpace(req.Title) == "" {
		fields["title"] = "Title is required"
	}
	if req.Target <= 0 {
		fields["target"] = "Target must be positive"
	}
	if len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fields, r))
		return
	}

	goal := &models.Goal{
		UserID: userID,
		Title:  req.Title,
		Target: req.Target,
		Unit:   req.Unit,
		DueAt:  req.DueAt,
	}
	if err := h.goalRepo.Create(r.Context(), goal); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create goal", r))
		return
	}

	writeJSON(w, http.StatusCreated, goal)
}

func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	goals, err := h.goalRepo.ListByUser(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to list goals", r))
		return
	}
	if goals == nil {
		goals = []*models.Goal{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"goals": goals})
}

func (h *GoalHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	goalID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid goal ID", r))
		return
	}

	goal, err := h.goalRepo.GetByID(r.Context(), goalID)
	if err != nil || goal.UserID != middleware.GetUserID(r.Context()) {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Goal not found", r))
		return
	}

	var req models.UpdateGoalProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if req.Progress < 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"progress": "Progress cannot be negative"}, r))
		return
	}

	updated, err := h.goalRepo.UpdateProgress(r.Context(), goalID, req.Progress)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to update goal", r))
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	goalID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid goal ID", r))
		return
	}

	if err := h.goalRepo.Delete(r.Context(), goalID, middleware.GetUserID(r.Context())); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete goal", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Goal deleted"})
}
