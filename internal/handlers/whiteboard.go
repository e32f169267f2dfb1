package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"neutraledu-backend/internal/middleware"
	"neutraledu-backend/internal/models"
	"neutraledu-backend/internal/repository"
)

const maxSceneBytes = 2 * 1024 * 1024 // 2MB per scene

type WhiteboardHandler struct {
	whiteboardRepo *repository.WhiteboardRepo
}

func NewWhiteboardHandler(whiteboardRepo *repository.WhiteboardRepo) *WhiteboardHandler {
	return &WhiteboardHandler{whiteboardRepo: whiteboardRepo}
}

func validateScene(w http.ResponseWriter, r *http.Request, req *models.SaveWhiteboardRequest) bool {
	if len(req.Scene) == 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"scene": "Scene is required"}, r))
		return false
	}
	if len(req.Scene) > maxSceneBytes {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"scene": "Scene exceeds the 2MB limit"}, r))
		return false
	}
	if !json.Valid(req.Scene) {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"scene": "Scene must be valid JSON"}, r))
		return false
	}
	return true
}

func (h *WhiteboardHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req models.SaveWhiteboardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if !validateScene(w, r, &req) {
		return
	}
	if req.Title == "" {
		req.Title = "Untitled Board"
	}

	wb, err := h.whiteboardRepo.Create(r.Context(), userID, req.Title, req.Scene)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to save whiteboard", r))
		return
	}

	writeJSON(w, http.StatusCreated, wb)
}

func (h *WhiteboardHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	boards, err := h.whiteboardRepo.ListByUser(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to list whiteboards", r))
		return
	}
	if boards == nil {
		boards = []*models.Whiteboard{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"whiteboards": boards})
}

func (h *WhiteboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	boardID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid whiteboard ID", r))
		return
	}

	wb, err := h.whiteboardRepo.GetByID(r.Context(), boardID)
	if err != nil || wb.UserID != middleware.GetUserID(r.Context()) {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Whiteboard not found", r))
		return
	}

	writeJSON(w, http.StatusOK, wb)
}

func (h *WhiteboardHandler) Update(w http.ResponseWriter, r *http.Request) {
	boardID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid whiteboard ID", r))
		return
	}

	userID := middleware.GetUserID(r.Context())
	wb, err := h.whiteboardRepo.GetByID(r.Context(), boardID)
	if err != nil || wb.UserID != userID {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Whiteboard not found", r))
		return
	}

	var req models.SaveWhiteboardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if !validateScene(w, r, &req) {
		return
	}
	if req.Title == "" {
		req.Title = wb.Title
	}

	if err := h.whiteboardRepo.Update(r.Context(), boardID, userID, req.Title, req.Scene); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to save whiteboard", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Whiteboard saved"})
}

func (h *WhiteboardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	boardID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid whiteboard ID", r))
		return
	}

	if err := h.whiteboardRepo.Delete(r.Context(), boardID, middleware.GetUserID(r.Context())); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete whiteboard", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Whiteboard deleted"})
}
