package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"neutraledu-backend/internal/middleware"
	"neutraledu-backend/internal/models"
	"neutraledu-backend/internal/repository"
)

type ArtifactHandler struct {
	artifactRepo *repository.ArtifactRepo
}

func NewArtifactHandler(artifactRepo *repository.ArtifactRepo) *ArtifactHandler {
	return &ArtifactHandler{artifactRepo: artifactRepo}
}

func (h *ArtifactHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}
	flowType := r.URL.Query().Get("flow_type")

	artifacts, err := h.artifactRepo.ListByUser(r.Context(), userID, flowType, limit, offset)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to list artifacts", r))
		return
	}
	if artifacts == nil {
		artifacts = []*models.Artifact{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"artifacts": artifacts})
}

func (h *ArtifactHandler) Get(w http.ResponseWriter, r *http.Request) {
	artifactID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid artifact ID", r))
		return
	}

	artifact, err := h.artifactRepo.GetByID(r.Context(), artifactID)
	if err != nil || artifact.UserID != middleware.GetUserID(r.Context()) {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Artifact not found", r))
		return
	}

	writeJSON(w, http.StatusOK, artifact)
}

func (h *ArtifactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	artifactID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid artifact ID", r))
		return
	}

	if err := h.artifactRepo.Delete(r.Context(), artifactID, middleware.GetUserID(r.Context())); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete artifact", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Artifact deleted"})
}
