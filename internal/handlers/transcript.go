package handlers

import (
	"encoding/json"
	"net/http"

	"neutraledu-backend/internal/services"
)

type TranscriptHandler struct {
	youtube *services.YouTubeService
}

func NewTranscriptHandler(youtube *services.YouTubeService) *TranscriptHandler {
	return &TranscriptHandler{youtube: youtube}
}

// Get fetches a video transcript with metadata. Results are cached, so
// a flow request for the same video right after is free.
func (h *TranscriptHandler) Get(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	videoID := services.ExtractVideoID(req.URL)
	if videoID == "" {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"url": "Not a recognizable YouTube URL"}, r))
		return
	}

	info, err := h.youtube.GetVideoInfo(r.Context(), videoID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "No transcript available for this video", r))
		return
	}

	writeJSON(w, http.StatusOK, info)
}
