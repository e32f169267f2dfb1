package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"neutraledu-backend/internal/flow"
	"neutraledu-backend/internal/middleware"
	"neutraledu-backend/internal/models"
	"neutraledu-backend/internal/repository"
	"neutraledu-backend/internal/services"
)

const maxUploadBytes = 25 * 1024 * 1024 // 25MB

const (
	FlowExamReport   = "exam_report"
	FlowFlashcards   = "flashcards"
	FlowStudyPlan    = "study_plan"
	FlowPdfSummary   = "pdf_summary"
	FlowTest         = "test"
	FlowVideoSummary = "video_summary"
)

type FlowHandler struct {
	runner       *flow.Runner
	userRepo     *repository.UserRepo
	artifactRepo *repository.ArtifactRepo
	youtube      *services.YouTubeService
	files        *services.FileExtractService
	pdfRender    *services.PdfRenderService
}

func NewFlowHandler(
	runner *flow.Runner,
	userRepo *repository.UserRepo,
	artifactRepo *repository.ArtifactRepo,
	youtube *services.YouTubeService,
	files *services.FileExtractService,
	pdfRender *services.PdfRenderService,
) *FlowHandler {
	return &FlowHandler{
		runner:       runner,
		userRepo:     userRepo,
		artifactRepo: artifactRepo,
		youtube:      youtube,
		files:        files,
		pdfRender:    pdfRender,
	}
}

// loadCaller resolves the authenticated user into a flow caller. The
// plan is evaluated at request time so an expired subscription prompts
// like a free one.
func (h *FlowHandler) loadCaller(w http.ResponseWriter, r *http.Request) (*models.User, flow.Caller, bool) {
	userID := middleware.GetUserID(r.Context())
	user, err := h.userRepo.GetByID(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResp("UNAUTHORIZED", "User not found", r))
		return nil, flow.Caller{}, false
	}

	caller := flow.Caller{
		Plan:    user.EffectivePlan(time.Now()),
		IsAdmin: user.IsAdmin,
	}
	return user, caller, true
}

// consumeQuota spends one generation. Admins bypass the quota entirely.
func (h *FlowHandler) consumeQuota(w http.ResponseWriter, r *http.Request, user *models.User) bool {
	if user.IsAdmin {
		return true
	}

	ok, err := h.userRepo.ConsumeQuota(r.Context(), user.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to record quota usage", r))
		return false
	}
	if !ok {
		writeJSON(w, http.StatusTooManyRequests, errorResp("QUOTA_EXCEEDED",
			fmt.Sprintf("Daily limit of %d generations reached. Upgrade your plan or try again tomorrow.", user.DailyQuota), r))
		return false
	}
	return true
}

func (h *FlowHandler) saveArtifact(r *http.Request, user *models.User, flowType, title string, output interface{}) {
	payload, err := json.Marshal(output)
	if err != nil {
		return
	}
	// Artifact persistence is best-effort; the client already has the output.
	h.artifactRepo.Create(r.Context(), user.ID, flowType, title, payload)
}

func (h *FlowHandler) ExamReport(w http.ResponseWriter, r *http.Request) {
	user, caller, ok := h.loadCaller(w, r)
	if !ok {
		return
	}

	var req flow.ExamReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if !user.IsAdmin {
		req.ModelID = ""
	}
	if fields := req.Validate(); fields != nil {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fields, r))
		return
	}
	if !h.consumeQuota(w, r, user) {
		return
	}

	out := h.runner.AnalyzeExamReport(r.Context(), req, caller)
	h.saveArtifact(r, user, FlowExamReport, "Exam Report Analysis", out)
	writeJSON(w, http.StatusOK, out)
}

func (h *FlowHandler) Flashcards(w http.ResponseWriter, r *http.Request) {
	user, caller, ok := h.loadCaller(w, r)
	if !ok {
		return
	}

	var req flow.FlashcardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if !user.IsAdmin {
		req.ModelID = ""
	}
	if fields := req.Validate(); fields != nil {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fields, r))
		return
	}
	if !h.consumeQuota(w, r, user) {
		return
	}

	out := h.runner.GenerateFlashcards(r.Context(), req, caller)
	h.saveArtifact(r, user, FlowFlashcards, out.SummaryTitle, out)
	writeJSON(w, http.StatusOK, out)
}

func (h *FlowHandler) StudyPlan(w http.ResponseWriter, r *http.Request) {
	user, caller, ok := h.loadCaller(w, r)
	if !ok {
		return
	}

	var req flow.StudyPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if !user.IsAdmin {
		req.ModelID = ""
	}
	if fields := req.Validate(); fields != nil {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fields, r))
		return
	}
	if !h.consumeQuota(w, r, user) {
		return
	}

	out := h.runner.GenerateStudyPlan(r.Context(), req, caller)
	h.saveArtifact(r, user, FlowStudyPlan, "Study Plan", out)
	writeJSON(w, http.StatusOK, out)
}

// PdfSummary accepts either a JSON body with extracted text or a
// multipart upload (pdf, txt, docx) that is extracted server-side.
func (h *FlowHandler) PdfSummary(w http.ResponseWriter, r *http.Request) {
	user, caller, ok := h.loadCaller(w, r)
	if !ok {
		return
	}

	var req flow.PdfSummaryRequest
	if isMultipart(r) {
		text, err := h.extractUpload(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", err.Error(), r))
			return
		}
		req.TextContent = text
		req.SummaryLength = r.FormValue("summary_length")
		req.OutputDetail = r.FormValue("output_detail")
		req.ModelID = r.FormValue("model_id")
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
			return
		}
	}

	if !user.IsAdmin {
		req.ModelID = ""
	}
	if fields := req.Validate(); fields != nil {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fields, r))
		return
	}
	if !h.consumeQuota(w, r, user) {
		return
	}

	out := h.runner.SummarizePdf(r.Context(), req, caller)
	h.saveArtifact(r, user, FlowPdfSummary, out.Title, out)
	writeJSON(w, http.StatusOK, out)
}

// RenderPdfSummary turns a stored pdf-summary artifact into a PDF file.
// Rendering does not touch the generation quota.
func (h *FlowHandler) RenderPdfSummary(w http.ResponseWriter, r *http.Request) {
	user, _, ok := h.loadCaller(w, r)
	if !ok {
		return
	}

	var req struct {
		ArtifactID string `json:"artifact_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	artifact, err := h.loadOwnedArtifact(r, user, req.ArtifactID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Artifact not found", r))
		return
	}
	if artifact.FlowType != FlowPdfSummary {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Artifact is not a summary", r))
		return
	}

	var summary flow.PdfSummaryOutput
	if err := json.Unmarshal(artifact.Payload, &summary); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Stored summary is unreadable", r))
		return
	}

	pdfBytes, err := h.pdfRender.RenderSummaryPDF(r.Context(), services.SummaryDocument{
		Title:             summary.Title,
		Summary:           summary.Summary,
		KeyPoints:         summary.KeyPoints,
		ExamTips:          summary.ExamTips,
		PracticeQuestions: summary.PracticeQuestions,
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("RENDER_FAILED", "PDF rendering failed", r))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="summary.pdf"`)
	w.WriteHeader(http.StatusOK)
	w.Write(pdfBytes)
}

func (h *FlowHandler) Test(w http.ResponseWriter, r *http.Request) {
	user, caller, ok := h.loadCaller(w, r)
	if !ok {
		return
	}

	var req flow.TestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if !user.IsAdmin {
		req.ModelID = ""
	}
	if fields := req.Validate(); fields != nil {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fields, r))
		return
	}
	if !h.consumeQuota(w, r, user) {
		return
	}

	out := h.runner.GenerateTest(r.Context(), req, caller)
	h.saveArtifact(r, user, FlowTest, out.TestTitle, out)
	writeJSON(w, http.StatusOK, out)
}

func (h *FlowHandler) VideoSummary(w http.ResponseWriter, r *http.Request) {
	user, caller, ok := h.loadCaller(w, r)
	if !ok {
		return
	}

	var req struct {
		VideoURL      string `json:"video_url"`
		SummaryLength string `json:"summary_length"`
		ModelID       string `json:"model_id,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	videoID := services.ExtractVideoID(req.VideoURL)
	if videoID == "" {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"video_url": "Not a recognizable YouTube URL"}, r))
		return
	}

	info, err := h.youtube.GetVideoInfo(r.Context(), videoID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "No transcript available for this video", r))
		return
	}

	flowReq := flow.VideoSummaryRequest{
		Transcript:    info.Transcript,
		VideoTitle:    info.Title,
		SummaryLength: req.SummaryLength,
	}
	if user.IsAdmin {
		flowReq.ModelID = req.ModelID
	}
	if fields := flowReq.Validate(); fields != nil {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fields, r))
		return
	}
	if !h.consumeQuota(w, r, user) {
		return
	}

	out := h.runner.SummarizeVideo(r.Context(), flowReq, caller)
	h.saveArtifact(r, user, FlowVideoSummary, out.Title, out)
	writeJSON(w, http.StatusOK, out)
}

func (h *FlowHandler) loadOwnedArtifact(r *http.Request, user *models.User, artifactID string) (*models.Artifact, error) {
	id, err := uuid.Parse(artifactID)
	if err != nil {
		return nil, err
	}
	artifact, err := h.artifactRepo.GetByID(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if artifact.UserID != user.ID && !user.IsAdmin {
		return nil, fmt.Errorf("artifact %s not owned by caller", artifactID)
	}
	return artifact, nil
}

func isMultipart(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return len(ct) >= 19 && ct[:19] == "multipart/form-data"
}

func (h *FlowHandler) extractUpload(r *http.Request) (string, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return "", fmt.Errorf("upload too large or malformed")
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return "", fmt.Errorf("missing file field")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read upload")
	}

	text, err := h.files.ExtractText(header.Filename, data)
	if err != nil {
		return "", err
	}
	return text, nil
}
