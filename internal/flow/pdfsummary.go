package flow

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
)

const minPdfTextLen = 50

// Output detail selectors. They gate the optional arrays of the summary
// output: what the backend actually returned is overridden to match.
const (
	DetailFull          = "full"
	DetailKeyPointsOnly = "key_points_only"
	DetailExamTipsOnly  = "exam_tips_only"
	DetailQuestionsOnly = "questions_only"
)

type PdfSummaryRequest struct {
	TextContent   string `json:"text_content"`
	SummaryLength string `json:"summary_length"` // "short" | "medium" | "long"
	OutputDetail  string `json:"output_detail"`
	ModelID       string `json:"model_id,omitempty"`
}

func (req *PdfSummaryRequest) Validate() map[string]string {
	fields := make(map[string]string)
	if len(strings.TrimSpace(req.TextContent)) < minPdfTextLen {
		fields["text_content"] = fmt.Sprintf("Extracted document text must be at least %d characters", minPdfTextLen)
	}
	switch req.SummaryLength {
	case "", "short", "medium", "long":
	default:
		fields["summary_length"] = "summary_length must be short, medium, or long"
	}
	switch req.OutputDetail {
	case "", DetailFull, DetailKeyPointsOnly, DetailExamTipsOnly, DetailQuestionsOnly:
	default:
		fields["output_detail"] = "output_detail must be full, key_points_only, exam_tips_only, or questions_only"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

type PdfSummaryOutput struct {
	Title             string   `json:"title"`
	Summary           string   `json:"summary"`
	KeyPoints         []string `json:"key_points"`
	ExamTips          []string `json:"exam_tips"`
	PracticeQuestions []string `json:"practice_questions"`
	Model             string   `json:"model"`
}

func (r *Runner) SummarizePdf(ctx context.Context, req PdfSummaryRequest, caller Caller) PdfSummaryOutput {
	model := ResolveModel(req.ModelID)
	prompt := buildPdfSummaryPrompt(req, caller, model)

	raw, err := r.generate(ctx, model, prompt, GenerateOptions{
		Temperature:     tempAnalytic,
		MaxOutputTokens: tokensForSummaryLength(req.SummaryLength),
	})
	if err != nil {
		return failedPdfSummary(err, req.OutputDetail, caller, model)
	}

	parsed, err := parsePdfSummary(raw)
	if err != nil {
		return failedPdfSummary(err, req.OutputDetail, caller, model)
	}

	return normalizePdfSummary(parsed, req.OutputDetail, model)
}

func buildPdfSummaryPrompt(req PdfSummaryRequest, caller Caller, model string) string {
	var b strings.Builder

	b.WriteString("You are an expert educational content analyst. Summarize the following document for a student.\n\n")
	b.WriteString("CRITICAL: Return ONLY a valid JSON object. No preamble, no markdown, no backticks.\n\n")

	switch req.SummaryLength {
	case "short":
		b.WriteString("Length: a compact summary of two or three paragraphs.\n")
	case "long":
		b.WriteString("Length: a thorough summary covering every section of the document.\n")
	default:
		b.WriteString("Length: a balanced summary of four to six paragraphs.\n")
	}

	switch req.OutputDetail {
	case DetailKeyPointsOnly:
		b.WriteString("Focus the key_points array; the other arrays may stay empty.\n")
	case DetailExamTipsOnly:
		b.WriteString("Focus the exam_tips array; the other arrays may stay empty.\n")
	case DetailQuestionsOnly:
		b.WriteString("Focus the practice_questions array; the other arrays may stay empty.\n")
	default:
		b.WriteString("Fill key_points, exam_tips, and practice_questions.\n")
	}

	if caller.isPro() {
		b.WriteString("Depth: include connections between concepts and likely exam angles.\n")
	} else if caller.isPremium() {
		b.WriteString("Depth: add short study hints alongside the key points.\n")
	}

	if isPreviewModel(model) {
		b.WriteString("Keep every list item to one sentence.\n")
	}

	b.WriteString(`
JSON shape:
{"title": "string", "summary": "string", "key_points": ["string"], "exam_tips": ["string"], "practice_questions": ["string"]}
`)

	b.WriteString("\n---DOCUMENT START---\n")
	b.WriteString(req.TextContent)
	b.WriteString("\n---DOCUMENT END---\n")

	return b.String()
}

func parsePdfSummary(raw string) (PdfSummaryOutput, error) {
	cleaned := stripFences(raw)

	var out PdfSummaryOutput
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		salvaged := salvageJSONObject(cleaned)
		if salvaged == "" {
			return PdfSummaryOutput{}, &errMalformedResponse{detail: truncate(err.Error(), 120)}
		}
		if err := json.Unmarshal([]byte(salvaged), &out); err != nil {
			return PdfSummaryOutput{}, &errMalformedResponse{detail: truncate(err.Error(), 120)}
		}
	}

	return out, nil
}

// normalizePdfSummary enforces the detail selector: optional arrays are
// forced present or absent according to the selector, regardless of what
// the backend returned.
func normalizePdfSummary(out PdfSummaryOutput, detail string, model string) PdfSummaryOutput {
	if out.Summary == "" {
		log.Println("WARNING: pdf summary response missing summary text")
		out.Summary = "The document was processed but no summary text could be extracted from the model response."
	}
	if out.Title == "" {
		out.Title = "Untitled Summary"
	}

	if out.KeyPoints == nil {
		out.KeyPoints = []string{}
	}
	if out.ExamTips == nil {
		out.ExamTips = []string{}
	}
	if out.PracticeQuestions == nil {
		out.PracticeQuestions = []string{}
	}

	switch detail {
	case DetailKeyPointsOnly:
		out.ExamTips = []string{}
		out.PracticeQuestions = []string{}
	case DetailExamTipsOnly:
		out.KeyPoints = []string{}
		out.PracticeQuestions = []string{}
	case DetailQuestionsOnly:
		out.KeyPoints = []string{}
		out.ExamTips = []string{}
	}

	out.Model = model
	return out
}

func failedPdfSummary(err error, detail string, caller Caller, model string) PdfSummaryOutput {
	return normalizePdfSummary(PdfSummaryOutput{
		Summary: errorNarrative(err, caller.IsAdmin),
	}, detail, model)
}
