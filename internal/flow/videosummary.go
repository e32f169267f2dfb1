package flow

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
)

const minTranscriptLen = 100

// VideoSummaryRequest carries a transcript already fetched by the caller.
// Transcript retrieval (YouTube, caching) lives outside the flow core.
type VideoSummaryRequest struct {
	Transcript    string `json:"transcript"`
	VideoTitle    string `json:"video_title,omitempty"`
	SummaryLength string `json:"summary_length"`
	ModelID       string `json:"model_id,omitempty"`
}

func (req *VideoSummaryRequest) Validate() map[string]string {
	fields := make(map[string]string)
	if len(strings.TrimSpace(req.Transcript)) < minTranscriptLen {
		fields["transcript"] = fmt.Sprintf("Transcript must be at least %d characters", minTranscriptLen)
	}
	switch req.SummaryLength {
	case "", "short", "medium", "long":
	default:
		fields["summary_length"] = "summary_length must be short, medium, or long"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

type VideoSummaryOutput struct {
	Title     string   `json:"title"`
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"key_points"`
	Model     string   `json:"model"`
}

func (r *Runner) SummarizeVideo(ctx context.Context, req VideoSummaryRequest, caller Caller) VideoSummaryOutput {
	model := ResolveModel(req.ModelID)
	prompt := buildVideoSummaryPrompt(req, caller, model)

	raw, err := r.generate(ctx, model, prompt, GenerateOptions{
		Temperature:     tempAnalytic,
		MaxOutputTokens: tokensForSummaryLength(req.SummaryLength),
	})
	if err != nil {
		return failedVideoSummary(err, caller, model)
	}

	parsed, err := parseVideoSummary(raw)
	if err != nil {
		return failedVideoSummary(err, caller, model)
	}

	return normalizeVideoSummary(parsed, req.VideoTitle, model)
}

func buildVideoSummaryPrompt(req VideoSummaryRequest, caller Caller, model string) string {
	var b strings.Builder

	b.WriteString("You are an expert educational content analyst. Summarize the following video transcript for a student.\n\n")
	b.WriteString("CRITICAL: Return ONLY a valid JSON object. No preamble, no markdown, no backticks.\n\n")

	if req.VideoTitle != "" {
		b.WriteString(fmt.Sprintf("Video title: %s\n", req.VideoTitle))
	}

	switch req.SummaryLength {
	case "short":
		b.WriteString("Length: a compact summary of two or three paragraphs.\n")
	case "long":
		b.WriteString("Length: a thorough summary covering the whole video.\n")
	default:
		b.WriteString("Length: a balanced summary of four to six paragraphs.\n")
	}

	if caller.isPro() {
		b.WriteString("Depth: include timestamps or section markers where the transcript makes them inferable, and note open questions the video leaves unanswered.\n")
	} else if caller.isPremium() {
		b.WriteString("Depth: add short study hints alongside the key points.\n")
	}

	if isPreviewModel(model) {
		b.WriteString("Keep every key point to one sentence.\n")
	}

	b.WriteString(`
JSON shape:
{"title": "string", "summary": "string", "key_points": ["string"]}
`)

	b.WriteString("\n---TRANSCRIPT START---\n")
	b.WriteString(req.Transcript)
	b.WriteString("\n---TRANSCRIPT END---\n")

	return b.String()
}

func parseVideoSummary(raw string) (VideoSummaryOutput, error) {
	cleaned := stripFences(raw)

	var out VideoSummaryOutput
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		salvaged := salvageJSONObject(cleaned)
		if salvaged == "" {
			return VideoSummaryOutput{}, &errMalformedResponse{detail: truncate(err.Error(), 120)}
		}
		if err := json.Unmarshal([]byte(salvaged), &out); err != nil {
			return VideoSummaryOutput{}, &errMalformedResponse{detail: truncate(err.Error(), 120)}
		}
	}

	return out, nil
}

func normalizeVideoSummary(out VideoSummaryOutput, videoTitle, model string) VideoSummaryOutput {
	if out.Summary == "" {
		log.Println("WARNING: video summary response missing summary text")
		out.Summary = "The transcript was processed but no summary text could be extracted from the model response."
	}
	if out.Title == "" {
		if videoTitle != "" {
			out.Title = videoTitle
		} else {
			out.Title = "Untitled Video Summary"
		}
	}
	if out.KeyPoints == nil {
		out.KeyPoints = []string{}
	}
	out.Model = model
	return out
}

func failedVideoSummary(err error, caller Caller, model string) VideoSummaryOutput {
	return VideoSummaryOutput{
		Title:     "Untitled Video Summary",
		Summary:   errorNarrative(err, caller.IsAdmin),
		KeyPoints: []string{},
		Model:     model,
	}
}
