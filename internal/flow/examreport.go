package flow

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
)

const minReportTextLen = 100

type ExamReportRequest struct {
	ReportText string `json:"report_text"`
	Subject    string `json:"subject,omitempty"`
	ModelID    string `json:"model_id,omitempty"`
}

// Validate runs the pre-backend checks. A non-empty map means the request
// is rejected before any model call.
func (req *ExamReportRequest) Validate() map[string]string {
	fields := make(map[string]string)
	if len(strings.TrimSpace(req.ReportText)) < minReportTextLen {
		fields["report_text"] = fmt.Sprintf("Report text must be at least %d characters", minReportTextLen)
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

type TopicAnalysis struct {
	Topic       string   `json:"topic"`
	Performance string   `json:"performance"` // "weak" | "average" | "strong"
	Suggestions []string `json:"suggestions"`
}

type ExamReportOutput struct {
	Summary              string          `json:"summary"`
	FormattedStudyOutput string          `json:"formatted_study_output"`
	Topics               []TopicAnalysis `json:"topics"`
	Model                string          `json:"model"`
}

// AnalyzeExamReport runs the exam-report flow. It always returns a
// well-formed output; failures surface as narrative text.
func (r *Runner) AnalyzeExamReport(ctx context.Context, req ExamReportRequest, caller Caller) ExamReportOutput {
	model := ResolveModel(req.ModelID)
	prompt := buildExamReportPrompt(req, caller, model)

	raw, err := r.generate(ctx, model, prompt, GenerateOptions{
		Temperature:     tempAnalytic,
		MaxOutputTokens: 4096,
	})
	if err != nil {
		return failedExamReport(err, caller, model)
	}

	parsed, err := parseExamReport(raw)
	if err != nil {
		return failedExamReport(err, caller, model)
	}

	return normalizeExamReport(parsed, model)
}

func buildExamReportPrompt(req ExamReportRequest, caller Caller, model string) string {
	var b strings.Builder

	b.WriteString("You are an experienced exam coach. Analyze the following exam result report and identify strengths, weaknesses, and concrete next steps per topic.\n\n")
	b.WriteString("CRITICAL: Return ONLY a valid JSON object. No preamble, no markdown, no backticks.\n\n")

	if req.Subject != "" {
		b.WriteString(fmt.Sprintf("Subject context: the exam covers %s.\n", req.Subject))
	}

	if caller.isPro() {
		b.WriteString("Depth: Provide an in-depth analysis with at least three actionable suggestions per topic, including study techniques and common pitfalls.\n")
	} else if caller.isPremium() {
		b.WriteString("Depth: Provide a detailed analysis with study hints per topic.\n")
	} else {
		b.WriteString("Depth: Provide a concise analysis with one or two suggestions per topic.\n")
	}

	if isPreviewModel(model) {
		b.WriteString("Keep all narrative text brief and direct.\n")
	}

	b.WriteString(`
JSON shape:
{"summary": "string", "formatted_study_output": "string", "topics": [{"topic": "string", "performance": "weak"|"average"|"strong", "suggestions": ["string"]}]}
`)

	b.WriteString("\n---REPORT START---\n")
	b.WriteString(req.ReportText)
	b.WriteString("\n---REPORT END---\n")

	return b.String()
}

func parseExamReport(raw string) (ExamReportOutput, error) {
	cleaned := stripFences(raw)

	var out ExamReportOutput
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		salvaged := salvageJSONObject(cleaned)
		if salvaged == "" {
			return ExamReportOutput{}, &errMalformedResponse{detail: truncate(err.Error(), 120)}
		}
		if err := json.Unmarshal([]byte(salvaged), &out); err != nil {
			return ExamReportOutput{}, &errMalformedResponse{detail: truncate(err.Error(), 120)}
		}
	}

	return out, nil
}

func normalizeExamReport(out ExamReportOutput, model string) ExamReportOutput {
	if out.Summary == "" {
		log.Println("WARNING: exam report response missing summary, substituting placeholder")
		out.Summary = "The analysis completed but no overview could be extracted from the report."
	}
	if out.FormattedStudyOutput == "" {
		out.FormattedStudyOutput = out.Summary
	}
	if out.Topics == nil {
		out.Topics = []TopicAnalysis{}
	}
	for i := range out.Topics {
		if out.Topics[i].Suggestions == nil {
			out.Topics[i].Suggestions = []string{}
		}
		switch out.Topics[i].Performance {
		case "weak", "average", "strong":
		default:
			out.Topics[i].Performance = "average"
		}
	}
	out.Model = model
	return out
}

func failedExamReport(err error, caller Caller, model string) ExamReportOutput {
	narrative := errorNarrative(err, caller.IsAdmin)
	return ExamReportOutput{
		Summary:              narrative,
		FormattedStudyOutput: narrative,
		Topics:               []TopicAnalysis{},
		Model:                model,
	}
}
