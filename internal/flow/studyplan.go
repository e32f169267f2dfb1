package flow

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
)

const maxPlanWeeks = 26

type StudyPlanRequest struct {
	Goal         string   `json:"goal"`
	Subjects     []string `json:"subjects"`
	Weeks        int      `json:"weeks"`
	HoursPerWeek int      `json:"hours_per_week"`
	ModelID      string   `json:"model_id,omitempty"`
}

func (req *StudyPlanRequest) Validate() map[string]string {
	fields := make(map[string]string)
	if strings.TrimSpace(req.Goal) == "" {
		fields["goal"] = "A study goal is required"
	}
	if req.Weeks <= 0 || req.Weeks > maxPlanWeeks {
		fields["weeks"] = fmt.Sprintf("weeks must be between 1 and %d", maxPlanWeeks)
	}
	if req.HoursPerWeek <= 0 || req.HoursPerWeek > 80 {
		fields["hours_per_week"] = "hours_per_week must be between 1 and 80"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

type DayPlan struct {
	Day   string   `json:"day"`
	Tasks []string `json:"tasks"`
}

type WeekPlan struct {
	Week  int       `json:"week"`
	Focus string    `json:"focus"`
	Days  []DayPlan `json:"days"`
}

// UnmarshalJSON tolerates week ordinals the model returns as strings or
// floats ("2", 2.0). Anything non-numeric becomes 0 and is repaired by
// backfillWeekOrdinals instead of failing the whole plan.
func (w *WeekPlan) UnmarshalJSON(data []byte) error {
	var aux struct {
		Week  json.RawMessage `json:"week"`
		Focus string          `json:"focus"`
		Days  []DayPlan       `json:"days"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	w.Week = coerceWeekOrdinal(aux.Week)
	w.Focus = aux.Focus
	w.Days = aux.Days
	return nil
}

func coerceWeekOrdinal(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return int(f)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return n
		}
	}
	log.Printf("WARNING: study plan week ordinal %s is not numeric, back-filling", string(raw))
	return 0
}

type StudyPlanOutput struct {
	Summary              string     `json:"summary"`
	FormattedStudyOutput string     `json:"formatted_study_output"`
	Weeks                []WeekPlan `json:"weeks"`
	Model                string     `json:"model"`
}

func (r *Runner) GenerateStudyPlan(ctx context.Context, req StudyPlanRequest, caller Caller) StudyPlanOutput {
	model := ResolveModel(req.ModelID)
	prompt := buildStudyPlanPrompt(req, caller, model)

	raw, err := r.generate(ctx, model, prompt, GenerateOptions{
		Temperature:     tempAnalytic,
		MaxOutputTokens: 8000,
	})
	if err != nil {
		return failedStudyPlan(err, caller, model)
	}

	parsed, err := parseStudyPlan(raw)
	if err != nil {
		return failedStudyPlan(err, caller, model)
	}

	return normalizeStudyPlan(parsed, model)
}

func buildStudyPlanPrompt(req StudyPlanRequest, caller Caller, model string) string {
	var b strings.Builder

	b.WriteString("You are an expert study planner. Create a structured study plan for the goal below.\n\n")
	b.WriteString("CRITICAL: Return ONLY a valid JSON object. No preamble, no markdown, no backticks.\n\n")

	b.WriteString(fmt.Sprintf("Goal: %s\n", req.Goal))
	if len(req.Subjects) > 0 {
		b.WriteString(fmt.Sprintf("Subjects to cover: %s\n", strings.Join(req.Subjects, ", ")))
	}
	b.WriteString(fmt.Sprintf("Timeframe: exactly %d weeks, about %d study hours per week.\n", req.Weeks, req.HoursPerWeek))

	if caller.isPro() {
		b.WriteString("Detail: break every week into daily entries with specific tasks, estimated durations, and one review checkpoint per week.\n")
	} else if caller.isPremium() {
		b.WriteString("Detail: break every week into daily entries with specific tasks.\n")
	} else {
		b.WriteString("Detail: give each week a focus and three to five daily entries with short task lists.\n")
	}

	if isPreviewModel(model) {
		b.WriteString("Keep task descriptions to a single short sentence each.\n")
	}

	b.WriteString(`
JSON shape:
{"summary": "string", "formatted_study_output": "string", "weeks": [{"week": int, "focus": "string", "days": [{"day": "string", "tasks": ["string"]}]}]}
`)

	return b.String()
}

func parseStudyPlan(raw string) (StudyPlanOutput, error) {
	cleaned := stripFences(raw)

	var out StudyPlanOutput
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		salvaged := salvageJSONObject(cleaned)
		if salvaged == "" {
			return StudyPlanOutput{}, &errMalformedResponse{detail: truncate(err.Error(), 120)}
		}
		if err := json.Unmarshal([]byte(salvaged), &out); err != nil {
			return StudyPlanOutput{}, &errMalformedResponse{detail: truncate(err.Error(), 120)}
		}
	}

	return out, nil
}

func normalizeStudyPlan(out StudyPlanOutput, model string) StudyPlanOutput {
	if out.Summary == "" {
		log.Println("WARNING: study plan response missing summary")
		out.Summary = "Your study plan is ready."
	}
	if out.FormattedStudyOutput == "" {
		out.FormattedStudyOutput = out.Summary
	}
	if out.Weeks == nil {
		out.Weeks = []WeekPlan{}
	}
	out.Weeks = backfillWeekOrdinals(out.Weeks)
	for i := range out.Weeks {
		if out.Weeks[i].Days == nil {
			out.Weeks[i].Days = []DayPlan{}
		}
		for j := range out.Weeks[i].Days {
			if out.Weeks[i].Days[j].Tasks == nil {
				out.Weeks[i].Days[j].Tasks = []string{}
			}
		}
	}
	out.Model = model
	return out
}

// backfillWeekOrdinals repairs missing or non-positive week numbers with
// the entry's 1-based list position. Idempotent: entries that already
// carry a positive ordinal are left alone.
func backfillWeekOrdinals(weeks []WeekPlan) []WeekPlan {
	for i := range weeks {
		if weeks[i].Week <= 0 {
			weeks[i].Week = i + 1
		}
	}
	return weeks
}

func failedStudyPlan(err error, caller Caller, model string) StudyPlanOutput {
	narrative := errorNarrative(err, caller.IsAdmin)
	return StudyPlanOutput{
		Summary:              narrative,
		FormattedStudyOutput: narrative,
		Weeks:                []WeekPlan{},
		Model:                model,
	}
}
