package flow

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
)

const (
	minTestTextLen   = 50
	maxTestQuestions = 30
	testOptionCount  = 5
)

type TestRequest struct {
	TextContent  string `json:"text_content"`
	NumQuestions int    `json:"num_questions"`
	Difficulty   string `json:"difficulty"`
	ModelID      string `json:"model_id,omitempty"`
}

func (req *TestRequest) Validate() map[string]string {
	fields := make(map[string]string)
	if len(strings.TrimSpace(req.TextContent)) < minTestTextLen {
		fields["text_content"] = fmt.Sprintf("Source text must be at least %d characters", minTestTextLen)
	}
	if req.NumQuestions <= 0 || req.NumQuestions > maxTestQuestions {
		fields["num_questions"] = fmt.Sprintf("num_questions must be between 1 and %d", maxTestQuestions)
	}
	switch req.Difficulty {
	case "", "easy", "medium", "hard":
	default:
		fields["difficulty"] = "difficulty must be easy, medium, or hard"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

type TestQuestion struct {
	QuestionText  string   `json:"question_text"`
	QuestionType  string   `json:"question_type"` // always "multiple_choice"
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation,omitempty"`
}

type TestOutput struct {
	TestTitle string         `json:"test_title"`
	Questions []TestQuestion `json:"questions"`
	Model     string         `json:"model"`
}

func (r *Runner) GenerateTest(ctx context.Context, req TestRequest, caller Caller) TestOutput {
	model := ResolveModel(req.ModelID)
	prompt := buildTestPrompt(req, caller, model)

	raw, err := r.generate(ctx, model, prompt, GenerateOptions{
		Temperature:     tempGenerative,
		MaxOutputTokens: tokensForCards(req.NumQuestions),
	})
	if err != nil {
		return failedTest(err, caller, model)
	}

	parsed, err := parseTest(raw)
	if err != nil {
		return failedTest(err, caller, model)
	}

	return normalizeTest(parsed, model)
}

func buildTestPrompt(req TestRequest, caller Caller, model string) string {
	var b strings.Builder

	b.WriteString("You are an expert educational assessor. Generate a practice test from the content below.\n\n")
	b.WriteString("CRITICAL: Return ONLY a valid JSON object. No preamble, no markdown, no backticks.\n\n")
	b.WriteString(fmt.Sprintf("Generate exactly %d multiple choice questions with exactly %d options each.\n", req.NumQuestions, testOptionCount))

	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = "medium"
	}
	b.WriteString(fmt.Sprintf("Difficulty: %s\n", difficulty))
	switch difficulty {
	case "easy":
		b.WriteString("Easy = direct recall from the text.\n")
	case "medium":
		b.WriteString("Medium = application of concepts.\n")
	case "hard":
		b.WriteString("Hard = analysis, synthesis, or inference beyond what is explicitly stated.\n")
	}

	if caller.isPro() {
		b.WriteString("Write an explanation for every question, referencing the relevant part of the source.\n")
	} else if caller.isPremium() {
		b.WriteString("Write a short explanation for every question.\n")
	}

	if isPreviewModel(model) {
		b.WriteString("Keep question texts and options short.\n")
	}

	b.WriteString(`
JSON shape:
{"test_title": "string", "questions": [{"question_text": "string", "question_type": "multiple_choice", "options": ["string"], "correct_answer": "string", "explanation": "string"}]}

correct_answer must exactly match one of the options.
`)

	b.WriteString("\n---CONTENT---\n")
	b.WriteString(req.TextContent)
	b.WriteString("\n---END---\n")

	return b.String()
}

func parseTest(raw string) (TestOutput, error) {
	cleaned := stripFences(raw)

	var out TestOutput
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		salvaged := salvageJSONObject(cleaned)
		if salvaged == "" {
			return TestOutput{}, &errMalformedResponse{detail: truncate(err.Error(), 120)}
		}
		if err := json.Unmarshal([]byte(salvaged), &out); err != nil {
			return TestOutput{}, &errMalformedResponse{detail: truncate(err.Error(), 120)}
		}
	}

	return out, nil
}

// normalizeTest drops questions without text and forces the question
// type. A question with the wrong option count is kept as-is and only
// logged; fabricating options would invent content the model never wrote.
func normalizeTest(out TestOutput, model string) TestOutput {
	if out.TestTitle == "" {
		log.Println("WARNING: test response missing test_title")
		out.TestTitle = "Untitled Practice Test"
	}
	if out.Questions == nil {
		out.Questions = []TestQuestion{}
	}

	valid := out.Questions[:0]
	for _, q := range out.Questions {
		if q.QuestionText == "" {
			log.Println("WARNING: dropping test question with empty question_text")
			continue
		}
		q.QuestionType = "multiple_choice"
		if q.Options == nil {
			q.Options = []string{}
		}
		if len(q.Options) != testOptionCount {
			log.Printf("WARNING: question %q has %d options instead of %d", truncate(q.QuestionText, 60), len(q.Options), testOptionCount)
		}
		valid = append(valid, q)
	}
	out.Questions = valid
	out.Model = model
	return out
}

func failedTest(err error, caller Caller, model string) TestOutput {
	return TestOutput{
		TestTitle: errorNarrative(err, caller.IsAdmin),
		Questions: []TestQuestion{},
		Model:     model,
	}
}
