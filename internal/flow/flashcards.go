package flow

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
)

const (
	minFlashcardTextLen = 50
	maxFlashcardCount   = 50
)

type FlashcardRequest struct {
	TextContent   string `json:"text_content"`
	NumFlashcards int    `json:"num_flashcards"`
	Difficulty    string `json:"difficulty"` // "easy" | "medium" | "hard"
	ModelID       string `json:"model_id,omitempty"`
}

func (req *FlashcardRequest) Validate() map[string]string {
	fields := make(map[string]string)
	if len(strings.TrimSpace(req.TextContent)) < minFlashcardTextLen {
		fields["text_content"] = fmt.Sprintf("Source text must be at least %d characters", minFlashcardTextLen)
	}
	if req.NumFlashcards <= 0 || req.NumFlashcards > maxFlashcardCount {
		fields["num_flashcards"] = fmt.Sprintf("num_flashcards must be between 1 and %d", maxFlashcardCount)
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

type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
	Topic string `json:"topic"`
}

type FlashcardOutput struct {
	SummaryTitle string      `json:"summary_title"`
	Flashcards   []Flashcard `json:"flashcards"`
	Model        string      `json:"model"`
}

func (r *Runner) GenerateFlashcards(ctx context.Context, req FlashcardRequest, caller Caller) FlashcardOutput {
	model := ResolveModel(req.ModelID)
	prompt := buildFlashcardPrompt(req, caller, model)

	raw, err := r.generate(ctx, model, prompt, GenerateOptions{
		Temperature:     tempGenerative,
		MaxOutputTokens: tokensForCards(req.NumFlashcards),
	})
	if err != nil {
		return failedFlashcards(err, caller, model)
	}

	parsed, err := parseFlashcards(raw)
	if err != nil {
		return failedFlashcards(err, caller, model)
	}

	return normalizeFlashcards(parsed, model)
}

func buildFlashcardPrompt(req FlashcardRequest, caller Caller, model string) string {
	var b strings.Builder

	b.WriteString("You are an expert flashcard creator. Generate high-quality study flashcards from the content below.\n\n")
	b.WriteString("CRITICAL: Return ONLY a valid JSON object. No preamble, no markdown, no backticks.\n\n")
	b.WriteString(fmt.Sprintf("Generate exactly %d flashcards.\n", req.NumFlashcards))

	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = "medium"
	}
	b.WriteString(fmt.Sprintf("Difficulty: %s. Calibrate how much prior knowledge each card assumes accordingly.\n", difficulty))

	if caller.isPro() {
		b.WriteString("Include cards that test transfer and application of the material, not only recall.\n")
	} else if caller.isPremium() {
		b.WriteString("Add a short memory hint to the back of each card where it helps.\n")
	}

	if isPreviewModel(model) {
		b.WriteString("Keep card fronts and backs as short as possible.\n")
	}

	b.WriteString(`
Rules:
- Front must be under 15 words (question or term, never a statement)
- Back must be under 60 words and self-contained
- No two cards may test the same concept

JSON shape:
{"summary_title": "string", "flashcards": [{"front": "string", "back": "string", "topic": "string"}]}
`)

	b.WriteString("\n---CONTENT---\n")
	b.WriteString(req.TextContent)
	b.WriteString("\n---END---\n")

	return b.String()
}

func parseFlashcards(raw string) (FlashcardOutput, error) {
	cleaned := stripFences(raw)

	var out FlashcardOutput
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		salvaged := salvageJSONObject(cleaned)
		if salvaged == "" {
			return FlashcardOutput{}, &errMalformedResponse{detail: truncate(err.Error(), 120)}
		}
		if err := json.Unmarshal([]byte(salvaged), &out); err != nil {
			return FlashcardOutput{}, &errMalformedResponse{detail: truncate(err.Error(), 120)}
		}
	}

	return out, nil
}

func normalizeFlashcards(out FlashcardOutput, model string) FlashcardOutput {
	if out.SummaryTitle == "" {
		log.Println("WARNING: flashcard response missing summary_title")
		out.SummaryTitle = "Untitled Flashcard Set"
	}
	if out.Flashcards == nil {
		out.Flashcards = []Flashcard{}
	}

	valid := out.Flashcards[:0]
	for _, card := range out.Flashcards {
		if card.Front == "" || card.Back == "" {
			log.Printf("WARNING: dropping flashcard with empty front or back (topic %q)", card.Topic)
			continue
		}
		valid = append(valid, card)
	}
	out.Flashcards = valid
	out.Model = model
	return out
}

func failedFlashcards(err error, caller Caller, model string) FlashcardOutput {
	return FlashcardOutput{
		SummaryTitle: errorNarrative(err, caller.IsAdmin),
		Flashcards:   []Flashcard{},
		Model:        model,
	}
}
