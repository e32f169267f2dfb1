package flow

import (
	"context"
	"strings"
	"testing"
)

func TestGenerateFlashcards_PassThrough(t *testing.T) {
	stub := &stubBackend{response: `{
		"summary_title": "X",
		"flashcards": [
			{"front": "What is a stack?", "back": "A LIFO data structure.", "topic": "data structures"},
			{"front": "What is a queue?", "back": "A FIFO data structure.", "topic": "data structures"},
			{"front": "What is a heap?", "back": "A tree satisfying the heap property.", "topic": "data structures"},
			{"front": "What is a trie?", "back": "A prefix tree for strings.", "topic": "data structures"},
			{"front": "What is a graph?", "back": "Nodes connected by edges.", "topic": "data structures"}
		]
	}`}
	r := NewRunner(stub)

	out := r.GenerateFlashcards(context.Background(), FlashcardRequest{
		TextContent:   strings.Repeat("data structures lecture notes ", 3),
		NumFlashcards: 5,
		Difficulty:    "medium",
	}, Caller{Plan: "free"})

	if out.SummaryTitle != "X" {
		t.Errorf("expected summary_title X, got %q", out.SummaryTitle)
	}
	if len(out.Flashcards) != 5 {
		t.Fatalf("expected 5 cards, got %d", len(out.Flashcards))
	}
	// Well-formed cards pass through without repair.
	if out.Flashcards[0].Front != "What is a stack?" || out.Flashcards[0].Back != "A LIFO data structure." {
		t.Errorf("first card was modified: %+v", out.Flashcards[0])
	}
	if out.Flashcards[4].Topic != "data structures" {
		t.Errorf("last card topic was modified: %+v", out.Flashcards[4])
	}
}

func TestGenerateFlashcards_TokenScaling(t *testing.T) {
	tests := []struct {
		numCards int
		tokens   int32
	}{
		{1, 1024},  // 200 clamped up
		{5, 1024},  // 1000 clamped up
		{10, 2000}, // scales linearly
		{40, 8000}, // 8000 exactly
		{50, 8000}, // clamped down
	}

	for _, tc := range tests {
		stub := &stubBackend{response: `{"summary_title": "T", "flashcards": []}`}
		r := NewRunner(stub)

		r.GenerateFlashcards(context.Background(), FlashcardRequest{
			TextContent:   strings.Repeat("source text ", 10),
			NumFlashcards: tc.numCards,
		}, Caller{Plan: "free"})

		if stub.lastOpts.MaxOutputTokens != tc.tokens {
			t.Errorf("%d cards: expected %d tokens, got %d", tc.numCards, tc.tokens, stub.lastOpts.MaxOutputTokens)
		}
	}
}

func TestGenerateFlashcards_DropsBrokenCards(t *testing.T) {
	stub := &stubBackend{response: `{
		"summary_title": "Mixed",
		"flashcards": [
			{"front": "Valid?", "back": "Yes.", "topic": "t"},
			{"front": "", "back": "orphan back", "topic": "t"},
			{"front": "orphan front", "back": "", "topic": "t"}
		]
	}`}
	r := NewRunner(stub)

	out := r.GenerateFlashcards(context.Background(), FlashcardRequest{
		TextContent:   strings.Repeat("source text ", 10),
		NumFlashcards: 3,
	}, Caller{Plan: "free"})

	if len(out.Flashcards) != 1 {
		t.Errorf("expected 1 surviving card, got %d", len(out.Flashcards))
	}
}

func TestFlashcardRequest_Validate_MinLength(t *testing.T) {
	// 49 characters: rejected before any backend call.
	short := strings.Repeat("a", 49)
	req := FlashcardRequest{TextContent: short, NumFlashcards: 5}
	if req.Validate() == nil {
		t.Error("expected 49-char text to be rejected")
	}

	// 50 characters: accepted.
	ok := strings.Repeat("a", 50)
	req = FlashcardRequest{TextContent: ok, NumFlashcards: 5}
	if fields := req.Validate(); fields != nil {
		t.Errorf("expected 50-char text to pass, got %v", fields)
	}
}

func TestGenerateFlashcards_NoBackendCallOnNilRunnerBackend(t *testing.T) {
	r := NewRunner(nil)

	out := r.GenerateFlashcards(context.Background(), FlashcardRequest{
		TextContent:   strings.Repeat("a", 60),
		NumFlashcards: 5,
	}, Caller{Plan: "free"})

	if out.SummaryTitle != msgNotConfigured {
		t.Errorf("expected not-configured narrative, got %q", out.SummaryTitle)
	}
	if out.Flashcards == nil || len(out.Flashcards) != 0 {
		t.Errorf("expected empty flashcards slice, got %v", out.Flashcards)
	}
}
