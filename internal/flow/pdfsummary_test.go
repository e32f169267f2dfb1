package flow

import (
	"context"
	"strings"
	"testing"
)

// fullStubResponse populates every optional array so the detail selector
// has something to strip.
const fullStubResponse = `{
	"title": "Photosynthesis",
	"summary": "Plants convert light into chemical energy.",
	"key_points": ["Chlorophyll absorbs light", "ATP is produced"],
	"exam_tips": ["Know the light-dependent reactions"],
	"practice_questions": ["What is the role of chlorophyll?"]
}`

func TestSummarizePdf_DetailSelector(t *testing.T) {
	tests := []struct {
		detail        string
		wantKeyPoints bool
		wantExamTips  bool
		wantQuestions bool
	}{
		{DetailFull, true, true, true},
		{DetailKeyPointsOnly, true, false, false},
		{DetailExamTipsOnly, false, true, false},
		{DetailQuestionsOnly, false, false, true},
	}

	for _, tc := range tests {
		t.Run(tc.detail, func(t *testing.T) {
			stub := &stubBackend{response: fullStubResponse}
			r := NewRunner(stub)

			out := r.SummarizePdf(context.Background(), PdfSummaryRequest{
				TextContent:  strings.Repeat("photosynthesis notes ", 10),
				OutputDetail: tc.detail,
			}, Caller{Plan: "free"})

			if (len(out.KeyPoints) > 0) != tc.wantKeyPoints {
				t.Errorf("key_points present=%v, want %v", len(out.KeyPoints) > 0, tc.wantKeyPoints)
			}
			if (len(out.ExamTips) > 0) != tc.wantExamTips {
				t.Errorf("exam_tips present=%v, want %v", len(out.ExamTips) > 0, tc.wantExamTips)
			}
			if (len(out.PracticeQuestions) > 0) != tc.wantQuestions {
				t.Errorf("practice_questions present=%v, want %v", len(out.PracticeQuestions) > 0, tc.wantQuestions)
			}

			// Gated-off arrays must still be present as empty slices.
			if out.KeyPoints == nil || out.ExamTips == nil || out.PracticeQuestions == nil {
				t.Error("optional arrays must never be nil")
			}
		})
	}
}

func TestSummarizePdf_NormalizerTotality(t *testing.T) {
	responses := []struct {
		name     string
		response string
	}{
		{"empty object", `{}`},
		{"null fields", `{"title": null, "summary": null, "key_points": null}`},
		{"partial", `{"summary": "only a summary"}`},
		{"not json at all", `the model rambled instead of returning JSON`},
		{"fenced", "```json\n" + fullStubResponse + "\n```"},
	}

	for _, tc := range responses {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubBackend{response: tc.response}
			r := NewRunner(stub)

			out := r.SummarizePdf(context.Background(), PdfSummaryRequest{
				TextContent: strings.Repeat("lecture notes ", 10),
			}, Caller{Plan: "free"})

			if out.Summary == "" {
				t.Error("summary must never be empty")
			}
			if out.Title == "" {
				t.Error("title must never be empty")
			}
			if out.KeyPoints == nil || out.ExamTips == nil || out.PracticeQuestions == nil {
				t.Error("array fields must never be nil")
			}
		})
	}
}

func TestSummarizePdf_TokenBudgetByLength(t *testing.T) {
	tests := []struct {
		length string
		tokens int32
	}{
		{"short", 2048},
		{"medium", 4096},
		{"long", 8192},
		{"", 4096},
		{"bogus", 4096},
	}

	for _, tc := range tests {
		stub := &stubBackend{response: fullStubResponse}
		r := NewRunner(stub)

		r.SummarizePdf(context.Background(), PdfSummaryRequest{
			TextContent:   strings.Repeat("notes ", 20),
			SummaryLength: tc.length,
		}, Caller{Plan: "free"})

		if stub.lastOpts.MaxOutputTokens != tc.tokens {
			t.Errorf("length %q: expected %d tokens, got %d", tc.length, tc.tokens, stub.lastOpts.MaxOutputTokens)
		}
	}
}

func TestPdfSummaryRequest_Validate(t *testing.T) {
	req := PdfSummaryRequest{TextContent: "too short", OutputDetail: "everything"}
	fields := req.Validate()
	if fields == nil {
		t.Fatal("expected validation errors")
	}
	if _, ok := fields["text_content"]; !ok {
		t.Error("expected text_content error")
	}
	if _, ok := fields["output_detail"]; !ok {
		t.Error("expected output_detail error")
	}
}
