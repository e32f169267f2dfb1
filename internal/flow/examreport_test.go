package flow

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestExamReportRequest_Validate_Boundary(t *testing.T) {
	req := ExamReportRequest{ReportText: strings.Repeat("a", 99)}
	if fields := req.Validate(); fields == nil {
		t.Error("expected 99-char report to be rejected")
	} else if _, ok := fields["report_text"]; !ok {
		t.Errorf("expected error on report_text, got %v", fields)
	}

	req = ExamReportRequest{ReportText: strings.Repeat("a", 100)}
	if fields := req.Validate(); fields != nil {
		t.Errorf("expected 100-char report to pass, got %v", fields)
	}

	// Whitespace padding does not count toward the minimum.
	req = ExamReportRequest{ReportText: strings.Repeat("a", 99) + "   \n\t  "}
	if req.Validate() == nil {
		t.Error("expected whitespace-padded 99-char report to be rejected")
	}
}

func TestAnalyzeExamReport_NormalizerTotality(t *testing.T) {
	responses := []struct {
		name string
		raw  string
	}{
		{"empty object", `{}`},
		{"null fields", `{"summary": null, "formatted_study_output": null, "topics": null}`},
		{"partial", `{"summary": "Decent overall."}`},
		{"fenced", "```json\n{\"summary\": \"Fenced.\", \"topics\": []}\n```"},
		{"preamble", `Here is the analysis: {"summary": "With preamble.", "topics": []}`},
	}

	for _, tc := range responses {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubBackend{response: tc.raw}
			r := NewRunner(stub)

			out := r.AnalyzeExamReport(context.Background(), ExamReportRequest{
				ReportText: strings.Repeat("math exam report ", 10),
			}, Caller{Plan: "free"})

			if out.Summary == "" {
				t.Error("summary must never be empty")
			}
			if out.FormattedStudyOutput == "" {
				t.Error("formatted_study_output must never be empty")
			}
			if out.Topics == nil {
				t.Error("topics must never be nil")
			}
			if out.Model == "" {
				t.Error("model must be set on every output")
			}
		})
	}
}

func TestAnalyzeExamReport_ClampsPerformance(t *testing.T) {
	stub := &stubBackend{response: `{
		"summary": "S",
		"formatted_study_output": "F",
		"topics": [
			{"topic": "algebra", "performance": "excellent", "suggestions": ["review"]},
			{"topic": "geometry", "performance": "weak"}
		]
	}`}
	r := NewRunner(stub)

	out := r.AnalyzeExamReport(context.Background(), ExamReportRequest{
		ReportText: strings.Repeat("math exam report ", 10),
	}, Caller{Plan: "free"})

	if out.Topics[0].Performance != "average" {
		t.Errorf("expected unknown performance clamped to average, got %q", out.Topics[0].Performance)
	}
	if out.Topics[1].Performance != "weak" {
		t.Errorf("expected valid performance preserved, got %q", out.Topics[1].Performance)
	}
	if out.Topics[1].Suggestions == nil {
		t.Error("expected nil suggestions replaced with empty slice")
	}
}

func TestAnalyzeExamReport_BackendFailureNarrative(t *testing.T) {
	stub := &stubBackend{err: errors.New("upstream exploded")}
	r := NewRunner(stub)

	out := r.AnalyzeExamReport(context.Background(), ExamReportRequest{
		ReportText: strings.Repeat("math exam report ", 10),
	}, Caller{Plan: "free"})

	if out.Summary != msgGeneric {
		t.Errorf("non-admin caller must see the generic narrative, got %q", out.Summary)
	}
	if out.FormattedStudyOutput != out.Summary {
		t.Error("failure narrative must fill both narrative fields")
	}
	if len(out.Topics) != 0 {
		t.Errorf("expected no topics on failure, got %d", len(out.Topics))
	}
}

func TestAnalyzeExamReport_PlanShapesPrompt(t *testing.T) {
	for _, plan := range []string{"free", "premium", "pro"} {
		stub := &stubBackend{response: `{"summary": "S", "topics": []}`}
		r := NewRunner(stub)

		r.AnalyzeExamReport(context.Background(), ExamReportRequest{
			ReportText: strings.Repeat("exam report ", 15),
		}, Caller{Plan: plan})

		// Plan changes the prompt depth, never the model.
		if stub.lastModel != DefaultModel {
			t.Errorf("plan %s: expected model %s, got %s", plan, DefaultModel, stub.lastModel)
		}
		if !strings.Contains(stub.lastPrompt, "Depth:") {
			t.Errorf("plan %s: prompt missing depth instruction", plan)
		}
	}
}
