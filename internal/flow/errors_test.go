package flow

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestErrorNarrative_Bounded(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"huge generic error", errors.New(strings.Repeat("x", 10000))},
		{"huge malformed detail", &errMalformedResponse{detail: strings.Repeat("y", 10000)}},
		{"wrapped backend error", fmt.Errorf("backend call failed: %w", errors.New(strings.Repeat("z", 5000)))},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for _, isAdmin := range []bool{false, true} {
				msg := errorNarrative(tc.err, isAdmin)
				if msg == "" {
					t.Fatal("expected a non-empty narrative")
				}
				if len(msg) > maxNarrativeLen {
					t.Errorf("narrative length %d exceeds cap %d (admin=%v)", len(msg), maxNarrativeLen, isAdmin)
				}
			}
		})
	}
}

func TestErrorNarrative_SafetyDetection(t *testing.T) {
	err := errors.New("generation stopped: BLOCKED due to HARM_CATEGORY_DANGEROUS_CONTENT")
	msg := errorNarrative(err, false)
	if msg != msgSafetyBlocked {
		t.Errorf("expected safety narrative, got %q", msg)
	}
}

func TestErrorNarrative_NotConfigured(t *testing.T) {
	msg := errorNarrative(ErrNotConfigured, false)
	if msg != msgNotConfigured {
		t.Errorf("expected not-configured narrative, got %q", msg)
	}
}

func TestErrorNarrative_AdminSeesDiagnostics(t *testing.T) {
	err := &errMalformedResponse{detail: "unexpected end of JSON input"}

	adminMsg := errorNarrative(err, true)
	userMsg := errorNarrative(err, false)

	if !strings.Contains(adminMsg, "unexpected end of JSON input") {
		t.Errorf("admin narrative should carry the diagnostic, got %q", adminMsg)
	}
	if userMsg != msgGeneric {
		t.Errorf("user narrative should be generic, got %q", userMsg)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("expected unchanged string, got %q", got)
	}
	got := truncate(strings.Repeat("a", 50), 10)
	if len(got) != 10 {
		t.Errorf("expected length 10, got %d", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected ellipsis suffix, got %q", got)
	}
}

func TestTruncate_RuneBoundary(t *testing.T) {
	got := truncate(strings.Repeat("ё", 200), maxNarrativeLen)
	if !utf8.ValidString(got) {
		t.Errorf("truncation produced invalid UTF-8: %q", got)
	}
	if len(got) > maxNarrativeLen {
		t.Errorf("expected at most %d bytes, got %d", maxNarrativeLen, len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected ellipsis suffix, got %q", got)
	}
}

func TestErrorNarrative_MultibyteDiagnosticValidUTF8(t *testing.T) {
	err := &errMalformedResponse{detail: strings.Repeat("невалидный ответ ", 40)}
	msg := errorNarrative(err, true)
	if !utf8.ValidString(msg) {
		t.Errorf("admin narrative contains invalid UTF-8: %q", msg)
	}
	if len(msg) > maxNarrativeLen {
		t.Errorf("narrative length %d exceeds cap %d", len(msg), maxNarrativeLen)
	}
}
