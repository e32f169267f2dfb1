package flow

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// maxNarrativeLen bounds every error string embedded in a narrative field
// so backend stack traces never reach the UI whole.
const maxNarrativeLen = 300

const (
	msgNotConfigured = "The AI service is not configured. Please contact support."
	msgSafetyBlocked = "Your content may have triggered the model's safety filters. Please revise it and try again."
	msgGeneric       = "Sorry, something went wrong while generating your result. Please try again in a moment."
)

// safetyKeywords are matched against backend error text to detect
// content-safety rejections.
var safetyKeywords = []string{"safety", "blocked", "harm_category", "prohibited"}

// errMalformedResponse wraps parse/shape failures of the backend response.
type errMalformedResponse struct {
	detail string
}

func (e *errMalformedResponse) Error() string {
	return fmt.Sprintf("malformed backend response: %s", e.detail)
}

// errorNarrative converts any flow failure into the human-readable string
// carried in the output's narrative field. Admin callers see truncated
// diagnostics for parse failures; regular users get the generic message.
func errorNarrative(err error, isAdmin bool) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, ErrNotConfigured) {
		return msgNotConfigured
	}

	lower := strings.ToLower(err.Error())
	for _, kw := range safetyKeywords {
		if strings.Contains(lower, kw) {
			return msgSafetyBlocked
		}
	}

	var malformed *errMalformedResponse
	if errors.As(err, &malformed) {
		if isAdmin {
			return truncate(fmt.Sprintf("The model response did not match the expected shape: %s", malformed.detail), maxNarrativeLen)
		}
		return msgGeneric
	}

	if isAdmin {
		return truncate(fmt.Sprintf("Generation failed: %s", err.Error()), maxNarrativeLen)
	}
	return msgGeneric
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n - 3
	// back up to a rune boundary so the cut never splits a multi-byte char
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
