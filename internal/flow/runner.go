package flow

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Caller carries the request-scoped facts about who is invoking a flow.
// Plan tier alters prompt wording only; the admin flag widens error
// diagnostics and permits model overrides (enforced by the handler layer).
type Caller struct {
	Plan    string
	IsAdmin bool
}

func (c Caller) isPremium() bool { return c.Plan == "premium" }
func (c Caller) isPro() bool     { return c.Plan == "pro" }

// Runner executes flows against an injected backend. A nil backend is
// legal and makes every flow terminate in the not-configured narrative,
// which keeps the missing-API-key path explicit and testable.
type Runner struct {
	backend Backend
}

func NewRunner(backend Backend) *Runner {
	return &Runner{backend: backend}
}

func (r *Runner) generate(ctx context.Context, model, prompt string, opts GenerateOptions) (string, error) {
	if r.backend == nil {
		return "", ErrNotConfigured
	}

	start := time.Now()
	raw, err := r.backend.Generate(ctx, model, prompt, opts)
	if err != nil {
		return "", fmt.Errorf("backend call failed after %s: %w", time.Since(start).Round(time.Millisecond), err)
	}

	return raw, nil
}

// stripFences removes markdown code fences the model sometimes wraps
// around JSON output.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// salvageJSONObject extracts the outermost {...} span when the response
// carries preamble or trailing prose around the JSON body.
func salvageJSONObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return ""
}

// salvageJSONArray does the same for a top-level [...] span.
func salvageJSONArray(s string) string {
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return ""
}
