// Package flow implements the generative-AI flow core: model resolution,
// prompt rendering, backend invocation, and response normalization. Every
// flow returns a well-formed output value; errors never cross the flow
// boundary as Go errors, they are embedded as narrative text instead.
package flow

import (
	"context"
	"errors"
)

// Backend abstracts the generative model API. Implementations send a prompt
// to a concrete model and return the raw response text.
type Backend interface {
	Generate(ctx context.Context, model, prompt string, opts GenerateOptions) (string, error)
}

// GenerateOptions carries the per-invocation generation config. Safety
// thresholds are not configurable here: the backend implementation applies
// a fixed block-medium-and-above policy for all four harm categories,
// regardless of plan.
type GenerateOptions struct {
	Temperature     float32
	MaxOutputTokens int32
}

// ErrNotConfigured is returned by the runner when no backend is available
// (missing API key at startup).
var ErrNotConfigured = errors.New("generative backend is not configured")

// Fixed temperatures per flow family. Analytic flows stay focused,
// generative flows get more variety.
const (
	tempAnalytic   float32 = 0.6
	tempGenerative float32 = 0.8
)

const (
	minOutputTokens = 1024
	maxOutputTokens = 8000
)

// tokensForCards scales the output budget with the requested card or
// question count, clamped to [1024, 8000].
func tokensForCards(count int) int32 {
	tokens := count * 200
	if tokens < minOutputTokens {
		tokens = minOutputTokens
	}
	if tokens > maxOutputTokens {
		tokens = maxOutputTokens
	}
	return int32(tokens)
}

// tokensForSummaryLength maps the summary length setting to a fixed budget.
func tokensForSummaryLength(length string) int32 {
	switch length {
	case "short":
		return 2048
	case "long":
		return 8192
	default: // "medium" and anything unrecognized
		return 4096
	}
}
