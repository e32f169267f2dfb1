package flow

import "context"

// stubBackend records the last invocation and replays a canned response.
type stubBackend struct {
	response string
	err      error

	calls      int
	lastModel  string
	lastPrompt string
	lastOpts   GenerateOptions
}

func (s *stubBackend) Generate(ctx context.Context, model, prompt string, opts GenerateOptions) (string, error) {
	s.calls++
	s.lastModel = model
	s.lastPrompt = prompt
	s.lastOpts = opts
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}
