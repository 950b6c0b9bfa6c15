package domain

import "context"

// Generator produces a report payload from a prompt. Implementations return
// the raw response content; callers parse it with ParseReportFields.
//
// Errors must be classified before they surface: transport failures and
// non-success statuses as ErrGenerationUnavailable, unusable response
// envelopes as ErrMalformedResponse.
type Generator interface {
	Generate(ctx context.Context, prompt Prompt) ([]byte, error)
}
