// Package protocoltypes holds the provider-agnostic generation protocol:
// request/response shapes, the upstream error type, and the bounded retry
// policy every provider port applies.
package protocoltypes

import "fmt"

// Hard caps applied by every provider port, independently of the mediator's
// own input limit.
const (
	SystemPromptMaxChars = 1000
	UserMessageMaxChars  = 4000
)

// GenerationRequest is built once per accepted event and never mutated.
type GenerationRequest struct {
	PersonaPrompt   string
	UserMessage     string
	ConversationKey string // guild id when present, else channel id
	MessageID       string
}

// GenerationResponse carries the upstream text back with its correlation
// identifiers.
type GenerationResponse struct {
	Text            string
	ConversationKey string
	MessageID       string
}

// UpstreamError reports a generation call that failed after exhausting
// retries, or failed terminally with a non-retryable status. Status is 0 when
// the failure carried no HTTP status (transport errors).
type UpstreamError struct {
	Status int
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("upstream error (status %d): %v", e.Status, e.Err)
	}
	return fmt.Sprintf("upstream error: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
