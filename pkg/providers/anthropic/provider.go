// Package anthropicprovider implements the generation port against the
// Anthropic messages API.
package anthropicprovider

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/tinyland-inc/reefbot/pkg/providers/protocoltypes"
	"github.com/tinyland-inc/reefbot/pkg/utils"
)

type (
	GenerationRequest  = protocoltypes.GenerationRequest
	GenerationResponse = protocoltypes.GenerationResponse
	RetryPolicy        = protocoltypes.RetryPolicy
	UpstreamError      = protocoltypes.UpstreamError
)

const defaultBaseURL = "https://api.anthropic.com"

// replyMaxTokens bounds the upstream completion; the mediator applies its own
// character-level reply limit on top.
const replyMaxTokens = 1024

type Provider struct {
	client *anthropic.Client
	model  string
	retry  RetryPolicy
}

func NewProvider(apiKey, apiBase, model string, retry RetryPolicy) *Provider {
	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(normalizeBaseURL(apiBase)),
		option.WithMaxRetries(0),
	)
	return &Provider{
		client: &client,
		model:  model,
		retry:  retry,
	}
}

// Generate performs one messages round trip under the same bounded-retry
// contract as the OpenAI port: retry on status >= 500 with linear backoff,
// terminal otherwise.
func (p *Provider) Generate(ctx context.Context, req GenerationRequest) (GenerationResponse, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: replyMaxTokens,
		System: []anthropic.TextBlockParam{
			{Text: utils.Truncate(req.PersonaPrompt, protocoltypes.SystemPromptMaxChars)},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(
				utils.Truncate(req.UserMessage, protocoltypes.UserMessageMaxChars))),
		},
	}

	var resp *anthropic.Message
	err := protocoltypes.Retry(ctx, p.retry, func() error {
		var callErr error
		resp, callErr = p.client.Messages.New(ctx, params)
		return callErr
	}, isTransient)
	if err != nil {
		if ctx.Err() != nil {
			return GenerationResponse{}, ctx.Err()
		}
		return GenerationResponse{}, &UpstreamError{Status: statusOf(err), Err: err}
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			tb := block.AsText()
			sb.WriteString(tb.Text)
		}
	}

	return GenerationResponse{
		Text:            sb.String(),
		ConversationKey: req.ConversationKey,
		MessageID:       req.MessageID,
	}, nil
}

func isTransient(err error) bool {
	return statusOf(err) >= 500
}

func statusOf(err error) int {
	var apierr *anthropic.Error
	if errors.As(err, &apierr) {
		return apierr.StatusCode
	}
	return 0
}

func normalizeBaseURL(apiBase string) string {
	base := strings.TrimSpace(apiBase)
	if base == "" {
		return defaultBaseURL
	}

	base = strings.TrimRight(base, "/")
	if b, ok := strings.CutSuffix(base, "/v1"); ok {
		base = b
	}
	if base == "" {
		return defaultBaseURL
	}

	return base
}
