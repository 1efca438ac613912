// Package openaiprovider implements the generation port against an
// OpenAI-compatible chat-completions endpoint.
package openaiprovider

import (
	"context"
	"errors"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/tinyland-inc/reefbot/pkg/providers/protocoltypes"
	"github.com/tinyland-inc/reefbot/pkg/utils"
)

type (
	GenerationRequest  = protocoltypes.GenerationRequest
	GenerationResponse = protocoltypes.GenerationResponse
	RetryPolicy        = protocoltypes.RetryPolicy
	UpstreamError      = protocoltypes.UpstreamError
)

const defaultBaseURL = "https://api.openai.com/v1/"

type Provider struct {
	client *openai.Client
	model  string
	retry  RetryPolicy
}

func NewProvider(apiKey, apiBase, model string, retry RetryPolicy) *Provider {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(normalizeBaseURL(apiBase)),
		// The port owns the retry policy; the SDK must not add its own.
		option.WithMaxRetries(0),
	}
	client := openai.NewClient(opts...)
	return &Provider{
		client: &client,
		model:  model,
		retry:  retry,
	}
}

// Generate performs one chat-completion round trip under the port's bounded
// retry. Server-class failures (status >= 500) are retried with linear
// backoff; anything else is terminal immediately. A missing first choice
// yields an empty string, not an error.
func (p *Provider) Generate(ctx context.Context, req GenerationRequest) (GenerationResponse, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(utils.Truncate(req.PersonaPrompt, protocoltypes.SystemPromptMaxChars)),
			openai.UserMessage(utils.Truncate(req.UserMessage, protocoltypes.UserMessageMaxChars)),
		},
	}

	var resp *openai.ChatCompletion
	err := protocoltypes.Retry(ctx, p.retry, func() error {
		var callErr error
		resp, callErr = p.client.Chat.Completions.New(ctx, params)
		return callErr
	}, isTransient)
	if err != nil {
		if ctx.Err() != nil {
			return GenerationResponse{}, ctx.Err()
		}
		return GenerationResponse{}, &UpstreamError{Status: statusOf(err), Err: err}
	}

	text := ""
	if len(resp.Choices) > 0 {
		text = resp.Choices[0].Message.Content
	}

	return GenerationResponse{
		Text:            text,
		ConversationKey: req.ConversationKey,
		MessageID:       req.MessageID,
	}, nil
}

func isTransient(err error) bool {
	return statusOf(err) >= 500
}

func statusOf(err error) int {
	var apierr *openai.Error
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
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base
}
