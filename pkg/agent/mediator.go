// Package agent contains the decision pipeline: classify an inbound event,
// gate it through the rate limiter, call the generation provider, and fold
// every path into a single Decision.
package agent

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/tinyland-inc/reefbot/pkg/bus"
	"github.com/tinyland-inc/reefbot/pkg/logger"
	"github.com/tinyland-inc/reefbot/pkg/providers"
	"github.com/tinyland-inc/reefbot/pkg/providers/protocoltypes"
	"github.com/tinyland-inc/reefbot/pkg/utils"
)

const (
	throttleMessage = "Too many requests, please wait a few seconds."
	apologyMessage  = "Sorry, something went wrong."
)

// Options tunes the mediator. Zero values fall back to the defaults below.
type Options struct {
	InputMaxChars  int
	ReplyMaxChars  int
	RateInterval   time.Duration
	RequestTimeout time.Duration
}

func DefaultOptions() Options {
	return Options{
		InputMaxChars:  4000,
		ReplyMaxChars:  1500,
		RateInterval:   5 * time.Second,
		RequestTimeout: 60 * time.Second,
	}
}

// Mediator turns one inbound event into one Decision. It is safe for
// concurrent use: Classify is pure, the limiter locks internally, and the
// provider call carries its own context.
type Mediator struct {
	provider providers.Provider
	limiter  RateLimiter
	persona  string
	opts     Options
}

func NewMediator(provider providers.Provider, limiter RateLimiter, persona string, opts Options) *Mediator {
	def := DefaultOptions()
	if opts.InputMaxChars <= 0 {
		opts.InputMaxChars = def.InputMaxChars
	}
	if opts.ReplyMaxChars <= 0 {
		opts.ReplyMaxChars = def.ReplyMaxChars
	}
	if opts.RateInterval <= 0 {
		opts.RateInterval = def.RateInterval
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = def.RequestTimeout
	}
	return &Mediator{
		provider: provider,
		limiter:  limiter,
		persona:  persona,
		opts:     opts,
	}
}

// Handle runs the full pipeline. The ordering is load-bearing: classification
// happens before the rate limiter so out-of-scope traffic never consumes a
// sender's window, and the limiter runs before the provider so throttled
// senders never cost a generation call.
func (m *Mediator) Handle(ctx context.Context, msg bus.InboundMessage) Decision {
	content, ok := Classify(msg, m.opts.InputMaxChars)
	if !ok {
		return Ignore()
	}

	if !m.limiter.TryAcquire(msg.SenderID, m.opts.RateInterval) {
		logger.DebugCF("agent", "Sender throttled", map[string]any{
			"sender_id":  msg.SenderID,
			"message_id": msg.MessageID,
		})
		return Reply(throttleMessage)
	}

	req := protocoltypes.GenerationRequest{
		PersonaPrompt:   m.persona,
		UserMessage:     content,
		ConversationKey: msg.ConversationKey(),
		MessageID:       msg.MessageID,
	}

	genCtx, cancel := context.WithTimeout(ctx, m.opts.RequestTimeout)
	defer cancel()

	resp, err := m.provider.Generate(genCtx, req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			logger.WarnCF("agent", "Generation canceled", map[string]any{
				"message_id": msg.MessageID,
				"error":      err.Error(),
			})
			return Fail("canceled")
		}
		logger.ErrorCF("agent", "Generation failed", map[string]any{
			"message_id": msg.MessageID,
			"error":      err.Error(),
		})
		return Reply(apologyMessage)
	}

	text := strings.TrimSpace(resp.Text)
	return Reply(utils.Truncate(text, m.opts.ReplyMaxChars))
}
