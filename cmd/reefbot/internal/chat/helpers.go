package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/uuid"

	"github.com/tinyland-inc/reefbot/cmd/reefbot/internal"
	"github.com/tinyland-inc/reefbot/pkg/agent"
	"github.com/tinyland-inc/reefbot/pkg/bus"
	"github.com/tinyland-inc/reefbot/pkg/providers"
)

func newMediator() (*agent.Mediator, error) {
	cfg, err := internal.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	provider, _, err := providers.CreateProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating provider: %w", err)
	}

	limiter := agent.NewMemoryRateLimiter()
	return agent.NewMediator(provider, limiter, cfg.Persona(), internal.MediatorOptions(cfg)), nil
}

// cliMessage wraps terminal input as a direct message so it passes
// classification unchanged.
func cliMessage(content string) bus.InboundMessage {
	return bus.InboundMessage{
		SenderID:  "cli",
		Content:   content,
		ChannelID: "cli",
		MessageID: uuid.New().String(),
		IsDirect:  true,
	}
}

func printDecision(d agent.Decision) error {
	switch d.Kind() {
	case agent.DecisionReply:
		fmt.Println(d.Text())
		return nil
	case agent.DecisionFail:
		return fmt.Errorf("request failed: %s", d.Reason())
	default:
		return nil
	}
}

func chatOnce(message string) error {
	mediator, err := newMediator()
	if err != nil {
		return err
	}
	return printDecision(mediator.Handle(context.Background(), cliMessage(message)))
}

func chatREPL() error {
	mediator, err := newMediator()
	if err != nil {
		return err
	}

	rl, err := readline.New("> ")
	if err != nil {
		return fmt.Errorf("error initializing readline: %w", err)
	}
	defer rl.Close()

	fmt.Println("Interactive chat. Type /quit to exit.")

	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "/quit" || line == "/exit" {
			return nil
		}

		if err := printDecision(mediator.Handle(context.Background(), cliMessage(line))); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	}
}
