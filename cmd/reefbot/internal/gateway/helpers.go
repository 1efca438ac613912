package gateway

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tinyland-inc/reefbot/cmd/reefbot/internal"
	"github.com/tinyland-inc/reefbot/pkg/agent"
	"github.com/tinyland-inc/reefbot/pkg/bus"
	"github.com/tinyland-inc/reefbot/pkg/channels"
	"github.com/tinyland-inc/reefbot/pkg/logger"
	"github.com/tinyland-inc/reefbot/pkg/providers"
	"github.com/tinyland-inc/reefbot/pkg/weather"
)

func gatewayCmd(debug bool) error {
	if debug {
		logger.SetLevel(logger.DEBUG)
		fmt.Println("Debug mode enabled")
	}

	cfg, err := internal.LoadConfig()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	if !cfg.Discord.Enabled {
		return fmt.Errorf("discord channel disabled in config")
	}
	if cfg.Discord.Token == "" {
		return fmt.Errorf("discord token not configured, set discord.token in %s", internal.GetConfigPath())
	}

	provider, modelID, err := providers.CreateProvider(cfg)
	if err != nil {
		return fmt.Errorf("error creating provider: %w", err)
	}
	fmt.Printf("✓ Provider ready (model: %s)\n", modelID)

	msgBus := bus.NewMessageBus()
	limiter := agent.NewMemoryRateLimiter()
	mediator := agent.NewMediator(provider, limiter, cfg.Persona(), internal.MediatorOptions(cfg))
	loop := agent.NewLoop(mediator, msgBus)

	weatherClient := weather.NewClient(cfg.Weather.GeocodeBase, cfg.Weather.ForecastBase, cfg.Weather.Language)

	discord, err := channels.NewDiscordChannel(cfg.Discord, msgBus, mediator, weatherClient)
	if err != nil {
		return fmt.Errorf("error creating discord channel: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := discord.Start(ctx); err != nil {
		return fmt.Errorf("error starting discord channel: %w", err)
	}

	go loop.Run(ctx)
	go deliverOutbound(ctx, msgBus, discord)

	fmt.Println("✓ Gateway started")
	fmt.Println("Press Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	fmt.Println("\nShutting down...")
	cancel()
	msgBus.Close()
	if err := discord.Stop(context.Background()); err != nil {
		logger.WarnCF("gateway", "Error stopping discord channel", map[string]any{
			"error": err.Error(),
		})
	}
	fmt.Println("✓ Gateway stopped")

	return nil
}

// deliverOutbound drains replies off the bus into the channel until the bus
// closes or ctx is canceled.
func deliverOutbound(ctx context.Context, msgBus *bus.MessageBus, ch channels.Channel) {
	for {
		msg, ok := msgBus.SubscribeOutbound(ctx)
		if !ok {
			return
		}
		if err := ch.Send(ctx, msg); err != nil {
			logger.WarnCF("gateway", "Failed to deliver outbound message", map[string]any{
				"channel_id": msg.ChannelID,
				"error":      err.Error(),
			})
		}
	}
}
