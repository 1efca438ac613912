package channels

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/tinyland-inc/reefbot/pkg/agent"
	"github.com/tinyland-inc/reefbot/pkg/bus"
	"github.com/tinyland-inc/reefbot/pkg/config"
	"github.com/tinyland-inc/reefbot/pkg/logger"
	"github.com/tinyland-inc/reefbot/pkg/utils"
	"github.com/tinyland-inc/reefbot/pkg/weather"
)

const (
	sendTimeout       = 10 * time.Second
	typingInterval    = 8 * time.Second
	typingMaxDuration = 5 * time.Minute

	noReplyMessage       = "No reply."
	weatherNoDataMessage = "Location not found or service unavailable."
	commandErrorMessage  = "Sorry, something went wrong."
)

// DiscordChannel bridges the Discord gateway and the bus. Plain messages flow
// through the bus to the decision loop; slash commands are handled inline so
// the interaction can be acknowledged and followed up within Discord's
// deadline.
type DiscordChannel struct {
	*BaseChannel
	session  *discordgo.Session
	config   config.DiscordConfig
	mediator *agent.Mediator
	weather  *weather.Client
	ctx      context.Context

	typingMu    sync.Mutex
	typingStops map[string]context.CancelFunc
}

func NewDiscordChannel(cfg config.DiscordConfig, msgBus *bus.MessageBus, mediator *agent.Mediator, weatherClient *weather.Client) (*DiscordChannel, error) {
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent

	return &DiscordChannel{
		BaseChannel: NewBaseChannel("discord", msgBus, cfg.AllowFrom),
		session:     session,
		config:      cfg,
		mediator:    mediator,
		weather:     weatherClient,
		ctx:         context.Background(),
		typingStops: make(map[string]context.CancelFunc),
	}, nil
}

func (c *DiscordChannel) Start(ctx context.Context) error {
	logger.InfoC("discord", "Starting Discord bot")

	c.ctx = ctx
	c.session.AddHandler(c.handleMessage)
	c.session.AddHandler(c.handleInteraction)

	if err := c.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord session: %w", err)
	}
	c.SetRunning(true)

	botUser, err := c.session.User("@me")
	if err != nil {
		return fmt.Errorf("failed to get bot user: %w", err)
	}
	logger.InfoCF("discord", "Discord bot connected", map[string]any{
		"username": botUser.Username,
		"user_id":  botUser.ID,
	})

	if err := c.registerCommands(); err != nil {
		logger.ErrorCF("discord", "Failed to register slash commands", map[string]any{
			"error": err.Error(),
		})
	}

	return nil
}

func (c *DiscordChannel) Stop(ctx context.Context) error {
	logger.InfoC("discord", "Stopping Discord bot")
	c.SetRunning(false)
	c.stopAllTyping()

	if err := c.session.Close(); err != nil {
		return fmt.Errorf("failed to close discord session: %w", err)
	}
	return nil
}

func (c *DiscordChannel) Send(ctx context.Context, msg bus.OutboundMessage) error {
	if !c.IsRunning() {
		return fmt.Errorf("discord bot not running")
	}
	if msg.ChannelID == "" {
		return fmt.Errorf("channel ID is empty")
	}

	defer c.stopTyping(msg.ChannelID)

	// An empty generation is a valid decision upstream; there is just
	// nothing to deliver.
	if msg.Content == "" {
		return nil
	}

	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, err := c.session.ChannelMessageSend(msg.ChannelID, msg.Content)
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send discord message: %w", err)
		}
		return nil
	case <-sendCtx.Done():
		return fmt.Errorf("send message timeout: %w", sendCtx.Err())
	}
}

func (c *DiscordChannel) registerCommands() error {
	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "ask",
			Description: "Ask the bot a question",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "prompt",
					Description: "Your question",
					Required:    true,
				},
			},
		},
		{
			Name:        "weather",
			Description: "Get the current weather for a location",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "location",
					Description: "City or place, e.g. Paris",
					Required:    true,
				},
			},
		},
	}

	appID := c.session.State.User.ID
	for _, cmd := range commands {
		if _, err := c.session.ApplicationCommandCreate(appID, c.config.GuildID, cmd); err != nil {
			return fmt.Errorf("registering /%s: %w", cmd.Name, err)
		}
	}

	if c.config.GuildID != "" {
		logger.InfoCF("discord", "Slash commands registered to guild", map[string]any{
			"guild_id": c.config.GuildID,
		})
	} else {
		logger.InfoC("discord", "Slash commands registered globally (may take up to 1h to appear)")
	}
	return nil
}

func (c *DiscordChannel) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m == nil || m.Author == nil {
		return
	}
	if m.Author.ID == s.State.User.ID || m.Author.Bot {
		return
	}
	if !c.IsAllowed(m.Author.ID) {
		logger.DebugCF("discord", "Message rejected by allowlist", map[string]any{
			"user_id": m.Author.ID,
		})
		return
	}

	mentions := make([]string, 0, len(m.Mentions))
	for _, u := range m.Mentions {
		mentions = append(mentions, u.ID)
	}

	botID := s.State.User.ID
	isDirect := m.GuildID == ""

	msg := bus.InboundMessage{
		SenderID:    m.Author.ID,
		SenderIsBot: m.Author.Bot,
		Content:     m.Content,
		ChannelID:   m.ChannelID,
		GuildID:     m.GuildID,
		MessageID:   m.ID,
		Mentions:    mentions,
		BotUserID:   botID,
		IsDirect:    isDirect,
	}

	logger.DebugCF("discord", "Received message", map[string]any{
		"sender_id": m.Author.ID,
		"preview":   utils.Truncate(m.Content, 50),
	})

	if wantsTyping(msg) {
		c.startTyping(m.ChannelID)
	}
	c.PublishInbound(c.ctx, msg)
}

// wantsTyping reports whether the event will survive classification. Starting
// the indicator only for accepted events keeps it from ticking until the
// max-duration timer on messages that never produce a reply, such as a
// mention with nothing but whitespace around it.
func wantsTyping(msg bus.InboundMessage) bool {
	_, ok := agent.Classify(msg, 0)
	return ok
}

func (c *DiscordChannel) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	user := interactionUser(i)
	if user == nil {
		return
	}
	if !c.IsAllowed(user.ID) {
		logger.DebugCF("discord", "Interaction rejected by allowlist", map[string]any{
			"user_id": user.ID,
		})
		return
	}

	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}); err != nil {
		logger.WarnCF("discord", "Failed to defer interaction", map[string]any{
			"error": err.Error(),
		})
		return
	}

	data := i.ApplicationCommandData()
	switch data.Name {
	case "ask":
		c.handleAsk(s, i, user, commandOption(data, "prompt"))
	case "weather":
		c.handleWeather(s, i, commandOption(data, "location"))
	default:
		c.followup(s, i, commandErrorMessage)
	}
}

func (c *DiscordChannel) handleAsk(s *discordgo.Session, i *discordgo.InteractionCreate, user *discordgo.User, prompt string) {
	msg := bus.InboundMessage{
		SenderID:  user.ID,
		Content:   prompt,
		ChannelID: i.ChannelID,
		GuildID:   i.GuildID,
		MessageID: i.ID,
		BotUserID: s.State.User.ID,
		IsDirect:  i.GuildID == "",
		IsCommand: true,
	}

	decision := c.mediator.Handle(c.ctx, msg)
	if !decision.ShouldReply() || decision.Text() == "" {
		c.followup(s, i, noReplyMessage)
		return
	}
	c.followup(s, i, decision.Text())
}

func (c *DiscordChannel) handleWeather(s *discordgo.Session, i *discordgo.InteractionCreate, location string) {
	info, err := c.weather.Lookup(c.ctx, location)
	if err != nil {
		if errors.Is(err, weather.ErrNoData) {
			c.followup(s, i, weatherNoDataMessage)
		} else {
			c.followup(s, i, commandErrorMessage)
		}
		return
	}

	_, err = s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{buildWeatherEmbed(*info)},
	})
	if err != nil {
		logger.WarnCF("discord", "Failed to send weather embed", map[string]any{
			"error": err.Error(),
		})
	}
}

func (c *DiscordChannel) followup(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	_, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Content: content,
	})
	if err != nil {
		logger.WarnCF("discord", "Failed to send followup", map[string]any{
			"error": err.Error(),
		})
	}
}

func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil {
		return i.Member.User
	}
	return i.User
}

func commandOption(data discordgo.ApplicationCommandInteractionData, name string) string {
	for _, opt := range data.Options {
		if opt.Name == name {
			return opt.StringValue()
		}
	}
	return ""
}

// buildWeatherEmbed renders a weather report. Missing numerics arrive as NaN
// and render as an em dash placeholder.
func buildWeatherEmbed(info weather.Info) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: fmt.Sprintf("%s Weather in %s", weatherEmoji(info.WeatherCode), info.Place),
		Color: temperatureColor(info.Temperature),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Temperature", Value: formatMeasure(info.Temperature, 1, info.TemperatureUnit), Inline: true},
			{Name: "Wind", Value: formatMeasure(info.WindSpeed, 0, info.WindUnit), Inline: true},
			{Name: "Conditions", Value: weather.Describe(info.WeatherCode), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Source: open-meteo.com"},
	}
}

// temperatureColor picks the embed accent by temperature band. NaN fails
// every comparison and lands on the coldest color.
func temperatureColor(temp float64) int {
	switch {
	case temp >= 30:
		return 0xF39C12
	case temp >= 20:
		return 0x27AE60
	case temp >= 10:
		return 0x3498DB
	case temp >= 0:
		return 0x2E86C1
	default:
		return 0x5DADE2
	}
}

func formatMeasure(value float64, decimals int, unit string) string {
	if math.IsNaN(value) {
		return "—"
	}
	return fmt.Sprintf("%.*f %s", decimals, value, unit)
}

func weatherEmoji(code int) string {
	switch code {
	case 0:
		return "☀️"
	case 1, 2:
		return "🌤️"
	case 3:
		return "☁️"
	case 45, 48:
		return "🌫️"
	case 51, 53, 55, 80, 81, 82:
		return "🌦️"
	case 56, 57, 61, 63, 65:
		return "🌧️"
	case 66, 67:
		return "🌧️❄️"
	case 71, 73, 75, 77:
		return "❄️"
	case 85, 86:
		return "🌨️"
	case 95:
		return "⛈️"
	case 96, 99:
		return "⛈️🧊"
	default:
		return "🌡️"
	}
}

func (c *DiscordChannel) startTyping(channelID string) {
	c.typingMu.Lock()
	if _, exists := c.typingStops[channelID]; exists {
		c.typingMu.Unlock()
		return
	}
	typingCtx, cancel := context.WithCancel(context.Background())
	c.typingStops[channelID] = cancel
	c.typingMu.Unlock()

	go func() {
		defer c.stopTyping(channelID)

		sendTyping := func() {
			if err := c.session.ChannelTyping(channelID); err != nil {
				logger.DebugCF("discord", "Failed to send typing indicator", map[string]any{
					"channel_id": channelID,
					"error":      err.Error(),
				})
			}
		}
		sendTyping()

		ticker := time.NewTicker(typingInterval)
		defer ticker.Stop()
		timeout := time.NewTimer(typingMaxDuration)
		defer timeout.Stop()

		for {
			select {
			case <-typingCtx.Done():
				return
			case <-timeout.C:
				return
			case <-ticker.C:
				sendTyping()
			}
		}
	}()
}

func (c *DiscordChannel) stopTyping(channelID string) {
	c.typingMu.Lock()
	cancel, exists := c.typingStops[channelID]
	if exists {
		delete(c.typingStops, channelID)
	}
	c.typingMu.Unlock()

	if exists {
		cancel()
	}
}

func (c *DiscordChannel) stopAllTyping() {
	c.typingMu.Lock()
	cancels := make([]context.CancelFunc, 0, len(c.typingStops))
	for id, cancel := range c.typingStops {
		cancels = append(cancels, cancel)
		delete(c.typingStops, id)
	}
	c.typingMu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
}
