package bus

// InboundMessage is a single occurrence from the chat transport: a
// user-originated message or an explicit command invocation. It is built once
// by the transport adapter and never mutated afterwards.
type InboundMessage struct {
	SenderID    string   `json:"sender_id"`
	SenderIsBot bool     `json:"sender_is_bot"`
	Content     string   `json:"content"`
	ChannelID   string   `json:"channel_id"`
	GuildID     string   `json:"guild_id,omitempty"` // empty outside guilds (direct messages)
	MessageID   string   `json:"message_id"`
	Mentions    []string `json:"mentions,omitempty"` // user ids mentioned in the text
	BotUserID   string   `json:"bot_user_id"`
	IsDirect    bool     `json:"is_direct"`
	IsCommand   bool     `json:"is_command"`
}

// ConversationKey returns the identifier a generation request is scoped to:
// the guild when there is one, otherwise the channel.
func (m InboundMessage) ConversationKey() string {
	if m.GuildID != "" {
		return m.GuildID
	}
	return m.ChannelID
}

// OutboundMessage carries plain reply text for a channel. Presentation is the
// transport adapter's business, not the bus's.
type OutboundMessage struct {
	ChannelID string `json:"channel_id"`
	Content   string `json:"content"`
}
