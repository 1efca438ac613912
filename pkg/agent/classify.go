package agent

import (
	"slices"
	"strings"

	"github.com/tinyland-inc/reefbot/pkg/bus"
	"github.com/tinyland-inc/reefbot/pkg/utils"
)

// Classify decides whether an inbound event is in scope and normalizes its
// text. An event is accepted iff it is an explicit command, mentions the bot,
// or arrived as a direct message. Accepted-via-mention text has the bot's
// mention tokens stripped; the result is trimmed and hard-truncated to
// inputMax runes. Pure function: no side effects, same input same output.
func Classify(msg bus.InboundMessage, inputMax int) (string, bool) {
	mentioned := slices.Contains(msg.Mentions, msg.BotUserID)
	if !msg.IsCommand && !mentioned && !msg.IsDirect {
		return "", false
	}

	content := msg.Content
	if !msg.IsCommand && mentioned {
		content = removeMentions(content, msg.BotUserID)
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return "", false
	}

	return utils.Truncate(content, inputMax), true
}

// removeMentions strips every occurrence of the two mention token forms,
// <@id> and <@!id>, case-insensitively.
func removeMentions(content, botUserID string) string {
	for _, token := range []string{"<@" + botUserID + ">", "<@!" + botUserID + ">"} {
		content = removeAllFold(content, token)
	}
	return content
}

func removeAllFold(s, token string) string {
	if token == "" {
		return s
	}
	var b strings.Builder
	n := len(token)
	for i := 0; i < len(s); {
		if i+n <= len(s) && strings.EqualFold(s[i:i+n], token) {
			i += n
			continue
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}
