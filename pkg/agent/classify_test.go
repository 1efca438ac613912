package agent

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/tinyland-inc/reefbot/pkg/bus"
)

func TestClassify(t *testing.T) {
	const botID = "BOT123"

	tests := []struct {
		name string
		msg  bus.InboundMessage
		want string
		ok   bool
	}{
		{
			name: "plain channel chatter is out of scope",
			msg:  bus.InboundMessage{Content: "hello world", BotUserID: botID},
			ok:   false,
		},
		{
			name: "direct message is in scope",
			msg:  bus.InboundMessage{Content: "hello", BotUserID: botID, IsDirect: true},
			want: "hello",
			ok:   true,
		},
		{
			name: "command is in scope untouched",
			msg:  bus.InboundMessage{Content: "what is <@BOT123> about", BotUserID: botID, IsCommand: true},
			want: "what is <@BOT123> about",
			ok:   true,
		},
		{
			name: "mention is stripped",
			msg: bus.InboundMessage{
				Content:   "<@BOT123> tell me a joke",
				BotUserID: botID,
				Mentions:  []string{"OTHER", botID},
			},
			want: "tell me a joke",
			ok:   true,
		},
		{
			name: "nick mention form is stripped",
			msg: bus.InboundMessage{
				Content:   "hey <@!BOT123> there",
				BotUserID: botID,
				Mentions:  []string{botID},
			},
			want: "hey  there",
			ok:   true,
		},
		{
			name: "mention stripping is case insensitive",
			msg: bus.InboundMessage{
				Content:   "<@bot123> ping",
				BotUserID: botID,
				Mentions:  []string{botID},
			},
			want: "ping",
			ok:   true,
		},
		{
			name: "mention of someone else is out of scope",
			msg: bus.InboundMessage{
				Content:   "<@OTHER> hi",
				BotUserID: botID,
				Mentions:  []string{"OTHER"},
			},
			ok: false,
		},
		{
			name: "mention-only message is empty after stripping",
			msg: bus.InboundMessage{
				Content:   "  <@BOT123>  ",
				BotUserID: botID,
				Mentions:  []string{botID},
			},
			ok: false,
		},
		{
			name: "whitespace-only direct message is rejected",
			msg:  bus.InboundMessage{Content: "   \t\n", BotUserID: botID, IsDirect: true},
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Classify(tt.msg, 4000)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("content = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassify_TruncatesLongInput(t *testing.T) {
	msg := bus.InboundMessage{
		Content:  strings.Repeat("é", 50),
		IsDirect: true,
	}

	got, ok := Classify(msg, 10)
	if !ok {
		t.Fatal("expected acceptance")
	}
	if n := utf8.RuneCountInString(got); n != 10 {
		t.Errorf("rune count = %d, want 10", n)
	}
	if !strings.HasPrefix(msg.Content, got) {
		t.Errorf("truncated text is not a prefix of the input")
	}
}

func TestClassify_IsDeterministic(t *testing.T) {
	msg := bus.InboundMessage{
		Content:   "<@B> question",
		BotUserID: "B",
		Mentions:  []string{"B"},
	}

	first, ok1 := Classify(msg, 4000)
	second, ok2 := Classify(msg, 4000)
	if first != second || ok1 != ok2 {
		t.Errorf("Classify not deterministic: (%q, %v) then (%q, %v)", first, ok1, second, ok2)
	}
}
