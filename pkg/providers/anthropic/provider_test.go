package anthropicprovider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tinyland-inc/reefbot/pkg/providers/protocoltypes"
)

const messageJSON = `{
	"id": "msg_1",
	"type": "message",
	"role": "assistant",
	"model": "claude-sonnet-4-5",
	"content": [{"type": "text", "text": "hello from claude"}],
	"stop_reason": "end_turn",
	"usage": {"input_tokens": 10, "output_tokens": 5}
}`

func testPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BackoffBase: time.Millisecond}
}

func TestGenerate_RoundTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(messageJSON))
	}))
	defer server.Close()

	p := NewProvider("test-key", server.URL, "claude-sonnet-4-5", testPolicy())
	resp, err := p.Generate(context.Background(), GenerationRequest{
		PersonaPrompt:   "persona",
		UserMessage:     "hi",
		ConversationKey: "c1",
		MessageID:       "m1",
	})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if resp.Text != "hello from claude" {
		t.Errorf("Text = %q, want %q", resp.Text, "hello from claude")
	}
	if resp.ConversationKey != "c1" || resp.MessageID != "m1" {
		t.Errorf("correlation not preserved: %+v", resp)
	}
}

func TestGenerate_CapsPromptLengths(t *testing.T) {
	var captured struct {
		System []struct {
			Text string `json:"text"`
		} `json:"system"`
		Messages []struct {
			Content []struct {
				Text string `json:"text"`
			} `json:"content"`
		} `json:"messages"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(messageJSON))
	}))
	defer server.Close()

	p := NewProvider("test-key", server.URL, "claude-sonnet-4-5", testPolicy())
	_, err := p.Generate(context.Background(), GenerationRequest{
		PersonaPrompt: strings.Repeat("p", 3000),
		UserMessage:   strings.Repeat("u", 6000),
	})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if len(captured.System) != 1 || len(captured.Messages) != 1 {
		t.Fatalf("unexpected request shape: %+v", captured)
	}
	if got := len(captured.System[0].Text); got != protocoltypes.SystemPromptMaxChars {
		t.Errorf("system length = %d, want %d", got, protocoltypes.SystemPromptMaxChars)
	}
	if got := len(captured.Messages[0].Content[0].Text); got != protocoltypes.UserMessageMaxChars {
		t.Errorf("user length = %d, want %d", got, protocoltypes.UserMessageMaxChars)
	}
}

func TestGenerate_RetriesThenFails(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"type":"error","error":{"type":"api_error","message":"overloaded"}}`,
			http.StatusInternalServerError)
	}))
	defer server.Close()

	p := NewProvider("test-key", server.URL, "claude-sonnet-4-5", testPolicy())
	_, err := p.Generate(context.Background(), GenerationRequest{UserMessage: "hi"})

	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upstream.Status != 500 {
		t.Errorf("Status = %d, want 500", upstream.Status)
	}
	if calls.Load() != 3 {
		t.Errorf("attempts = %d, want 3", calls.Load())
	}
}

func TestGenerate_AuthErrorIsTerminal(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"type":"error","error":{"type":"authentication_error","message":"bad key"}}`,
			http.StatusUnauthorized)
	}))
	defer server.Close()

	p := NewProvider("bad-key", server.URL, "claude-sonnet-4-5", testPolicy())
	_, err := p.Generate(context.Background(), GenerationRequest{UserMessage: "hi"})

	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upstream.Status != 401 {
		t.Errorf("Status = %d, want 401", upstream.Status)
	}
	if calls.Load() != 1 {
		t.Errorf("attempts = %d, want 1", calls.Load())
	}
}

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", defaultBaseURL},
		{"https://example.com", "https://example.com"},
		{"https://example.com/", "https://example.com"},
		{"https://example.com/v1", "https://example.com"},
		{"https://example.com/v1/", "https://example.com"},
	}
	for _, tt := range tests {
		if got := normalizeBaseURL(tt.in); got != tt.want {
			t.Errorf("normalizeBaseURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
