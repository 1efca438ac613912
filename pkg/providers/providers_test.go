package providers

import (
	"testing"

	"github.com/tinyland-inc/reefbot/pkg/config"
)

func TestCreateProvider_OpenAI(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Providers.OpenAI.APIKey = "sk-test"

	p, model, err := CreateProvider(cfg)
	if err != nil {
		t.Fatalf("CreateProvider() error: %v", err)
	}
	if p == nil {
		t.Fatal("expected provider")
	}
	if model != "gpt-4o-mini" {
		t.Errorf("model = %q, want gpt-4o-mini", model)
	}
}

func TestCreateProvider_Anthropic(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Providers.Default = "anthropic"
	cfg.Providers.Anthropic.APIKey = "sk-ant-test"
	cfg.Providers.Anthropic.Model = "claude-haiku-4-5"

	p, model, err := CreateProvider(cfg)
	if err != nil {
		t.Fatalf("CreateProvider() error: %v", err)
	}
	if p == nil {
		t.Fatal("expected provider")
	}
	if model != "claude-haiku-4-5" {
		t.Errorf("model = %q, want claude-haiku-4-5", model)
	}
}

func TestCreateProvider_MissingKey(t *testing.T) {
	cfg := config.DefaultConfig()
	if _, _, err := CreateProvider(cfg); err == nil {
		t.Error("expected error for missing api key")
	}
}

func TestCreateProvider_Unknown(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Providers.Default = "mystery"
	if _, _, err := CreateProvider(cfg); err == nil {
		t.Error("expected error for unknown provider")
	}
}
