// Package providers selects and constructs the configured generation client.
package providers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tinyland-inc/reefbot/pkg/config"
	anthropicprovider "github.com/tinyland-inc/reefbot/pkg/providers/anthropic"
	openaiprovider "github.com/tinyland-inc/reefbot/pkg/providers/openai"
	"github.com/tinyland-inc/reefbot/pkg/providers/protocoltypes"
)

// Provider is the generation client port: one method, interchangeable
// production and test implementations.
type Provider interface {
	Generate(ctx context.Context, req protocoltypes.GenerationRequest) (protocoltypes.GenerationResponse, error)
}

// CreateProvider builds the provider named by cfg.Providers.Default and
// returns it with the resolved model identifier.
func CreateProvider(cfg *config.Config) (Provider, string, error) {
	retry := retryPolicy(cfg)

	switch name := strings.ToLower(cfg.Providers.Default); name {
	case "", "openai":
		pc := cfg.Providers.OpenAI
		if pc.APIKey == "" {
			return nil, "", fmt.Errorf("openai api key not configured")
		}
		model := pc.Model
		if model == "" {
			model = "gpt-4o-mini"
		}
		return openaiprovider.NewProvider(pc.APIKey, pc.APIBase, model, retry), model, nil

	case "anthropic":
		pc := cfg.Providers.Anthropic
		if pc.APIKey == "" {
			return nil, "", fmt.Errorf("anthropic api key not configured")
		}
		model := pc.Model
		if model == "" {
			model = "claude-sonnet-4-5"
		}
		return anthropicprovider.NewProvider(pc.APIKey, pc.APIBase, model, retry), model, nil

	default:
		return nil, "", fmt.Errorf("unknown provider %q", name)
	}
}

func retryPolicy(cfg *config.Config) protocoltypes.RetryPolicy {
	policy := protocoltypes.DefaultRetryPolicy()
	if cfg.Providers.Retry.MaxAttempts > 0 {
		policy.MaxAttempts = cfg.Providers.Retry.MaxAttempts
	}
	if cfg.Providers.Retry.BackoffBaseMS > 0 {
		policy.BackoffBase = time.Duration(cfg.Providers.Retry.BackoffBaseMS) * time.Millisecond
	}
	return policy
}
