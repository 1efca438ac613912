// Package auth captures provider API keys interactively.
package auth

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Credential is a captured API key bound to a provider name.
type Credential struct {
	APIKey   string
	Provider string
}

// LoginPasteToken prompts for an API key on r and returns the trimmed value.
func LoginPasteToken(provider string, r io.Reader) (*Credential, error) {
	fmt.Printf("Paste your API key from %s:\n", providerDisplayName(provider))
	fmt.Print("> ")

	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("reading token: %w", err)
		}
		return nil, errors.New("no input received")
	}

	token := strings.TrimSpace(scanner.Text())
	if token == "" {
		return nil, errors.New("token cannot be empty")
	}

	return &Credential{
		APIKey:   token,
		Provider: provider,
	}, nil
}

func providerDisplayName(provider string) string {
	switch provider {
	case "anthropic":
		return "console.anthropic.com"
	case "openai":
		return "platform.openai.com"
	default:
		return provider
	}
}
