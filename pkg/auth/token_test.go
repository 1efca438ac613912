package auth

import (
	"strings"
	"testing"
)

func TestLoginPasteToken(t *testing.T) {
	cred, err := LoginPasteToken("openai", strings.NewReader("  sk-test-123  \n"))
	if err != nil {
		t.Fatalf("LoginPasteToken() error: %v", err)
	}
	if cred.APIKey != "sk-test-123" {
		t.Errorf("APIKey = %q, want trimmed token", cred.APIKey)
	}
	if cred.Provider != "openai" {
		t.Errorf("Provider = %q", cred.Provider)
	}
}

func TestLoginPasteToken_EmptyInput(t *testing.T) {
	if _, err := LoginPasteToken("openai", strings.NewReader("   \n")); err == nil {
		t.Error("expected error for blank token")
	}
	if _, err := LoginPasteToken("openai", strings.NewReader("")); err == nil {
		t.Error("expected error for no input")
	}
}
