package auth

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tinyland-inc/reefbot/cmd/reefbot/internal"
	"github.com/tinyland-inc/reefbot/pkg/auth"
	"github.com/tinyland-inc/reefbot/pkg/config"
)

func NewAuthCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "auth",
		Short:   "Manage provider credentials",
		Example: "reefbot auth login --provider openai",
	}

	cmd.AddCommand(newLoginCommand())

	return cmd
}

func newLoginCommand() *cobra.Command {
	var provider string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store an API key for a generation provider",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return loginCmd(provider)
		},
	}

	cmd.Flags().StringVarP(&provider, "provider", "p", "openai", "Provider name (openai or anthropic)")

	return cmd
}

func loginCmd(provider string) error {
	if provider != "openai" && provider != "anthropic" {
		return fmt.Errorf("unknown provider %q", provider)
	}

	cred, err := auth.LoginPasteToken(provider, os.Stdin)
	if err != nil {
		return err
	}

	cfgPath := internal.GetConfigPath()
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	switch cred.Provider {
	case "openai":
		cfg.Providers.OpenAI.APIKey = cred.APIKey
	case "anthropic":
		cfg.Providers.Anthropic.APIKey = cred.APIKey
	}
	cfg.Providers.Default = cred.Provider

	if err := config.SaveConfig(cfgPath, cfg); err != nil {
		return fmt.Errorf("error saving config: %w", err)
	}

	fmt.Printf("✓ Credential saved to %s\n", cfgPath)
	return nil
}
