package onboard

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tinyland-inc/reefbot/cmd/reefbot/internal"
	"github.com/tinyland-inc/reefbot/pkg/config"
)

func NewOnboardCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "onboard",
		Short:   "Create the default configuration",
		Example: "reefbot onboard",
		Args:    cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return onboardCmd(internal.GetConfigPath())
		},
	}

	return cmd
}

func onboardCmd(path string) error {
	if _, err := os.Stat(path); err == nil {
		fmt.Printf("Config already exists at %s\n", path)
		return nil
	}

	if err := config.SaveConfig(path, config.DefaultConfig()); err != nil {
		return fmt.Errorf("error writing config: %w", err)
	}

	fmt.Printf("✓ Config created at %s\n", path)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. reefbot auth login --provider openai")
	fmt.Println("  2. Set discord.token in the config")
	fmt.Println("  3. reefbot gateway")
	return nil
}
