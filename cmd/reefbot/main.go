package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tinyland-inc/reefbot/cmd/reefbot/internal"
	"github.com/tinyland-inc/reefbot/cmd/reefbot/internal/auth"
	"github.com/tinyland-inc/reefbot/cmd/reefbot/internal/chat"
	"github.com/tinyland-inc/reefbot/cmd/reefbot/internal/gateway"
	"github.com/tinyland-inc/reefbot/cmd/reefbot/internal/onboard"
	"github.com/tinyland-inc/reefbot/cmd/reefbot/internal/version"
)

func NewReefbotCommand() *cobra.Command {
	short := fmt.Sprintf("%s reefbot - Discord chat bot v%s\n\n", internal.Logo, internal.GetVersion())

	cmd := &cobra.Command{
		Use:     "reefbot",
		Short:   short,
		Example: "reefbot gateway",
	}

	cmd.AddCommand(
		onboard.NewOnboardCommand(),
		auth.NewAuthCommand(),
		chat.NewChatCommand(),
		gateway.NewGatewayCommand(),
		version.NewVersionCommand(),
	)

	return cmd
}

func main() {
	cmd := NewReefbotCommand()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
