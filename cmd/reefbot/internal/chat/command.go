package chat

import (
	"strings"

	"github.com/spf13/cobra"
)

func NewChatCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "chat [message]",
		Aliases: []string{"c"},
		Short:   "Chat with reefbot from the terminal",
		Example: "reefbot chat \"what is the capital of France?\"",
		Args:    cobra.ArbitraryArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			if len(args) > 0 {
				return chatOnce(strings.Join(args, " "))
			}
			return chatREPL()
		},
	}

	return cmd
}
