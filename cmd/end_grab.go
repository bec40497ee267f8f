package cmd

import (
	"fmt"

	"github.com/bnema/wayseat/internal/config"
	"github.com/bnema/wayseat/internal/ipc"
	"github.com/spf13/cobra"
)

// endGrabCmd represents the end-grab command
var endGrabCmd = &cobra.Command{
	Use:   "end-grab",
	Short: "End the active grab of a running seat",
	Long: `End any move, resize or client grab on a running seat and return it to
the default pointer grab.

This command is useful for keybindings in window managers when a grab gets stuck.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := ipc.NewClient(config.Get().IPC.SocketPath)
		if err != nil {
			return fmt.Errorf("failed to create IPC client: %w", err)
		}

		if err := client.SendEndGrab(); err != nil {
			return fmt.Errorf("failed to end grab: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Grab ended")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(endGrabCmd)
}
