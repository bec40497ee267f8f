package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/wayseat/internal/config"
	"github.com/bnema/wayseat/internal/ipc"
	"github.com/bnema/wayseat/internal/ui"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of a running seat",
	Long:  `Query a running 'wayseat run' or 'wayseat replay --serve' over its socket and show pointer position, foci, the active grab and held buttons and keys.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := ipc.NewClient(config.Get().IPC.SocketPath)
		if err != nil {
			return fmt.Errorf("failed to create IPC client: %w", err)
		}

		status, err := client.SendStatus()
		if errors.Is(err, ipc.ErrNotRunning) {
			fmt.Fprintln(cmd.OutOrStdout(), "wayseat is not running")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get seat status: %w", err)
		}

		var output strings.Builder
		output.WriteString(ui.FormatAppHeader("SEAT STATUS", fmt.Sprintf("%d clients bound", status.Clients)))
		output.WriteString("\n\n")
		output.WriteString(ui.StatusTable(status))
		output.WriteString("\n")

		output.WriteString(ui.CreateSeparator(50, "─"))
		output.WriteString("\n")
		helpStyle := lipgloss.NewStyle().Foreground(ui.ColorSubtle)
		output.WriteString(helpStyle.Render("Use 'wayseat end-grab' to return to the default grab"))

		fmt.Fprintln(cmd.OutOrStdout(), output.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
