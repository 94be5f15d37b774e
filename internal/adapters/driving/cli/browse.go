package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pktechnic/erpdoc/internal/adapters/driving/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse stored records interactively",
	Long: `Open an interactive terminal browser over the stored records.

Controls:
  ↑/k, ↓/j - Navigate records
  Enter    - Open record
  f        - Toggle failed only
  p        - Publish to webhook
  d        - Delete record
  r        - Refresh
  Esc      - Back
  q        - Quit`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, _ []string) error {
	app, err := tui.NewApp(cmd.Context(), &tui.Ports{Records: recordService})
	if err != nil {
		return fmt.Errorf("failed to create browser: %w", err)
	}
	if err := app.Run(); err != nil {
		return fmt.Errorf("browser error: %w", err)
	}
	return nil
}
