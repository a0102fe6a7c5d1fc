package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/w365ops/cloudpcctl/internal/adapters/driving/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive Cloud PC view",
	Long: `Open the full-screen interactive view: browse the inventory, filter
with '/', refresh with 'r', copy a device ID with 'c', export with 'e',
and end a grace period with 'd' (confirmation required).`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	if inventoryService == nil {
		return errors.New("inventory service not configured")
	}
	return tui.Run(inventoryService)
}
