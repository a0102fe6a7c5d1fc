package cli

import (
	"github.com/spf13/cobra"

	"github.com/w365ops/cloudpcctl/internal/core/ports/driven"
	"github.com/w365ops/cloudpcctl/internal/core/ports/driving"
	"github.com/w365ops/cloudpcctl/internal/logger"
)

var (
	// Version is set by goreleaser ldflags.
	version = "dev"

	// Verbose enables debug logging.
	verbose bool

	// Services holds injected implementations for CLI commands.
	inventoryService driving.InventoryService
	credentialsStore driven.CredentialsStore
	settingsStore    driven.SettingsStore
)

// Services holds the dependencies CLI commands run against.
type Services struct {
	Inventory   driving.InventoryService
	Credentials driven.CredentialsStore
	Settings    driven.SettingsStore
}

// SetServices injects service implementations for CLI commands.
func SetServices(s *Services) {
	if s == nil {
		return
	}
	inventoryService = s.Inventory
	credentialsStore = s.Credentials
	settingsStore = s.Settings
}

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "cloudpcctl",
	Short: "Manage Windows 365 Cloud PCs from the terminal",
	Long: `cloudpcctl lists the Cloud PCs of your tenant, highlights the ones in
grace period, and lets you end a grace period (deprovision) after an
explicit confirmation. The inventory can be filtered and exported to CSV.

Run 'cloudpcctl auth login' once, then 'cloudpcctl tui' for the
interactive view or 'cloudpcctl list' for scripting.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string for the CLI.
func SetVersion(v string) {
	version = v
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose debug output")

	// Use PersistentPreRunE to set verbose mode before any command executes
	rootCmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		return nil
	}
}
