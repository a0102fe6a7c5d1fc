package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/w365ops/cloudpcctl/internal/core/domain"
)

var deprovisionYes bool

var deprovisionCmd = &cobra.Command{
	Use:   "deprovision [cloud-pc-id]",
	Short: "End the grace period of a Cloud PC (permanent)",
	Long: `End the grace period of the given Cloud PC, which permanently
deprovisions it. Only devices currently in grace period are eligible.

The device is looked up in the current inventory; run 'cloudpcctl list'
first to find its ID. Without --yes an interactive confirmation is
required.`,
	Args: cobra.ExactArgs(1),
	RunE: runDeprovision,
}

func init() {
	deprovisionCmd.Flags().BoolVarP(&deprovisionYes, "yes", "y", false,
		"skip the interactive confirmation")
	rootCmd.AddCommand(deprovisionCmd)
}

//nolint:errcheck // CLI interactive flow with intentional error ignoring for UX
func runDeprovision(cmd *cobra.Command, args []string) error {
	if inventoryService == nil {
		return errors.New("inventory service not configured")
	}

	ctx := context.Background()
	id := args[0]

	// Make sure the inventory is populated so the grace guard has
	// something to check against.
	if len(inventoryService.All()) == 0 {
		if _, err := inventoryService.Refresh(ctx); err != nil {
			return describeFailure(err)
		}
	}

	target, ok := findRecord(inventoryService.All(), id)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	if !target.InGracePeriod() {
		return fmt.Errorf("%w: %s is %s", domain.ErrNotInGracePeriod, id, target.Status)
	}

	if !deprovisionYes {
		cmd.Printf("About to END THE GRACE PERIOD of %s (%s, user %s).\n",
			target.ManagedDeviceName, target.ID, target.UserPrincipalName)
		cmd.Println("This permanently deprovisions the Cloud PC.")
		cmd.Print("Type 'yes' to continue: ")

		reader := bufio.NewReader(os.Stdin)
		input, _ := reader.ReadString('\n')
		if strings.TrimSpace(strings.ToLower(input)) != "yes" {
			cmd.Println("Aborted.")
			return nil
		}
	}

	if err := inventoryService.Deprovision(ctx, id); err != nil {
		return describeFailure(err)
	}

	cmd.Printf("Grace period ended for %s (%s).\n", target.ManagedDeviceName, id)
	return nil
}

// findRecord looks up a record by ID.
func findRecord(records []domain.CloudPC, id string) (domain.CloudPC, bool) {
	for i := range records {
		if records[i].ID == id {
			return records[i], true
		}
	}
	return domain.CloudPC{}, false
}
