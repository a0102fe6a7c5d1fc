package cli

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/w365ops/cloudpcctl/internal/core/domain"
)

var listFilter string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the tenant's Cloud PCs",
	Long: `Fetch and print the Cloud PC inventory. Devices in grace period are
marked with an asterisk next to their status.

Examples:
  cloudpcctl list
  cloudpcctl list --filter grace
  cloudpcctl list --filter ada@contoso.com`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&listFilter, "filter", "f", "",
		"show only devices whose id, name, user, status, or plan contains this text")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	if inventoryService == nil {
		return errors.New("inventory service not configured")
	}

	ctx := context.Background()

	records, err := inventoryService.SetFilter(ctx, listFilter)
	if err != nil {
		return describeFailure(err)
	}

	if len(records) == 0 {
		if listFilter != "" {
			cmd.Printf("No Cloud PCs match %q.\n", listFilter)
		} else {
			cmd.Println("No Cloud PCs found.")
		}
		return nil
	}

	printCloudPCs(cmd, records)
	cmd.Printf("\n%d shown, %d in grace period (of %d total)\n",
		len(records), inventoryService.GraceCount(), len(inventoryService.All()))
	return nil
}

// printCloudPCs renders records as an aligned table.
func printCloudPCs(cmd *cobra.Command, records []domain.CloudPC) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tUSER\tSTATUS\tPLAN\tGRACE ENDS")
	for i := range records {
		pc := &records[i]
		status := pc.Status
		if pc.InGracePeriod() {
			status += " *"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			pc.ID, pc.ManagedDeviceName, pc.UserPrincipalName,
			status, pc.ServicePlanName, pc.GraceEndDisplay())
	}
	w.Flush()
}

// describeFailure maps the two failure kinds onto operator-facing messages.
func describeFailure(err error) error {
	switch {
	case errors.Is(err, domain.ErrNoCredentials):
		return err
	case errors.Is(err, domain.ErrConnection):
		return fmt.Errorf("sign-in failed: %w", err)
	case errors.Is(err, domain.ErrRequest):
		return fmt.Errorf("request failed, previous data (if any) is unchanged: %w", err)
	default:
		return err
	}
}
