package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the Cloud PC inventory to CSV",
	Long: `Write the full (unfiltered) Cloud PC inventory as CSV. The column
order is fixed: name, user, service plan, status, grace end date, and
whether the device is in grace period.

Use '-o -' to write to stdout.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "cloudpcs.csv",
		"output file path, or '-' for stdout")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	if inventoryService == nil {
		return errors.New("inventory service not configured")
	}

	ctx := context.Background()

	// Export snapshots whatever the server reports right now.
	if _, err := inventoryService.Refresh(ctx); err != nil {
		return describeFailure(err)
	}

	if exportOutput == "-" {
		return inventoryService.Export(cmd.OutOrStdout())
	}

	n, err := inventoryService.ExportFile(exportOutput)
	if err != nil {
		return err
	}
	cmd.Printf("Exported %d Cloud PCs to %s\n", n, exportOutput)
	return nil
}
