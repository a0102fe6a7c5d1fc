// Package export serializes Cloud PC snapshots to CSV.
//
// The column order is fixed and part of the tool's contract: downstream
// spreadsheets pivot on these headers. encoding/csv handles quoting of
// embedded commas and quotes.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/w365ops/cloudpcctl/internal/core/domain"
)

// Header is the fixed CSV header row.
var Header = []string{
	"ManagedDeviceName",
	"UserPrincipalName",
	"ServicePlanName",
	"Status",
	"GracePeriodEnd",
	"IsInGracePeriod",
}

// WriteCSV writes the records as UTF-8 CSV with the fixed header,
// one row per record, preserving order. Returns the number of data rows.
func WriteCSV(w io.Writer, records []domain.CloudPC) (int, error) {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}

	for i := range records {
		pc := &records[i]
		row := []string{
			pc.ManagedDeviceName,
			pc.UserPrincipalName,
			pc.ServicePlanName,
			pc.Status,
			pc.GraceEndDisplay(),
			strconv.FormatBool(pc.InGracePeriod()),
		}
		if err := cw.Write(row); err != nil {
			return i, fmt.Errorf("write row %d: %w", i, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return len(records), fmt.Errorf("flush: %w", err)
	}
	return len(records), nil
}
