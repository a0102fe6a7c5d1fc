// Package driving defines the inbound ports: interfaces the CLI and TUI call
// into the core through.
package driving

import (
	"context"
	"io"

	"github.com/w365ops/cloudpcctl/internal/core/domain"
)

// InventoryService orchestrates the Cloud PC inventory: refresh, filter,
// deprovision, and export.
type InventoryService interface {
	// Refresh clears any active filter and replaces the inventory with a
	// fresh list from Graph. On failure the previous inventory is kept.
	Refresh(ctx context.Context) ([]domain.CloudPC, error)

	// SetFilter applies an in-memory filter and returns the visible records.
	// When the inventory is empty or the text is empty it refreshes first.
	SetFilter(ctx context.Context, text string) ([]domain.CloudPC, error)

	// Filter returns the currently active filter text.
	Filter() string

	// Visible returns the records matching the active filter.
	Visible() []domain.CloudPC

	// All returns the full unfiltered inventory.
	All() []domain.CloudPC

	// GraceCount returns how many held records are in grace period.
	GraceCount() int

	// Deprovision ends the grace period of the identified Cloud PC. It is
	// rejected with domain.ErrNotInGracePeriod unless the record is in
	// grace, and with domain.ErrNotFound when the ID is not held. On
	// success the inventory is refreshed and the filter cleared.
	Deprovision(ctx context.Context, id string) error

	// Export writes the full unfiltered inventory as CSV.
	Export(w io.Writer) error

	// ExportFile writes the CSV snapshot to a file and returns the number
	// of data rows written.
	ExportFile(path string) (int, error)
}
