package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/w365ops/cloudpcctl/internal/core/domain"
	"github.com/w365ops/cloudpcctl/internal/core/ports/driven"
	"github.com/w365ops/cloudpcctl/internal/core/ports/driving"
	"github.com/w365ops/cloudpcctl/internal/export"
	"github.com/w365ops/cloudpcctl/internal/logger"
)

// Ensure InventoryService implements the port.
var _ driving.InventoryService = (*InventoryService)(nil)

// InventoryService orchestrates the Cloud PC inventory over the Graph
// client: refresh, in-memory filtering, guarded deprovision, CSV export.
//
// Every failure is terminal for that one operation: the previous inventory
// stays intact and the service remains usable.
type InventoryService struct {
	client driven.CloudPCClient
	store  *InventoryStore

	mu     sync.Mutex
	filter string
}

// NewInventoryService creates the service with an empty inventory.
func NewInventoryService(client driven.CloudPCClient) *InventoryService {
	return &InventoryService{
		client: client,
		store:  NewInventoryStore(),
	}
}

// Refresh clears the filter and replaces the inventory from Graph.
// On failure the previous inventory and filter are left untouched.
func (s *InventoryService) Refresh(ctx context.Context) ([]domain.CloudPC, error) {
	records, err := s.client.ListCloudPCs(ctx)
	if err != nil {
		logger.Debug("inventory: refresh failed, keeping %d stale records: %v", s.store.Len(), err)
		return nil, err
	}

	s.store.Replace(records)

	s.mu.Lock()
	s.filter = ""
	s.mu.Unlock()

	logger.Debug("inventory: refreshed, %d cloud pcs (%d in grace)", s.store.Len(), s.store.GraceCount())
	return s.store.All(), nil
}

// SetFilter applies an in-memory filter and returns the visible records.
//
// When the inventory is empty there is nothing to filter against, and an
// empty filter text signals the user wants the full view again; both cases
// refresh first. Otherwise no network call is made.
func (s *InventoryService) SetFilter(ctx context.Context, text string) ([]domain.CloudPC, error) {
	if s.store.Len() == 0 || text == "" {
		if _, err := s.Refresh(ctx); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	s.filter = text
	s.mu.Unlock()

	return s.store.Filtered(text), nil
}

// Filter returns the active filter text.
func (s *InventoryService) Filter() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// Visible returns the records matching the active filter.
func (s *InventoryService) Visible() []domain.CloudPC {
	return s.store.Filtered(s.Filter())
}

// All returns the full unfiltered inventory.
func (s *InventoryService) All() []domain.CloudPC {
	return s.store.All()
}

// GraceCount returns how many held records are in grace period.
func (s *InventoryService) GraceCount() int {
	return s.store.GraceCount()
}

// Deprovision ends the grace period of the identified Cloud PC.
//
// The guard is local: a device not held, or held but not in grace, never
// reaches the Graph client. On success the inventory is refreshed so the
// deprovisioning state shows up; a failed post-refresh is logged but does
// not fail the deprovision, which already happened server-side.
func (s *InventoryService) Deprovision(ctx context.Context, id string) error {
	record, ok := s.store.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	if !record.InGracePeriod() {
		return fmt.Errorf("%w: %s is %s", domain.ErrNotInGracePeriod, id, record.Status)
	}

	if err := s.client.EndGracePeriod(ctx, id); err != nil {
		return err
	}

	logger.Info("inventory: ended grace period for %s (%s)", record.ManagedDeviceName, id)

	if _, err := s.Refresh(ctx); err != nil {
		logger.Warn("inventory: refresh after deprovision failed: %v", err)
	}
	return nil
}

// Export writes the full unfiltered inventory as CSV, regardless of any
// active filter.
func (s *InventoryService) Export(w io.Writer) error {
	_, err := export.WriteCSV(w, s.store.All())
	return err
}

// ExportFile writes the CSV snapshot to a file and returns the row count.
func (s *InventoryService) ExportFile(path string) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create export file: %w", err)
	}

	n, err := export.WriteCSV(f, s.store.All())
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return n, err
}
