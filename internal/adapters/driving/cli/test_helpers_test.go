package cli

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/w365ops/cloudpcctl/internal/core/domain"
	"github.com/w365ops/cloudpcctl/internal/export"
)

// mockInventoryService implements driving.InventoryService for testing.
type mockInventoryService struct {
	records        []domain.CloudPC
	refreshRecords []domain.CloudPC
	filter         string

	refreshErr     error
	setFilterErr   error
	deprovisionErr error

	refreshCalls  int
	deprovisioned []string
	exportedPath  string
}

func (m *mockInventoryService) Refresh(_ context.Context) ([]domain.CloudPC, error) {
	m.refreshCalls++
	if m.refreshErr != nil {
		return nil, m.refreshErr
	}
	if m.refreshRecords != nil {
		m.records = m.refreshRecords
	}
	return m.records, nil
}

func (m *mockInventoryService) SetFilter(_ context.Context, text string) ([]domain.CloudPC, error) {
	if m.setFilterErr != nil {
		return nil, m.setFilterErr
	}
	m.filter = text
	out := make([]domain.CloudPC, 0, len(m.records))
	for i := range m.records {
		if m.records[i].Matches(text) {
			out = append(out, m.records[i])
		}
	}
	return out, nil
}

func (m *mockInventoryService) Filter() string { return m.filter }

func (m *mockInventoryService) Visible() []domain.CloudPC { return m.records }

func (m *mockInventoryService) All() []domain.CloudPC { return m.records }

func (m *mockInventoryService) GraceCount() int {
	count := 0
	for i := range m.records {
		if m.records[i].InGracePeriod() {
			count++
		}
	}
	return count
}

func (m *mockInventoryService) Deprovision(_ context.Context, id string) error {
	if m.deprovisionErr != nil {
		return m.deprovisionErr
	}
	m.deprovisioned = append(m.deprovisioned, id)
	return nil
}

func (m *mockInventoryService) Export(w io.Writer) error {
	_, err := export.WriteCSV(w, m.records)
	return err
}

func (m *mockInventoryService) ExportFile(path string) (int, error) {
	m.exportedPath = path
	return len(m.records), nil
}

// testInventory returns a mock pre-populated with one provisioned and one
// grace-period device.
func testInventory() *mockInventoryService {
	return &mockInventoryService{
		records: []domain.CloudPC{
			{
				ID:                "pc-1",
				ManagedDeviceName: "CPC-ALPHA",
				UserPrincipalName: "ada@contoso.com",
				Status:            domain.StatusProvisioned,
				ServicePlanName:   "Cloud PC Enterprise 4vCPU",
			},
			{
				ID:                "pc-2",
				ManagedDeviceName: "CPC-BRAVO",
				UserPrincipalName: "grace@contoso.com",
				Status:            domain.StatusInGracePeriod,
				ServicePlanName:   "Cloud PC Enterprise 2vCPU",
				GracePeriodEndsAt: time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC),
			},
		},
	}
}

// setupTestServices injects a mock inventory service and returns it with a
// cleanup func.
func setupTestServices() (*mockInventoryService, func()) {
	oldInventory := inventoryService
	oldCredentials := credentialsStore
	oldSettings := settingsStore

	svc := testInventory()
	inventoryService = svc

	return svc, func() {
		inventoryService = oldInventory
		credentialsStore = oldCredentials
		settingsStore = oldSettings
	}
}

// executeCommand runs the root command with the given args and captures its
// output.
func executeCommand(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}
