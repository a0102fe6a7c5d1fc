package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/w365ops/cloudpcctl/internal/core/domain"
)

func TestDeprovisionCmd_Confirmed(t *testing.T) {
	svc, cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand("deprovision", "pc-2", "--yes")

	require.NoError(t, err)
	assert.Equal(t, []string{"pc-2"}, svc.deprovisioned)
	assert.Contains(t, out, "Grace period ended for CPC-BRAVO (pc-2).")
}

func TestDeprovisionCmd_UnknownDevice(t *testing.T) {
	svc, cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand("deprovision", "pc-404", "-y")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, svc.deprovisioned)
}

func TestDeprovisionCmd_NotInGracePeriod(t *testing.T) {
	svc, cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand("deprovision", "pc-1", "-y")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotInGracePeriod)
	assert.Contains(t, err.Error(), "pc-1 is provisioned")
	assert.Empty(t, svc.deprovisioned)
}

func TestDeprovisionCmd_PopulatesEmptyInventory(t *testing.T) {
	svc, cleanup := setupTestServices()
	defer cleanup()
	svc.refreshRecords = svc.records
	svc.records = nil

	_, err := executeCommand("deprovision", "pc-2", "-y")

	require.NoError(t, err)
	assert.Equal(t, 1, svc.refreshCalls)
	assert.Equal(t, []string{"pc-2"}, svc.deprovisioned)
}

func TestDeprovisionCmd_RequestFailure(t *testing.T) {
	svc, cleanup := setupTestServices()
	defer cleanup()
	svc.deprovisionErr = domain.ErrRequest

	_, err := executeCommand("deprovision", "pc-2", "-y")

	assert.ErrorIs(t, err, domain.ErrRequest)
}

func TestDeprovisionCmd_RequiresID(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand("deprovision")

	assert.Error(t, err)
}
