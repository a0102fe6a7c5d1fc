package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/w365ops/cloudpcctl/internal/core/domain"
)

func TestExportCmd_WritesFile(t *testing.T) {
	svc, cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand("export", "--output", "report.csv")

	require.NoError(t, err)
	assert.Equal(t, 1, svc.refreshCalls, "export snapshots the server state first")
	assert.Equal(t, "report.csv", svc.exportedPath)
	assert.Contains(t, out, "Exported 2 Cloud PCs to report.csv")
}

func TestExportCmd_Stdout(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand("export", "-o", "-")

	require.NoError(t, err)
	assert.Contains(t, out, "ManagedDeviceName,UserPrincipalName,ServicePlanName,Status,GracePeriodEnd,IsInGracePeriod")
	assert.Contains(t, out, "CPC-BRAVO")
	assert.Contains(t, out, "true")
}

func TestExportCmd_RefreshFailure(t *testing.T) {
	svc, cleanup := setupTestServices()
	defer cleanup()
	svc.refreshErr = domain.ErrRequest

	_, err := executeCommand("export", "-o", "-")

	assert.ErrorIs(t, err, domain.ErrRequest)
}
