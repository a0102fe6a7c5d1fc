package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetVersion(t *testing.T) {
	// Given
	originalVersion := version
	defer func() { version = originalVersion }()

	// When
	SetVersion("1.2.3")

	// Then
	assert.Equal(t, "1.2.3", version)
}

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "cloudpcctl", rootCmd.Use)
}

func TestRootCmd_Long(t *testing.T) {
	assert.Contains(t, rootCmd.Long, "grace period")
	assert.Contains(t, rootCmd.Long, "exported to CSV")
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	commands := rootCmd.Commands()

	commandNames := make([]string, 0, len(commands))
	for _, cmd := range commands {
		commandNames = append(commandNames, cmd.Name())
	}

	assert.Contains(t, commandNames, "list", "should have list command")
	assert.Contains(t, commandNames, "deprovision", "should have deprovision command")
	assert.Contains(t, commandNames, "export", "should have export command")
	assert.Contains(t, commandNames, "auth", "should have auth command")
	assert.Contains(t, commandNames, "tui", "should have tui command")
	assert.Contains(t, commandNames, "version", "should have version command")
}

func TestExecute_ReturnsNoErrorWithHelp(t *testing.T) {
	out, err := executeCommand("--help")

	assert.NoError(t, err)
	assert.Contains(t, out, "cloudpcctl")
}

func TestSetServices_WithNilServices(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	// Call with nil should not panic and should not change values
	SetServices(nil)

	assert.NotNil(t, inventoryService)
}

func TestSetServices_WithValidServices(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	inventoryService = nil

	SetServices(&Services{Inventory: &mockInventoryService{}})

	assert.NotNil(t, inventoryService)
}

func TestVersionCmd(t *testing.T) {
	originalVersion := version
	defer func() { version = originalVersion }()
	SetVersion("9.9.9")

	out, err := executeCommand("version")

	assert.NoError(t, err)
	assert.Contains(t, out, "cloudpcctl 9.9.9")
}
