package main

import (
	"log"
	"os"

	"github.com/w365ops/cloudpcctl/internal/adapters/driven/auth"
	"github.com/w365ops/cloudpcctl/internal/adapters/driven/config/file"
	"github.com/w365ops/cloudpcctl/internal/adapters/driven/graph"
	"github.com/w365ops/cloudpcctl/internal/adapters/driven/storage/sqlite"
	"github.com/w365ops/cloudpcctl/internal/adapters/driving/cli"
	"github.com/w365ops/cloudpcctl/internal/core/domain"
	"github.com/w365ops/cloudpcctl/internal/core/services"
	"github.com/w365ops/cloudpcctl/internal/logger"
)

var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	cli.SetVersion(version)

	// Credentials (profiles and cached tokens) live in SQLite under the
	// user's home directory.
	credentialsStore, err := sqlite.NewStore("")
	if err != nil {
		log.Printf("failed to open credentials store: %v", err)
		return 1
	}
	defer credentialsStore.Close()

	settingsStore, err := file.NewStore("")
	if err != nil {
		log.Printf("failed to open config store: %v", err)
		return 1
	}

	settings, err := settingsStore.Load()
	if err != nil {
		log.Printf("failed to load settings: %v", err)
		return 1
	}

	// The token provider resolves the default sign-in profile on first use,
	// so the client can be wired before 'auth login' has ever run.
	tokens := auth.NewLazyProvider(credentialsStore)

	client := graph.NewClient(settings.GraphHost, tokens,
		graph.WithPageSize(settings.PageSize),
		graph.WithRateLimit(graph.RateLimitConfig{
			RequestsPerSecond: settings.RequestsPerSecond,
			BurstSize:         graph.DefaultRateLimit.BurstSize,
		}),
	)

	// Config edits take effect without a restart, which matters for the
	// long-running TUI.
	stopWatch, err := settingsStore.Watch(func(s domain.Settings) {
		client.ApplySettings(s)
		logger.Info("settings reloaded from %s", settingsStore.Path())
	})
	if err != nil {
		logger.Warn("config watch unavailable: %v", err)
	} else {
		defer stopWatch()
	}

	inventorySvc := services.NewInventoryService(client)

	cli.SetServices(&cli.Services{
		Inventory:   inventorySvc,
		Credentials: credentialsStore,
		Settings:    settingsStore,
	})

	if err := cli.Execute(); err != nil {
		return 1
	}
	return 0
}
