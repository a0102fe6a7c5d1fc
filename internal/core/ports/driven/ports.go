// Package driven defines the outbound ports: interfaces the core depends on
// and adapters implement.
package driven

import (
	"context"

	"github.com/w365ops/cloudpcctl/internal/core/domain"
)

// CloudPCClient lists Cloud PCs and ends grace periods via Microsoft Graph.
type CloudPCClient interface {
	// ListCloudPCs fetches the full Cloud PC collection. The call either
	// fully succeeds or fully fails; there is no partial list.
	ListCloudPCs(ctx context.Context) ([]domain.CloudPC, error)

	// EndGracePeriod deprovisions the Cloud PC with the given ID by ending
	// its grace period. Any non-success response is returned verbatim.
	EndGracePeriod(ctx context.Context, id string) error
}

// TokenProvider supplies a valid bearer token for Graph requests.
type TokenProvider interface {
	GetToken(ctx context.Context) (string, error)
}

// CredentialsStore persists sign-in profiles and cached tokens.
type CredentialsStore interface {
	SaveProfile(ctx context.Context, p domain.Profile) error
	GetProfile(ctx context.Context, id string) (*domain.Profile, error)
	// DefaultProfile returns the most recently updated profile,
	// or domain.ErrNoCredentials when none exists.
	DefaultProfile(ctx context.Context) (*domain.Profile, error)
	ListProfiles(ctx context.Context) ([]domain.Profile, error)
	DeleteProfile(ctx context.Context, id string) error

	SaveToken(ctx context.Context, t domain.Token) error
	// GetToken returns the cached token for a profile, nil when absent.
	GetToken(ctx context.Context, profileID string) (*domain.Token, error)
	DeleteToken(ctx context.Context, profileID string) error
}

// SettingsStore loads and saves user configuration.
type SettingsStore interface {
	Load() (domain.Settings, error)
	Save(domain.Settings) error
	// Watch invokes fn with fresh settings whenever the config file changes.
	// The returned stop function releases the watcher.
	Watch(fn func(domain.Settings)) (stop func(), err error)
}
