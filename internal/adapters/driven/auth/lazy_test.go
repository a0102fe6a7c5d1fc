package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/w365ops/cloudpcctl/internal/core/domain"
)

func TestLazyProvider_NoProfiles(t *testing.T) {
	provider := NewLazyProvider(newMockCredentialsStore())

	_, err := provider.GetToken(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoCredentials)
	assert.Contains(t, err.Error(), "auth login")
}

func TestLazyProvider_ResolvesDefaultProfile(t *testing.T) {
	store := newMockCredentialsStore()
	store.profiles["p1"] = &domain.Profile{
		ID:     "p1",
		Method: domain.AuthMethodClientSecret,
	}
	store.tokens["p1"] = &domain.Token{
		ProfileID:   "p1",
		AccessToken: "cached-token",
		Expiry:      time.Now().Add(time.Hour),
	}
	provider := NewLazyProvider(store)

	token, err := provider.GetToken(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "cached-token", token)
}

func TestLazyProvider_ResolvesOnce(t *testing.T) {
	store := newMockCredentialsStore()
	store.profiles["p1"] = &domain.Profile{
		ID:     "p1",
		Method: domain.AuthMethodClientSecret,
	}
	store.tokens["p1"] = &domain.Token{
		ProfileID:   "p1",
		AccessToken: "cached-token",
		Expiry:      time.Now().Add(time.Hour),
	}
	provider := NewLazyProvider(store)

	_, err := provider.GetToken(context.Background())
	require.NoError(t, err)

	// A profile added later must not displace the resolved one.
	store.profiles["p2"] = &domain.Profile{ID: "p2", Method: domain.AuthMethodDeviceCode}

	token, err := provider.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "cached-token", token)
}
