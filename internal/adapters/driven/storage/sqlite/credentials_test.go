package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/w365ops/cloudpcctl/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testProfile(id string) domain.Profile {
	return domain.Profile{
		ID:       id,
		Name:     "ops tenant",
		TenantID: "contoso.onmicrosoft.com",
		ClientID: "app-id",
		Method:   domain.AuthMethodDeviceCode,
	}
}

func TestStore_ProfileRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveProfile(ctx, testProfile("p1")))

	got, err := store.GetProfile(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "ops tenant", got.Name)
	assert.Equal(t, "contoso.onmicrosoft.com", got.TenantID)
	assert.Equal(t, domain.AuthMethodDeviceCode, got.Method)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestStore_GetProfile_Missing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetProfile(context.Background(), "nope")

	assert.ErrorIs(t, err, domain.ErrNoCredentials)
}

func TestStore_SaveProfile_Upsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	p := testProfile("p1")
	require.NoError(t, store.SaveProfile(ctx, p))

	p.Name = "renamed"
	p.ClientSecret = "s3cret"
	require.NoError(t, store.SaveProfile(ctx, p))

	got, err := store.GetProfile(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name)
	assert.Equal(t, "s3cret", got.ClientSecret)

	profiles, err := store.ListProfiles(ctx)
	require.NoError(t, err)
	assert.Len(t, profiles, 1)
}

func TestStore_DefaultProfile(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.DefaultProfile(ctx)
	assert.ErrorIs(t, err, domain.ErrNoCredentials)

	require.NoError(t, store.SaveProfile(ctx, testProfile("old")))
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, store.SaveProfile(ctx, testProfile("new")))

	got, err := store.DefaultProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new", got.ID)
}

func TestStore_TokenRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveProfile(ctx, testProfile("p1")))

	expiry := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	token := domain.Token{
		ProfileID:    "p1",
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		Expiry:       expiry,
	}
	require.NoError(t, store.SaveToken(ctx, token))

	got, err := store.GetToken(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "access", got.AccessToken)
	assert.Equal(t, "refresh", got.RefreshToken)
	assert.True(t, expiry.Equal(got.Expiry.UTC()))
}

func TestStore_GetToken_MissingReturnsNil(t *testing.T) {
	store := newTestStore(t)

	got, err := store.GetToken(context.Background(), "nope")

	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_DeleteProfile_CascadesToken(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveProfile(ctx, testProfile("p1")))
	require.NoError(t, store.SaveToken(ctx, domain.Token{ProfileID: "p1", AccessToken: "tok"}))

	require.NoError(t, store.DeleteProfile(ctx, "p1"))

	_, err := store.GetProfile(ctx, "p1")
	assert.ErrorIs(t, err, domain.ErrNoCredentials)

	token, err := store.GetToken(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, token)
}

func TestStore_DeleteToken(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveProfile(ctx, testProfile("p1")))
	require.NoError(t, store.SaveToken(ctx, domain.Token{ProfileID: "p1", AccessToken: "tok"}))
	require.NoError(t, store.DeleteToken(ctx, "p1"))

	token, err := store.GetToken(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, token)
}
