// Package auth acquires Microsoft identity platform tokens for Graph calls.
//
// Two flows are supported, matching how app registrations for Cloud PC
// administration are typically set up:
//
//   - client credentials (app-only, requires a client secret and the
//     CloudPC.ReadWrite.All application permission)
//   - device code (delegated, browser on any machine, refresh token cached)
//
// Tokens are cached in the credentials store and reused until 30 seconds
// before expiry.
package auth

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/oauth2/microsoft"

	"github.com/w365ops/cloudpcctl/internal/core/domain"
	"github.com/w365ops/cloudpcctl/internal/core/ports/driven"
	"github.com/w365ops/cloudpcctl/internal/logger"
)

// Ensure Provider implements the port.
var _ driven.TokenProvider = (*Provider)(nil)

// Scopes for the two flows. App-only tokens always use .default; delegated
// sign-ins request the Cloud PC permission plus a refresh token.
var (
	appScopes       = []string{"https://graph.microsoft.com/.default"}
	delegatedScopes = []string{"CloudPC.ReadWrite.All", "offline_access", "openid"}
)

// Provider supplies bearer tokens for one sign-in profile.
type Provider struct {
	profile domain.Profile
	store   driven.CredentialsStore

	mu sync.Mutex
}

// NewProvider creates a token provider for the given profile.
func NewProvider(profile domain.Profile, store driven.CredentialsStore) *Provider {
	return &Provider{profile: profile, store: store}
}

// GetToken returns a valid access token, reusing the cache when possible.
func (p *Provider) GetToken(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	cached, err := p.store.GetToken(ctx, p.profile.ID)
	if err != nil {
		return "", fmt.Errorf("read token cache: %w", err)
	}
	if cached.Valid() {
		return cached.AccessToken, nil
	}

	var token domain.Token
	switch p.profile.Method {
	case domain.AuthMethodClientSecret:
		token, err = p.clientCredentialsToken(ctx)
	case domain.AuthMethodDeviceCode:
		token, err = p.refreshDelegatedToken(ctx, cached)
	default:
		return "", fmt.Errorf("%w: unknown auth method %q", domain.ErrConnection, p.profile.Method)
	}
	if err != nil {
		return "", err
	}

	if err := p.store.SaveToken(ctx, token); err != nil {
		logger.Warn("auth: could not cache token: %v", err)
	}
	return token.AccessToken, nil
}

// clientCredentialsToken acquires an app-only token.
func (p *Provider) clientCredentialsToken(ctx context.Context) (domain.Token, error) {
	endpoint := microsoft.AzureADEndpoint(p.profile.TenantID)
	cfg := clientcredentials.Config{
		ClientID:     p.profile.ClientID,
		ClientSecret: p.profile.ClientSecret,
		TokenURL:     endpoint.TokenURL,
		Scopes:       appScopes,
	}

	tok, err := cfg.Token(ctx)
	if err != nil {
		return domain.Token{}, fmt.Errorf("%w: client credentials: %w", domain.ErrConnection, err)
	}

	logger.Debug("auth: acquired app-only token for tenant %s", p.profile.TenantID)
	return fromOAuth2Token(p.profile.ID, tok, ""), nil
}

// refreshDelegatedToken redeems the cached refresh token. Without one the
// user has to sign in again.
func (p *Provider) refreshDelegatedToken(ctx context.Context, cached *domain.Token) (domain.Token, error) {
	if cached == nil || cached.RefreshToken == "" {
		return domain.Token{}, fmt.Errorf("%w: session expired", domain.ErrNoCredentials)
	}

	cfg := delegatedConfig(p.profile)
	src := cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: cached.RefreshToken})

	tok, err := src.Token()
	if err != nil {
		return domain.Token{}, fmt.Errorf("%w: refresh token: %w", domain.ErrConnection, err)
	}

	logger.Debug("auth: refreshed delegated token for %s", p.profile.AccountIdentifier)
	return fromOAuth2Token(p.profile.ID, tok, cached.RefreshToken), nil
}

// delegatedConfig builds the oauth2 config for delegated flows.
func delegatedConfig(profile domain.Profile) *oauth2.Config {
	return &oauth2.Config{
		ClientID: profile.ClientID,
		Endpoint: microsoft.AzureADEndpoint(profile.TenantID),
		Scopes:   delegatedScopes,
	}
}

// fromOAuth2Token maps an oauth2 token onto the domain shape. Microsoft may
// rotate the refresh token; when it does not, the previous one is kept.
func fromOAuth2Token(profileID string, tok *oauth2.Token, prevRefresh string) domain.Token {
	refresh := tok.RefreshToken
	if refresh == "" {
		refresh = prevRefresh
	}
	return domain.Token{
		ProfileID:    profileID,
		AccessToken:  tok.AccessToken,
		RefreshToken: refresh,
		TokenType:    tok.TokenType,
		Expiry:       tok.Expiry,
	}
}
