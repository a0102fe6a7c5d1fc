package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/w365ops/cloudpcctl/internal/core/domain"
	"github.com/w365ops/cloudpcctl/internal/core/ports/driven"
)

var _ driven.TokenProvider = (*LazyProvider)(nil)

// LazyProvider resolves the default sign-in profile on first use, so the
// Graph client can be wired up before 'auth login' has ever run. Requests
// made without a stored profile fail with ErrNoCredentials.
type LazyProvider struct {
	store driven.CredentialsStore

	mu       sync.Mutex
	provider *Provider
}

// NewLazyProvider creates a provider backed by the credentials store.
func NewLazyProvider(store driven.CredentialsStore) *LazyProvider {
	return &LazyProvider{store: store}
}

// GetToken resolves the default profile if needed and delegates to it.
func (l *LazyProvider) GetToken(ctx context.Context) (string, error) {
	l.mu.Lock()
	if l.provider == nil {
		profile, err := l.store.DefaultProfile(ctx)
		if err != nil {
			l.mu.Unlock()
			if errors.Is(err, domain.ErrNoCredentials) {
				return "", fmt.Errorf("%w: run 'cloudpcctl auth login' first", domain.ErrNoCredentials)
			}
			return "", fmt.Errorf("resolve sign-in profile: %w", err)
		}
		l.provider = NewProvider(*profile, l.store)
	}
	provider := l.provider
	l.mu.Unlock()

	return provider.GetToken(ctx)
}
