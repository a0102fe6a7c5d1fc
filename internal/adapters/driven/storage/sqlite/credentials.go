package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/w365ops/cloudpcctl/internal/core/domain"
	"github.com/w365ops/cloudpcctl/internal/core/ports/driven"
)

// Ensure Store implements the port.
var _ driven.CredentialsStore = (*Store)(nil)

// SaveProfile inserts or updates a sign-in profile.
func (s *Store) SaveProfile(ctx context.Context, p domain.Profile) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	p.UpdatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (id, name, tenant_id, client_id, client_secret, method, account_identifier, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			tenant_id = excluded.tenant_id,
			client_id = excluded.client_id,
			client_secret = excluded.client_secret,
			method = excluded.method,
			account_identifier = excluded.account_identifier,
			updated_at = excluded.updated_at`,
		p.ID, p.Name, p.TenantID, p.ClientID, p.ClientSecret,
		string(p.Method), p.AccountIdentifier, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// GetProfile returns one profile by ID.
func (s *Store) GetProfile(ctx context.Context, id string) (*domain.Profile, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, tenant_id, client_id, client_secret, method, account_identifier, created_at, updated_at
		FROM profiles WHERE id = ?`, id)
	return scanProfile(row)
}

// DefaultProfile returns the most recently updated profile.
func (s *Store) DefaultProfile(ctx context.Context) (*domain.Profile, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, tenant_id, client_id, client_secret, method, account_identifier, created_at, updated_at
		FROM profiles ORDER BY updated_at DESC LIMIT 1`)
	return scanProfile(row)
}

// ListProfiles returns all profiles, most recently updated first.
func (s *Store) ListProfiles(ctx context.Context) ([]domain.Profile, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, tenant_id, client_id, client_secret, method, account_identifier, created_at, updated_at
		FROM profiles ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []domain.Profile
	for rows.Next() {
		var p domain.Profile
		var method string
		if err := rows.Scan(&p.ID, &p.Name, &p.TenantID, &p.ClientID, &p.ClientSecret,
			&method, &p.AccountIdentifier, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		p.Method = domain.AuthMethod(method)
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// DeleteProfile removes a profile and, via cascade, its cached token.
func (s *Store) DeleteProfile(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return nil
}

// SaveToken caches a token for a profile.
func (s *Store) SaveToken(ctx context.Context, t domain.Token) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tokens (profile_id, access_token, refresh_token, token_type, expiry)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(profile_id) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			token_type = excluded.token_type,
			expiry = excluded.expiry`,
		t.ProfileID, t.AccessToken, t.RefreshToken, t.TokenType, t.Expiry)
	if err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

// GetToken returns the cached token for a profile, nil when absent.
func (s *Store) GetToken(ctx context.Context, profileID string) (*domain.Token, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT profile_id, access_token, refresh_token, token_type, expiry
		FROM tokens WHERE profile_id = ?`, profileID)

	var t domain.Token
	var expiry sql.NullTime
	err := row.Scan(&t.ProfileID, &t.AccessToken, &t.RefreshToken, &t.TokenType, &expiry)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get token: %w", err)
	}
	if expiry.Valid {
		t.Expiry = expiry.Time
	}
	return &t, nil
}

// DeleteToken drops the cached token for a profile.
func (s *Store) DeleteToken(ctx context.Context, profileID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM tokens WHERE profile_id = ?`, profileID)
	if err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

// scanProfile maps one row onto a Profile, translating the no-rows case to
// domain.ErrNoCredentials.
func scanProfile(row *sql.Row) (*domain.Profile, error) {
	var p domain.Profile
	var method string
	err := row.Scan(&p.ID, &p.Name, &p.TenantID, &p.ClientID, &p.ClientSecret,
		&method, &p.AccountIdentifier, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNoCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("scan profile: %w", err)
	}
	p.Method = domain.AuthMethod(method)
	return &p, nil
}
