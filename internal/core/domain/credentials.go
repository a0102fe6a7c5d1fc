package domain

import "time"

// AuthMethod identifies how tokens are acquired for a profile.
type AuthMethod string

const (
	// AuthMethodClientSecret is the app-only client credentials flow.
	AuthMethodClientSecret AuthMethod = "client_secret"
	// AuthMethodDeviceCode is the delegated device authorization flow.
	AuthMethodDeviceCode AuthMethod = "device_code"
)

// Profile is a stored sign-in configuration for one tenant/app pair.
type Profile struct {
	ID           string
	Name         string
	TenantID     string
	ClientID     string
	ClientSecret string
	Method       AuthMethod
	// AccountIdentifier is the signed-in UPN for delegated profiles.
	AccountIdentifier string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Token is a cached OAuth token for a profile.
type Token struct {
	ProfileID    string
	AccessToken  string
	RefreshToken string
	TokenType    string
	Expiry       time.Time
}

// Valid reports whether the access token is present and not expired.
// A small skew guards against using a token that expires mid-request.
func (t *Token) Valid() bool {
	if t == nil || t.AccessToken == "" {
		return false
	}
	if t.Expiry.IsZero() {
		return true
	}
	return time.Now().Add(30 * time.Second).Before(t.Expiry)
}
