package domain

// DefaultGraphHost is the Microsoft Graph endpoint for the public cloud.
// The Cloud PC collection currently lives on the beta surface.
const DefaultGraphHost = "https://graph.microsoft.com"

// Settings holds user configuration loaded from the config file.
type Settings struct {
	// GraphHost overrides the Graph endpoint (sovereign clouds, test doubles).
	GraphHost string
	// TenantID is the Entra tenant to sign in against. "common" by default.
	TenantID string
	// ClientID is the app registration used for sign-in.
	ClientID string
	// PageSize bounds the $top parameter on list requests.
	PageSize int
	// RequestsPerSecond tunes the client-side rate limit.
	RequestsPerSecond float64
}

// DefaultSettings returns the configuration used when no file exists.
func DefaultSettings() Settings {
	return Settings{
		GraphHost:         DefaultGraphHost,
		TenantID:          "common",
		PageSize:          100,
		RequestsPerSecond: 10.0,
	}
}
