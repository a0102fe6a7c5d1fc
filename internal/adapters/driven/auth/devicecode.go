package auth

import (
	"context"
	"fmt"

	"github.com/w365ops/cloudpcctl/internal/core/domain"
	"github.com/w365ops/cloudpcctl/internal/logger"
)

// DeviceCodePrompt receives the code the user has to enter and the
// verification URL to enter it at.
type DeviceCodePrompt func(userCode, verificationURI string)

// DeviceCodeLogin runs the device authorization flow for a profile and
// returns the resulting token. The prompt is invoked once the service has
// issued a user code; the call then blocks polling the token endpoint until
// the user completes sign-in or ctx expires.
func DeviceCodeLogin(ctx context.Context, profile domain.Profile, prompt DeviceCodePrompt) (domain.Token, error) {
	cfg := delegatedConfig(profile)

	resp, err := cfg.DeviceAuth(ctx)
	if err != nil {
		return domain.Token{}, fmt.Errorf("%w: device authorization: %w", domain.ErrConnection, err)
	}

	if prompt != nil {
		prompt(resp.UserCode, resp.VerificationURI)
	}

	logger.Debug("auth: waiting for device code approval (expires %s)", resp.Expiry)

	tok, err := cfg.DeviceAccessToken(ctx, resp)
	if err != nil {
		return domain.Token{}, fmt.Errorf("%w: device sign-in: %w", domain.ErrConnection, err)
	}

	return fromOAuth2Token(profile.ID, tok, ""), nil
}
