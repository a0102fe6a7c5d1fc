package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// UserInfo contains the signed-in user's basic profile from Microsoft Graph.
type UserInfo struct {
	ID                string `json:"id"`
	DisplayName       string `json:"displayName"`
	Mail              string `json:"mail"`
	UserPrincipalName string `json:"userPrincipalName"`
}

// GetUserInfo fetches the signed-in user's profile using an access token.
// Used after a delegated sign-in to label the profile with its account.
func GetUserInfo(ctx context.Context, host, accessToken string) (*UserInfo, error) {
	url := host + "/v1.0/me?$select=id,displayName,mail,userPrincipalName"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user info request failed with status %d: %w",
			resp.StatusCode, WrapError(resp.StatusCode))
	}

	var userInfo UserInfo
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		return nil, fmt.Errorf("decode user info: %w", err)
	}

	return &userInfo, nil
}

// Email returns the user's email address, falling back to the UPN.
func (u *UserInfo) Email() string {
	if u.Mail != "" {
		return u.Mail
	}
	return u.UserPrincipalName
}
