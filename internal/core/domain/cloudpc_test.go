package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCloudPC_InGracePeriod(t *testing.T) {
	tests := []struct {
		name     string
		status   string
		expected bool
	}{
		{name: "in grace period", status: StatusInGracePeriod, expected: true},
		{name: "provisioned", status: StatusProvisioned, expected: false},
		{name: "deprovisioning", status: StatusDeprovisioning, expected: false},
		{name: "provisioned with warnings", status: StatusProvisionedWarn, expected: false},
		{name: "not provisioned", status: StatusNotProvisioned, expected: false},
		{name: "unknown status", status: "restoring", expected: false},
		{name: "empty status", status: "", expected: false},
		{name: "wrong case is not grace", status: "ingraceperiod", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pc := CloudPC{Status: tt.status}
			assert.Equal(t, tt.expected, pc.InGracePeriod())
		})
	}
}

func TestCloudPC_Matches(t *testing.T) {
	pc := CloudPC{
		ID:                "b0a9-4f2e",
		ManagedDeviceName: "CPC-Finance-01",
		UserPrincipalName: "ada@contoso.com",
		Status:            StatusInGracePeriod,
		ServicePlanName:   "Cloud PC Enterprise 4vCPU/16GB/256GB",
	}

	tests := []struct {
		name     string
		query    string
		expected bool
	}{
		{name: "empty query matches", query: "", expected: true},
		{name: "device name substring", query: "finance", expected: true},
		{name: "device name different case", query: "CPC-FIN", expected: true},
		{name: "user substring", query: "ada@", expected: true},
		{name: "status substring", query: "grace", expected: true},
		{name: "plan substring", query: "4vcpu", expected: true},
		{name: "id substring", query: "b0a9", expected: true},
		{name: "id different case", query: "B0A9-4F2E", expected: true},
		{name: "no match", query: "marketing", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, pc.Matches(tt.query))
		})
	}
}

func TestCloudPC_GraceEndDisplay(t *testing.T) {
	t.Run("parsed timestamp is formatted", func(t *testing.T) {
		pc := CloudPC{
			GracePeriodEndsAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
			GracePeriodEndRaw: "2026-03-14T09:30:00Z",
		}
		assert.Equal(t, "2026-03-14 09:30 UTC", pc.GraceEndDisplay())
	})

	t.Run("unparsable value falls back to raw string", func(t *testing.T) {
		pc := CloudPC{GracePeriodEndRaw: "not-a-date"}
		assert.Equal(t, "not-a-date", pc.GraceEndDisplay())
	})

	t.Run("absent value is empty", func(t *testing.T) {
		pc := CloudPC{}
		assert.Equal(t, "", pc.GraceEndDisplay())
	})
}

func TestToken_Valid(t *testing.T) {
	tests := []struct {
		name     string
		token    *Token
		expected bool
	}{
		{name: "nil token", token: nil, expected: false},
		{name: "empty access token", token: &Token{}, expected: false},
		{
			name:     "no expiry means valid",
			token:    &Token{AccessToken: "tok"},
			expected: true,
		},
		{
			name:     "future expiry",
			token:    &Token{AccessToken: "tok", Expiry: time.Now().Add(time.Hour)},
			expected: true,
		},
		{
			name:     "expired",
			token:    &Token{AccessToken: "tok", Expiry: time.Now().Add(-time.Hour)},
			expected: false,
		},
		{
			name:     "expires within skew window",
			token:    &Token{AccessToken: "tok", Expiry: time.Now().Add(10 * time.Second)},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.token.Valid())
		})
	}
}
