package domain

import (
	"strings"
	"time"
)

// Cloud PC provisioning states returned by Microsoft Graph.
// The set is open: the service may introduce new states at any time,
// so unknown values are carried through untouched.
const (
	StatusProvisioned     = "provisioned"
	StatusInGracePeriod   = "inGracePeriod"
	StatusDeprovisioning  = "deprovisioning"
	StatusProvisionedWarn = "provisionedWithWarnings"
	StatusNotProvisioned  = "notProvisioned"
)

// CloudPC is a single Windows 365 Cloud PC as reported by the
// virtualEndpoint/cloudPCs collection.
type CloudPC struct {
	// ID is the Graph object ID, the primary key for all operations.
	ID string
	// ManagedDeviceName is the device's display name.
	ManagedDeviceName string
	// UserPrincipalName is the assigned user, empty when unassigned.
	UserPrincipalName string
	// Status is the provisioning state (open set, see Status* constants).
	Status string
	// ServicePlanName is the Windows 365 plan, may be empty.
	ServicePlanName string
	// GracePeriodEndsAt is the parsed grace period deadline.
	// Zero when the device is not in grace or the value did not parse.
	GracePeriodEndsAt time.Time
	// GracePeriodEndRaw is the verbatim gracePeriodEndDateTime string from
	// the API. Kept so an unparsable value still round-trips to display
	// and export instead of failing the whole list call.
	GracePeriodEndRaw string
}

// InGracePeriod reports whether the device is in its deprovisioning grace
// window. Always derived from Status, never stored separately.
func (c *CloudPC) InGracePeriod() bool {
	return c.Status == StatusInGracePeriod
}

// GraceEndDisplay returns the grace deadline formatted for display.
// Falls back to the raw API string when the timestamp did not parse.
func (c *CloudPC) GraceEndDisplay() string {
	if !c.GracePeriodEndsAt.IsZero() {
		return c.GracePeriodEndsAt.UTC().Format("2006-01-02 15:04 MST")
	}
	return c.GracePeriodEndRaw
}

// Matches reports whether the query is a case-insensitive substring of the
// device ID, name, user, status, or service plan. An empty query matches.
func (c *CloudPC) Matches(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(c.ID), q) ||
		strings.Contains(strings.ToLower(c.ManagedDeviceName), q) ||
		strings.Contains(strings.ToLower(c.UserPrincipalName), q) ||
		strings.Contains(strings.ToLower(c.Status), q) ||
		strings.Contains(strings.ToLower(c.ServicePlanName), q)
}
