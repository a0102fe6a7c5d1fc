package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/w365ops/cloudpcctl/internal/core/domain"
	"github.com/w365ops/cloudpcctl/internal/core/ports/driven"
	"github.com/w365ops/cloudpcctl/internal/logger"
)

// Ensure Client implements the port.
var _ driven.CloudPCClient = (*Client)(nil)

const cloudPCsPath = "/beta/deviceManagement/virtualEndpoint/cloudPCs"

// Client calls the Cloud PC endpoints of Microsoft Graph.
type Client struct {
	host          string
	tokenProvider driven.TokenProvider
	httpClient    *http.Client
	rateLimiter   *RateLimiter

	mu       sync.RWMutex
	pageSize int
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithPageSize sets the $top parameter on list requests.
func WithPageSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithRateLimit overrides the default rate limit configuration.
func WithRateLimit(cfg RateLimitConfig) Option {
	return func(c *Client) { c.rateLimiter = NewRateLimiter(cfg) }
}

// NewClient creates a Cloud PC client against the given Graph host.
// An empty host selects the public cloud endpoint.
func NewClient(host string, tokenProvider driven.TokenProvider, opts ...Option) *Client {
	if host == "" {
		host = domain.DefaultGraphHost
	}
	c := &Client{
		host:          host,
		tokenProvider: tokenProvider,
		httpClient:    &http.Client{Timeout: 60 * time.Second},
		rateLimiter:   NewRateLimiter(DefaultRateLimit),
		pageSize:      100,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ApplySettings adjusts the tunable parts of a live client. Safe to call
// while requests are in flight.
func (c *Client) ApplySettings(s domain.Settings) {
	if s.PageSize > 0 {
		c.mu.Lock()
		c.pageSize = s.PageSize
		c.mu.Unlock()
	}
	c.rateLimiter.SetRate(RateLimitConfig{
		RequestsPerSecond: s.RequestsPerSecond,
		BurstSize:         DefaultRateLimit.BurstSize,
	})
}

// cloudPCItem is the wire shape of one Cloud PC object.
type cloudPCItem struct {
	ID                     string `json:"id"`
	ManagedDeviceName      string `json:"managedDeviceName"`
	UserPrincipalName      string `json:"userPrincipalName"`
	Status                 string `json:"status"`
	ServicePlanName        string `json:"servicePlanName"`
	GracePeriodEndDateTime string `json:"gracePeriodEndDateTime"`
}

// listResponse is a page of the cloudPCs collection.
type listResponse struct {
	Value    []cloudPCItem `json:"value"`
	NextLink string        `json:"@odata.nextLink"`
}

// ListCloudPCs fetches the full Cloud PC collection, following pages.
func (c *Client) ListCloudPCs(ctx context.Context) ([]domain.CloudPC, error) {
	token, err := c.tokenProvider.GetToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConnection, err)
	}

	c.mu.RLock()
	pageSize := c.pageSize
	c.mu.RUnlock()

	var records []domain.CloudPC
	url := fmt.Sprintf("%s%s?$top=%d", c.host, cloudPCsPath, pageSize)

	for url != "" {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: list cloud pcs: %w", domain.ErrRequest, err)
		}

		body, status, header, err := c.doGet(ctx, url, token)
		if err != nil {
			return nil, fmt.Errorf("%w: list cloud pcs: %w", domain.ErrRequest, err)
		}
		if status != http.StatusOK {
			c.recordThrottle(status, header.Get("Retry-After"))
			return nil, fmt.Errorf("%w: list cloud pcs: status %d: %w",
				domain.ErrRequest, status, WrapError(status))
		}

		var page listResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("%w: decode cloud pcs: %w", domain.ErrRequest, err)
		}

		logger.Debug("graph: cloud pc page with %d items, hasNextLink=%v",
			len(page.Value), page.NextLink != "")

		for i := range page.Value {
			records = append(records, toDomain(&page.Value[i]))
		}
		url = page.NextLink
	}

	logger.Debug("graph: listed %d cloud pcs", len(records))
	return records, nil
}

// EndGracePeriod deprovisions a Cloud PC by ending its grace period.
func (c *Client) EndGracePeriod(ctx context.Context, id string) error {
	token, err := c.tokenProvider.GetToken(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrConnection, err)
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: end grace period: %w", domain.ErrRequest, err)
	}

	url := fmt.Sprintf("%s%s/%s/endGracePeriod", c.host, cloudPCsPath, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: end grace period: %w", domain.ErrRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.recordThrottle(resp.StatusCode, resp.Header.Get("Retry-After"))
		return fmt.Errorf("%w: end grace period %s: status %d: %w",
			domain.ErrRequest, id, resp.StatusCode, WrapError(resp.StatusCode))
	}

	logger.Debug("graph: ended grace period for %s", id)
	return nil
}

// doGet performs an authenticated GET and returns body, status, and headers.
func (c *Client) doGet(ctx context.Context, url, token string) ([]byte, int, http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, resp.Header, fmt.Errorf("read response: %w", err)
	}
	return body, resp.StatusCode, resp.Header, nil
}

// recordThrottle registers Retry-After backoff after a 429.
func (c *Client) recordThrottle(status int, retryAfterHeader string) {
	if !IsRateLimited(status) {
		return
	}
	retryAfter, _ := strconv.Atoi(retryAfterHeader)
	logger.Warn("graph: throttled, backing off %ds", retryAfter)
	c.rateLimiter.RecordRateLimitError(retryAfter)
}

// toDomain maps a wire item onto the domain record. An unparsable
// gracePeriodEndDateTime is carried through as the raw string rather than
// failing the whole call.
func toDomain(item *cloudPCItem) domain.CloudPC {
	pc := domain.CloudPC{
		ID:                item.ID,
		ManagedDeviceName: item.ManagedDeviceName,
		UserPrincipalName: item.UserPrincipalName,
		Status:            item.Status,
		ServicePlanName:   item.ServicePlanName,
		GracePeriodEndRaw: item.GracePeriodEndDateTime,
	}
	if item.GracePeriodEndDateTime != "" {
		if t, err := time.Parse(time.RFC3339, item.GracePeriodEndDateTime); err == nil {
			pc.GracePeriodEndsAt = t
		} else {
			logger.Debug("graph: unparsable gracePeriodEndDateTime %q for %s",
				item.GracePeriodEndDateTime, item.ID)
		}
	}
	return pc
}
