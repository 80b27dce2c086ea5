package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/helpdeskhq/console-gateway/internal/core/domain"
)

const defaultTimeout = 5 * time.Second

// Client calls the helpdesk backend's role-and-permissions endpoint. It is
// the authoritative permission source; callers fall back to token-embedded
// permissions when it is unreachable.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// rolePermissionsResponse mirrors the backend wire shape:
// {"status": ..., "body": {"items": [{"roleName": ..., "permissionsList": [...]}]}}
type rolePermissionsResponse struct {
	Status int `json:"status"`
	Body   struct {
		Items []struct {
			RoleName        string   `json:"roleName"`
			PermissionsList []string `json:"permissionsList"`
		} `json:"items"`
	} `json:"body"`
}

// PermissionsForRole fetches the authoritative permission list for role.
// A 401 or 403 means the bearer token itself was rejected and surfaces as
// domain.ErrSessionRevoked; every other failure is domain.ErrPermissionSource
// so callers can enter degraded mode.
func (c *Client) PermissionsForRole(ctx context.Context, token string, role domain.Role) ([]domain.Permission, error) {
	url := fmt.Sprintf("%s/api/v1/roles/%s/permissions", c.baseURL, role)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", domain.ErrPermissionSource, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPermissionSource, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, domain.ErrSessionRevoked
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: unexpected status %d", domain.ErrPermissionSource, resp.StatusCode)
	}

	var payload rolePermissionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrPermissionSource, err)
	}

	for _, item := range payload.Body.Items {
		if item.RoleName != role.String() {
			continue
		}
		perms := make([]domain.Permission, 0, len(item.PermissionsList))
		for _, p := range item.PermissionsList {
			perms = append(perms, domain.Permission(p))
		}
		return perms, nil
	}

	return nil, fmt.Errorf("%w: role %s not in response", domain.ErrPermissionSource, role)
}
