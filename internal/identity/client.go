// Package identity talks to the external identity provider that owns user
// accounts. Users are never stored locally; this package resolves profiles
// and verifies access tokens issued by the provider.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// ErrUserNotFound is returned when the provider has no user with the given ID.
var ErrUserNotFound = errors.New("identity user not found")

// UserProfile is the subset of a provider user record the API exposes.
type UserProfile struct {
	ID              string `json:"id"`
	PrimaryEmail    string `json:"primary_email"`
	DisplayName     string `json:"display_name"`
	ProfileImageURL string `json:"profile_image_url"`
}

// Config holds the server credentials for the provider's REST API.
type Config struct {
	BaseURL   string
	ProjectID string
	SecretKey string
	Timeout   time.Duration
}

// Client fetches user profiles from the identity provider.
type Client struct {
	baseURL   string
	projectID string
	secretKey string
	http      *http.Client
}

// NewClient creates a provider client with a traced HTTP transport.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		projectID: cfg.ProjectID,
		secretKey: cfg.SecretKey,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

type errorBody struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// GetUserByID fetches one user profile.
func (c *Client) GetUserByID(ctx context.Context, userID string) (*UserProfile, error) {
	endpoint := fmt.Sprintf("%s/api/v1/users/%s", c.baseURL, url.PathEscape(userID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Stack-Access-Type", "server")
	req.Header.Set("X-Stack-Project-Id", c.projectID)
	req.Header.Set("X-Stack-Secret-Server-Key", c.secretKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch user %s: %w", userID, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read user %s: %w", userID, err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch user %s: unexpected status %d", userID, resp.StatusCode)
	}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && (eb.Code != "" || eb.Error != "") {
		return nil, fmt.Errorf("fetch user %s: provider error %s %s", userID, eb.Code, eb.Error)
	}

	var profile UserProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, fmt.Errorf("decode user %s: %w", userID, err)
	}
	if profile.ID == "" {
		return nil, fmt.Errorf("decode user %s: missing id", userID)
	}

	return &profile, nil
}
