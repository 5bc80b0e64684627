package client

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/StrungPattern-coder/SecureSight/internal/auth"
)

// Requests are capped at 30 seconds; timed-out calls fail through the
// same path as network errors.
const requestTimeout = 30 * time.Second

type SecureSightClient struct {
	HTTP   *resty.Client
	Config ClientConfig

	session string
}

type ClientConfig struct {
	BaseURL      string
	Email        string
	Password     string
	ClientID     string // Integration credentials for headless login
	ClientSecret string // (exporter service, CI checks)
}

// LoginPayload matches the JSON body required by POST /api/auth/login
type LoginPayload struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	ClientName       string `json:"clientName"`
	IntegrationToken string `json:"integrationToken,omitempty"`
}

// LoginResponse captures the bearer token returned by the API
type LoginResponse struct {
	Token string `json:"token"`
}

func New(cfg ClientConfig) *SecureSightClient {
	r := resty.New()
	r.SetBaseURL(cfg.BaseURL)
	r.SetTimeout(requestTimeout)
	r.SetHeader("Content-Type", "application/json")
	r.SetHeader("Accept", "application/json")

	// On-prem dashboards commonly run behind self-signed certs
	r.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})

	return &SecureSightClient{
		HTTP:   r,
		Config: cfg,
	}
}

// Login authenticates with the dashboard, sets the bearer token on the
// client, and returns the token string for persistence.
func (c *SecureSightClient) Login() (string, error) {
	payload := LoginPayload{
		Email:      c.Config.Email,
		Password:   c.Config.Password,
		ClientName: "SecureSight-Go-CLI",
	}
	if c.Config.ClientID != "" && c.Config.ClientSecret != "" {
		payload.IntegrationToken = auth.GenerateIntegrationToken(
			c.Config.ClientID,
			c.Config.ClientSecret,
		)
	}

	resp, err := c.HTTP.R().
		SetBody(payload).
		SetResult(&LoginResponse{}).
		Post("/api/auth/login")

	if err != nil {
		return "", err
	}

	if resp.IsError() {
		return "", fmt.Errorf("login failed: %s", resp.String())
	}

	loginResult, ok := resp.Result().(*LoginResponse)
	if !ok {
		return "", errors.New("failed to parse login response")
	}

	if loginResult.Token == "" {
		return "", errors.New("login successful but no token returned")
	}

	c.SetSession(loginResult.Token)

	return loginResult.Token, nil
}

// SetSession injects a previously issued session token into all future
// requests for this client instance.
func (c *SecureSightClient) SetSession(token string) {
	c.session = token
	c.HTTP.SetAuthToken(token)
}

// Session returns the current session token, empty when not logged in.
func (c *SecureSightClient) Session() string {
	return c.session
}

// RealtimeURL builds the websocket URL for one collection's
// change-notification channel from the configured base URL.
func (c *SecureSightClient) RealtimeURL(collection string) (string, error) {
	u, err := url.Parse(c.Config.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", c.Config.BaseURL, err)
	}

	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http":
		u.Scheme = "ws"
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	u.Path = "/api/realtime"
	q := u.Query()
	q.Set("collection", collection)
	if c.session != "" {
		q.Set("token", c.session)
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}
