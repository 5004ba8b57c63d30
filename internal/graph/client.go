package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pstn-call-report/internal/config"
	"pstn-call-report/internal/models"
)

// Client talks to Microsoft Graph for PSTN call records. It acquires an
// app-only token via the client-credentials flow and fetches the call
// log for a UTC window.
type Client struct {
	clientID     string
	clientSecret string
	tenantID     string
	httpClient   *http.Client
	loginBaseURL string
	graphBaseURL string
}

// NewClient creates a Graph client from the Azure AD app details.
func NewClient(cfg config.GraphConfig) *Client {
	return &Client{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		tenantID:     cfg.TenantID,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		loginBaseURL: "https://login.microsoftonline.com",
		graphBaseURL: "https://graph.microsoft.com",
	}
}

// GetToken acquires an application token for the Graph default scope.
func (c *Client) GetToken(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)
	form.Set("scope", "https://graph.microsoft.com/.default")

	endpoint := fmt.Sprintf("%s/%s/oauth2/v2.0/token", c.loginBaseURL, c.tenantID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("token request returned status %d: %s", resp.StatusCode, body)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("token response missing access_token")
	}
	return payload.AccessToken, nil
}

// GetCallLogs fetches the PSTN call records for the UTC window [from, to).
// An empty value array means no data for the window and is not an error.
func (c *Client) GetCallLogs(ctx context.Context, token string, from, to time.Time) ([]models.RawCallRecord, error) {
	endpoint := fmt.Sprintf(
		"%s/v1.0/communications/callRecords/getPstnCalls(fromDateTime=%s,toDateTime=%s)",
		c.graphBaseURL,
		from.UTC().Format(time.RFC3339),
		to.UTC().Format(time.RFC3339),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build call log request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call log request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("call log request returned status %d: %s", resp.StatusCode, body)
	}

	var payload struct {
		Value []models.RawCallRecord `json:"value"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode call log response: %w", err)
	}
	return payload.Value, nil
}
